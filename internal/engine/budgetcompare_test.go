package engine_test

import (
	"testing"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/boddenberg/pj-ledger-go/internal/engine"
	"github.com/shopspring/decimal"
)

func paidExpense(id, categoryID, subcategoryID string, accrual time.Time, amount string) domain.Transaction {
	t := tx(id, domain.Outflow, domain.StatusPaid, amount, amount)
	t.CategoryID = categoryID
	t.SubcategoryID = subcategoryID
	t.AccrualDate = accrual
	return t
}

func budgetWith(items ...domain.BudgetItem) *domain.Budget {
	return &domain.Budget{ID: "b1", Year: 2025, Name: "Orçamento 2025", Items: items, IsActive: true}
}

func item(categoryID, subcategoryID string, monthly map[int]string) domain.BudgetItem {
	amounts := make(map[int]decimal.Decimal, len(monthly))
	total := decimal.Zero
	for m, v := range monthly {
		amounts[m] = dec(v)
		total = total.Add(dec(v))
	}
	return domain.BudgetItem{
		ID:             "item-" + categoryID + subcategoryID,
		BudgetID:       "b1",
		CategoryID:     categoryID,
		SubcategoryID:  subcategoryID,
		MonthlyAmounts: amounts,
		TotalAmount:    total,
	}
}

func TestCompareBudget_BasicVariance(t *testing.T) {
	budget := budgetWith(item("cat-rent", "", map[int]string{1: "100", 2: "100"}))
	transactions := []domain.Transaction{
		paidExpense("t1", "cat-rent", "", day(2025, time.January, 10), "250"),
	}

	cmp := engine.CompareBudget(budget, transactions, 2025, testCategories())

	if len(cmp.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cmp.Items))
	}
	line := cmp.Items[0]
	if !line.Budgeted.Equal(dec("200")) {
		t.Errorf("expected budgeted 200, got %s", line.Budgeted)
	}
	if !line.Actual.Equal(dec("250")) {
		t.Errorf("expected actual 250, got %s", line.Actual)
	}
	if !line.Variance.Equal(dec("50")) {
		t.Errorf("expected variance 50, got %s", line.Variance)
	}
	if !line.VariancePct.Equal(dec("25")) {
		t.Errorf("expected variance pct 25, got %s", line.VariancePct)
	}

	// Round-trip property: budgeted + variance = actual.
	if !line.Budgeted.Add(line.Variance).Equal(line.Actual) {
		t.Errorf("variance does not round-trip: %s + %s != %s", line.Budgeted, line.Variance, line.Actual)
	}
}

func TestCompareBudget_MonthlyBreakdown(t *testing.T) {
	budget := budgetWith(item("cat-rent", "", map[int]string{1: "100", 2: "100"}))
	transactions := []domain.Transaction{
		paidExpense("t1", "cat-rent", "", day(2025, time.January, 10), "250"),
	}

	cmp := engine.CompareBudget(budget, transactions, 2025, testCategories())

	monthly := cmp.Items[0].Monthly
	if len(monthly) != 12 {
		t.Fatalf("expected 12 monthly rows, got %d", len(monthly))
	}
	if !monthly[0].Budgeted.Equal(dec("100")) || !monthly[0].Actual.Equal(dec("250")) {
		t.Errorf("january: expected 100/250, got %s/%s", monthly[0].Budgeted, monthly[0].Actual)
	}
	if !monthly[1].Budgeted.Equal(dec("100")) || !monthly[1].Actual.IsZero() {
		t.Errorf("february: expected 100/0, got %s/%s", monthly[1].Budgeted, monthly[1].Actual)
	}
	if !monthly[11].Budgeted.IsZero() {
		t.Errorf("december: expected zero budget, got %s", monthly[11].Budgeted)
	}
}

func TestCompareBudget_OnlyPaidOutflowsInYearCount(t *testing.T) {
	budget := budgetWith(item("cat-rent", "", map[int]string{1: "100"}))
	transactions := []domain.Transaction{
		paidExpense("in-year", "cat-rent", "", day(2025, time.March, 1), "80"),
		paidExpense("other-year", "cat-rent", "", day(2024, time.December, 31), "999"),
		func() domain.Transaction { // open payable: not an actual
			t := paidExpense("open", "cat-rent", "", day(2025, time.March, 1), "999")
			t.Status = domain.StatusPayable
			return t
		}(),
		func() domain.Transaction { // income in the same category id: not an expense
			t := paidExpense("income", "cat-rent", "", day(2025, time.March, 1), "999")
			t.Type = domain.Inflow
			t.Status = domain.StatusReceived
			return t
		}(),
	}

	cmp := engine.CompareBudget(budget, transactions, 2025, testCategories())

	if !cmp.Items[0].Actual.Equal(dec("80")) {
		t.Errorf("expected actual 80, got %s", cmp.Items[0].Actual)
	}
}

func TestCompareBudget_SubcategoryNarrowsTheKey(t *testing.T) {
	categories := engine.NewCategoryIndex(
		[]domain.CategoryItem{{ID: "cat-supplies", Name: "Insumos", Kind: domain.CategoryExpense}},
		[]domain.SubcategoryItem{{ID: "sub-coffee", Name: "Café", CategoryID: "cat-supplies"}},
	)
	budget := budgetWith(
		item("cat-supplies", "sub-coffee", map[int]string{1: "50"}),
		item("cat-supplies", "", map[int]string{1: "500"}),
	)
	transactions := []domain.Transaction{
		paidExpense("coffee", "cat-supplies", "sub-coffee", day(2025, time.January, 5), "60"),
		paidExpense("paper", "cat-supplies", "", day(2025, time.January, 6), "100"),
	}

	cmp := engine.CompareBudget(budget, transactions, 2025, categories)

	byKey := make(map[string]domain.BudgetLineComparison)
	for _, line := range cmp.Items {
		byKey[line.CategoryID+"/"+line.SubcategoryID] = line
	}

	// The narrowed line sees only the subcategory's spend.
	if !byKey["cat-supplies/sub-coffee"].Actual.Equal(dec("60")) {
		t.Errorf("expected subcategory actual 60, got %s", byKey["cat-supplies/sub-coffee"].Actual)
	}
	// The category-wide line sees all spend in the category.
	if !byKey["cat-supplies/"].Actual.Equal(dec("160")) {
		t.Errorf("expected category actual 160, got %s", byKey["cat-supplies/"].Actual)
	}
}

func TestCompareBudget_SummaryAndOrdering(t *testing.T) {
	budget := budgetWith(
		item("cat-rent", "", map[int]string{1: "100"}),     // actual 100 → variance 0
		item("cat-supplies", "", map[int]string{1: "100"}), // actual 300 → variance +200
		item("cat-payroll", "", map[int]string{1: "100"}),  // actual 50  → variance -50
	)
	transactions := []domain.Transaction{
		paidExpense("t1", "cat-rent", "", day(2025, time.January, 2), "100"),
		paidExpense("t2", "cat-supplies", "", day(2025, time.January, 3), "300"),
		paidExpense("t3", "cat-payroll", "", day(2025, time.January, 4), "50"),
	}

	cmp := engine.CompareBudget(budget, transactions, 2025, testCategories())

	if cmp.Summary.ItemsOverBudget != 1 || cmp.Summary.ItemsUnderBudget != 1 {
		t.Errorf("expected 1 over / 1 under (zero variance counts as neither), got %d/%d",
			cmp.Summary.ItemsOverBudget, cmp.Summary.ItemsUnderBudget)
	}
	if !cmp.Summary.TotalBudgeted.Equal(dec("300")) || !cmp.Summary.TotalActual.Equal(dec("450")) {
		t.Errorf("expected totals 300/450, got %s/%s", cmp.Summary.TotalBudgeted, cmp.Summary.TotalActual)
	}
	if !cmp.Summary.TotalVariance.Equal(dec("150")) {
		t.Errorf("expected total variance 150, got %s", cmp.Summary.TotalVariance)
	}
	if !cmp.Summary.TotalVariancePct.Equal(dec("50")) {
		t.Errorf("expected total variance pct 50, got %s", cmp.Summary.TotalVariancePct)
	}

	// Largest absolute deviation first.
	if cmp.Items[0].CategoryID != "cat-supplies" || cmp.Items[1].CategoryID != "cat-payroll" {
		t.Errorf("expected ordering by |variance| desc, got %s, %s, %s",
			cmp.Items[0].CategoryID, cmp.Items[1].CategoryID, cmp.Items[2].CategoryID)
	}
}

func TestCompareBudget_ZeroBudgetedYieldsZeroPct(t *testing.T) {
	budget := budgetWith(item("cat-rent", "", map[int]string{}))
	transactions := []domain.Transaction{
		paidExpense("t1", "cat-rent", "", day(2025, time.May, 1), "40"),
	}

	cmp := engine.CompareBudget(budget, transactions, 2025, testCategories())

	if !cmp.Items[0].VariancePct.IsZero() {
		t.Errorf("expected zero pct on zero budget, got %s", cmp.Items[0].VariancePct)
	}
	if !cmp.Items[0].Variance.Equal(dec("40")) {
		t.Errorf("expected variance 40, got %s", cmp.Items[0].Variance)
	}
}

func TestCompareBudget_NilBudgetIsWellFormedEmpty(t *testing.T) {
	cmp := engine.CompareBudget(nil, nil, 2025, testCategories())
	if len(cmp.Items) != 0 {
		t.Errorf("expected no items, got %d", len(cmp.Items))
	}
	if !cmp.Summary.TotalBudgeted.IsZero() || !cmp.Summary.TotalVariance.IsZero() {
		t.Errorf("expected zeroed summary, got %+v", cmp.Summary)
	}
}

func TestCompareBudget_LegacyNameMatching(t *testing.T) {
	// A record imported with only the free-text name still matches the
	// budget line for the normalized category.
	budget := budgetWith(item("cat-rent", "", map[int]string{1: "100"}))
	legacy := paidExpense("t1", "", "", day(2025, time.January, 20), "70")
	legacy.CategoryName = "Aluguel"

	cmp := engine.CompareBudget(budget, []domain.Transaction{legacy}, 2025, testCategories())

	if !cmp.Items[0].Actual.Equal(dec("70")) {
		t.Errorf("expected legacy-name actual 70, got %s", cmp.Items[0].Actual)
	}
}
