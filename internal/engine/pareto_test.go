package engine_test

import (
	"fmt"
	"testing"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/boddenberg/pj-ledger-go/internal/engine"
	"github.com/shopspring/decimal"
)

func categorized(id, categoryID string, typ domain.TransactionType, status domain.TransactionStatus, expected, actual string) domain.Transaction {
	t := tx(id, typ, status, expected, actual)
	t.CategoryID = categoryID
	return t
}

func testCategories() engine.CategoryIndex {
	return engine.NewCategoryIndex(
		[]domain.CategoryItem{
			{ID: "cat-rent", Name: "Aluguel", Kind: domain.CategoryExpense},
			{ID: "cat-supplies", Name: "Insumos", Kind: domain.CategoryExpense},
			{ID: "cat-payroll", Name: "Folha", Kind: domain.CategoryExpense},
		},
		nil,
	)
}

func TestComputePareto_RanksDescendingWithCumulativeCurve(t *testing.T) {
	transactions := []domain.Transaction{
		categorized("t1", "cat-rent", domain.Outflow, domain.StatusPaid, "0", "500"),
		categorized("t2", "cat-supplies", domain.Outflow, domain.StatusPaid, "0", "300"),
		categorized("t3", "cat-payroll", domain.Outflow, domain.StatusPayable, "200", "0"),
		categorized("t4", "cat-ignored", domain.Inflow, domain.StatusReceived, "0", "900"), // income, not ranked
	}

	ranking := engine.ComputePareto(transactions, engine.AllAccounts, testCategories())

	if len(ranking) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ranking))
	}
	if ranking[0].Category != "Aluguel" || !ranking[0].Amount.Equal(dec("500")) {
		t.Errorf("expected Aluguel/500 first, got %s/%s", ranking[0].Category, ranking[0].Amount)
	}
	if !ranking[0].PercentOfTotal.Equal(dec("50")) {
		t.Errorf("expected 50%% of total, got %s", ranking[0].PercentOfTotal)
	}
	if !ranking[2].CumulativeAmount.Equal(dec("1000")) {
		t.Errorf("expected cumulative amount 1000, got %s", ranking[2].CumulativeAmount)
	}

	// Entries must be sorted descending by amount.
	for i := 1; i < len(ranking); i++ {
		if ranking[i].Amount.Cmp(ranking[i-1].Amount) > 0 {
			t.Errorf("ranking not descending at index %d", i)
		}
	}

	// The curve must end at 100% (within rounding epsilon).
	last := ranking[len(ranking)-1].CumulativePercent
	if last.Sub(dec("100")).Abs().Cmp(dec("0.0000001")) > 0 {
		t.Errorf("expected cumulative percent 100, got %s", last)
	}
}

func TestComputePareto_ZeroTotalYieldsEmptyRanking(t *testing.T) {
	transactions := []domain.Transaction{
		categorized("t1", "cat-rent", domain.Outflow, domain.StatusPaid, "0", "0"),
	}
	ranking := engine.ComputePareto(transactions, engine.AllAccounts, testCategories())
	if len(ranking) != 0 {
		t.Errorf("expected empty ranking on zero total, got %d entries", len(ranking))
	}
}

func TestComputePareto_CancelledExcluded(t *testing.T) {
	transactions := []domain.Transaction{
		categorized("t1", "cat-rent", domain.Outflow, domain.StatusCancelled, "800", "0"),
		categorized("t2", "cat-supplies", domain.Outflow, domain.StatusPaid, "0", "100"),
	}
	ranking := engine.ComputePareto(transactions, engine.AllAccounts, testCategories())
	if len(ranking) != 1 || ranking[0].Category != "Insumos" {
		t.Fatalf("expected only Insumos ranked, got %+v", ranking)
	}
}

func TestComputePareto_TruncatesToTopTen(t *testing.T) {
	var transactions []domain.Transaction
	var categories []domain.CategoryItem
	for i := 0; i < 14; i++ {
		id := fmt.Sprintf("cat-%d", i)
		categories = append(categories, domain.CategoryItem{ID: id, Name: id, Kind: domain.CategoryExpense})
		tr := categorized(fmt.Sprintf("t%d", i), id, domain.Outflow, domain.StatusPaid, "0",
			decimal.NewFromInt(int64(100+i)).String())
		transactions = append(transactions, tr)
	}

	ranking := engine.ComputePareto(transactions, engine.AllAccounts, engine.NewCategoryIndex(categories, nil))

	if len(ranking) != 10 {
		t.Fatalf("expected ranking truncated to 10, got %d", len(ranking))
	}
	// Truncated ranking: the curve ends below 100%.
	last := ranking[len(ranking)-1].CumulativePercent
	if last.Cmp(dec("100")) >= 0 {
		t.Errorf("expected truncated curve below 100%%, got %s", last)
	}
}

func TestComputePareto_LegacyCategoryNameFallback(t *testing.T) {
	legacy := tx("t1", domain.Outflow, domain.StatusPaid, "0", "50")
	legacy.CategoryName = "Marketing" // no id: imported record
	unknown := tx("t2", domain.Outflow, domain.StatusPaid, "0", "30")
	unknown.CategoryID = "cat-ghost" // id no longer in the category list

	ranking := engine.ComputePareto([]domain.Transaction{legacy, unknown}, engine.AllAccounts, testCategories())

	if len(ranking) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranking))
	}
	if ranking[0].Category != "Marketing" {
		t.Errorf("expected legacy name fallback, got %s", ranking[0].Category)
	}
	if ranking[1].Category != "cat-ghost" {
		t.Errorf("expected raw id fallback, got %s", ranking[1].Category)
	}
}
