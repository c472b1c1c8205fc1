package engine

import (
	"sort"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// CompareBudget maps the budget's line items against the expenses actually
// realized in the same category(+subcategory) bucket during the year.
//
// An "actual" is a paid outflow whose accrual date falls in the year. The
// matching key is the category id alone, or category id + subcategory id
// when the budget line names a subcategory. variance = actual − budgeted;
// a zero budgeted amount yields a zero variance percentage, not an error.
// Items come back ranked by descending absolute variance so the largest
// deviations render first.
//
// A nil budget ("no budget configured") yields a well-formed empty
// comparison.
func CompareBudget(budget *domain.Budget, transactions []domain.Transaction, year int, categories CategoryIndex) domain.BudgetComparison {
	comparison := domain.BudgetComparison{
		Year:  year,
		Items: []domain.BudgetLineComparison{},
		Summary: domain.BudgetSummary{
			TotalBudgeted:    decimal.Zero,
			TotalActual:      decimal.Zero,
			TotalVariance:    decimal.Zero,
			TotalVariancePct: decimal.Zero,
		},
	}
	if budget == nil {
		return comparison
	}

	actuals := yearlyActuals(transactions, year, categories)

	for _, item := range budget.Items {
		line := domain.BudgetLineComparison{
			CategoryID:    item.CategoryID,
			SubcategoryID: item.SubcategoryID,
			Category:      categories.CategoryNameByID(item.CategoryID),
			Budgeted:      item.TotalAmount,
			Actual:        decimal.Zero,
			Monthly:       make([]domain.BudgetMonthly, 0, 12),
		}
		if item.SubcategoryID != "" {
			line.Subcategory = categories.SubcategoryName(item.SubcategoryID)
		}

		months := actuals[bucketKey{item.CategoryID, item.SubcategoryID}]
		for month := 1; month <= 12; month++ {
			budgeted := item.MonthlyAmounts[month]
			actual := months[month]
			line.Actual = line.Actual.Add(actual)
			line.Monthly = append(line.Monthly, domain.BudgetMonthly{
				Month:    month,
				Budgeted: budgeted,
				Actual:   actual,
			})
		}

		line.Variance = line.Actual.Sub(line.Budgeted)
		if !line.Budgeted.IsZero() {
			line.VariancePct = line.Variance.Div(line.Budgeted).Mul(hundred)
		} else {
			line.VariancePct = decimal.Zero
		}

		comparison.Items = append(comparison.Items, line)

		comparison.Summary.TotalBudgeted = comparison.Summary.TotalBudgeted.Add(line.Budgeted)
		comparison.Summary.TotalActual = comparison.Summary.TotalActual.Add(line.Actual)
		switch line.Variance.Sign() {
		case 1:
			comparison.Summary.ItemsOverBudget++
		case -1:
			comparison.Summary.ItemsUnderBudget++
		}
	}

	comparison.Summary.TotalVariance = comparison.Summary.TotalActual.Sub(comparison.Summary.TotalBudgeted)
	if !comparison.Summary.TotalBudgeted.IsZero() {
		comparison.Summary.TotalVariancePct = comparison.Summary.TotalVariance.Div(comparison.Summary.TotalBudgeted).Mul(hundred)
	}

	// Largest deviations first; name breaks ties deterministically.
	sort.SliceStable(comparison.Items, func(i, j int) bool {
		ai, aj := comparison.Items[i].Variance.Abs(), comparison.Items[j].Variance.Abs()
		if c := ai.Cmp(aj); c != 0 {
			return c > 0
		}
		return comparison.Items[i].Category < comparison.Items[j].Category
	})

	return comparison
}

// bucketKey is the composite matching key of budget lines: category id,
// plus subcategory id when the line narrows to one.
type bucketKey struct {
	categoryID    string
	subcategoryID string
}

// monthTotals holds realized expense per month 1..12 (index 0 unused).
type monthTotals [13]decimal.Decimal

// yearlyActuals buckets the paid outflows of the year by both the
// category-only key and the category+subcategory key, so a budget line can
// match at either granularity.
func yearlyActuals(transactions []domain.Transaction, year int, categories CategoryIndex) map[bucketKey]monthTotals {
	actuals := make(map[bucketKey]monthTotals)

	for _, t := range transactions {
		if t.Type != domain.Outflow || t.Status != domain.StatusPaid {
			continue
		}
		accrual := dateOnly(t.AccrualDate)
		if accrual.Year() != year {
			continue
		}

		categoryID := categories.ResolveCategoryID(t)
		if categoryID == "" {
			continue // unclassifiable: nothing for a budget line to match
		}
		month := int(accrual.Month())

		keys := []bucketKey{{categoryID, ""}}
		if t.SubcategoryID != "" {
			keys = append(keys, bucketKey{categoryID, t.SubcategoryID})
		}
		for _, key := range keys {
			months := actuals[key]
			months[month] = months[month].Add(t.ActualAmount)
			actuals[key] = months
		}
	}

	return actuals
}
