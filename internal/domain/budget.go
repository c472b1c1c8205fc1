package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Budgets
// ============================================================

// Budget is a yearly spending plan made of per-category line items.
// At most one budget should be active per year; the store enforces that
// on write, the engine simply trusts it.
type Budget struct {
	ID        string       `json:"id"`
	Year      int          `json:"year"`
	Name      string       `json:"name"`
	Items     []BudgetItem `json:"items"`
	IsActive  bool         `json:"is_active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// BudgetItem is one budget line: a category (optionally narrowed to a
// subcategory) with planned amounts per month 1..12.
//
// TotalAmount is derived and must equal the sum of MonthlyAmounts at all
// times a reader sees it. The store recomputes it on every write.
type BudgetItem struct {
	ID             string                  `json:"id"`
	BudgetID       string                  `json:"budget_id"`
	CategoryID     string                  `json:"category_id"`
	SubcategoryID  string                  `json:"subcategory_id,omitempty"`
	MonthlyAmounts map[int]decimal.Decimal `json:"monthly_amounts"`
	TotalAmount    decimal.Decimal         `json:"total_amount"`
	Notes          string                  `json:"notes,omitempty"`
}

// SumMonthlyAmounts returns the sum of the item's monthly amounts.
// Used by the write side to keep TotalAmount consistent.
func (it BudgetItem) SumMonthlyAmounts() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range it.MonthlyAmounts {
		total = total.Add(amount)
	}
	return total
}
