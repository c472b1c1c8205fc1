package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// ============================================================
// Budgets — PostgREST with budget_items embedding
// ============================================================

// budgetRow maps the budgets table with its items embedded via
// select=*,budget_items(*).
type budgetRow struct {
	ID        string          `json:"id,omitempty"`
	Year      int             `json:"year"`
	Name      string          `json:"name"`
	IsActive  bool            `json:"is_active"`
	Items     []budgetItemRow `json:"budget_items,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

// budgetItemRow stores monthly amounts as a jsonb object keyed by month
// number ("1".."12").
type budgetItemRow struct {
	ID             string                     `json:"id,omitempty"`
	BudgetID       string                     `json:"budget_id,omitempty"`
	CategoryID     string                     `json:"category_id"`
	SubcategoryID  string                     `json:"subcategory_id,omitempty"`
	MonthlyAmounts map[string]decimal.Decimal `json:"monthly_amounts"`
	TotalAmount    decimal.Decimal            `json:"total_amount"`
	Notes          string                     `json:"notes,omitempty"`
}

func (r budgetRow) toDomain() domain.Budget {
	b := domain.Budget{
		ID:        r.ID,
		Year:      r.Year,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: parseDate(r.CreatedAt),
		UpdatedAt: parseDate(r.UpdatedAt),
	}
	b.Items = make([]domain.BudgetItem, 0, len(r.Items))
	for _, ir := range r.Items {
		monthly := make(map[int]decimal.Decimal, len(ir.MonthlyAmounts))
		for k, v := range ir.MonthlyAmounts {
			if m, err := strconv.Atoi(k); err == nil {
				monthly[m] = v
			}
		}
		b.Items = append(b.Items, domain.BudgetItem{
			ID:             ir.ID,
			BudgetID:       ir.BudgetID,
			CategoryID:     ir.CategoryID,
			SubcategoryID:  ir.SubcategoryID,
			MonthlyAmounts: monthly,
			TotalAmount:    ir.TotalAmount,
			Notes:          ir.Notes,
		})
	}
	return b
}

func rowFromBudgetItem(budgetID string, it domain.BudgetItem) budgetItemRow {
	monthly := make(map[string]decimal.Decimal, len(it.MonthlyAmounts))
	for m, v := range it.MonthlyAmounts {
		monthly[strconv.Itoa(m)] = v
	}
	return budgetItemRow{
		BudgetID:       budgetID,
		CategoryID:     it.CategoryID,
		SubcategoryID:  it.SubcategoryID,
		MonthlyAmounts: monthly,
		TotalAmount:    it.SumMonthlyAmounts(),
		Notes:          it.Notes,
	}
}

func (c *Client) ListBudgets(ctx context.Context) ([]domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBudgets")
	defer span.End()

	var budgets []domain.Budget
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "budgets?select=*,budget_items(*)&order=year.desc")
		if err != nil {
			return err
		}

		var rows []budgetRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode budgets: %w", err)
		}

		budgets = make([]domain.Budget, 0, len(rows))
		for _, r := range rows {
			budgets = append(budgets, r.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/budgets", Err: err}
	}
	return budgets, nil
}

func (c *Client) GetBudget(ctx context.Context, id string) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetBudget")
	defer span.End()

	var budget *domain.Budget
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, fmt.Sprintf("budgets?select=*,budget_items(*)&id=eq.%s&limit=1", id))
		if err != nil {
			return err
		}

		var rows []budgetRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode budget: %w", err)
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "budget", ID: id}
		}

		b := rows[0].toDomain()
		budget = &b
		return nil
	})
	if err != nil {
		var nf *domain.ErrNotFound
		if errors.As(err, &nf) {
			return nil, nf
		}
		return nil, &domain.ErrExternalService{Service: "supabase/budgets", Err: err}
	}
	return budget, nil
}

// GetActiveBudget returns (nil, nil) when no budget is active for the year.
func (c *Client) GetActiveBudget(ctx context.Context, year int) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetActiveBudget")
	defer span.End()

	var budget *domain.Budget
	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("budgets?select=*,budget_items(*)&year=eq.%d&is_active=eq.true&limit=1", year)
		body, err := c.doGet(ctx, path)
		if err != nil {
			return err
		}

		var rows []budgetRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode active budget: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}

		b := rows[0].toDomain()
		budget = &b
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/budgets", Err: err}
	}
	return budget, nil
}

func (c *Client) CreateBudget(ctx context.Context, b *domain.Budget) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateBudget")
	defer span.End()

	var budgetID string
	err := c.execute(ctx, func() error {
		if b.IsActive {
			if err := c.deactivateYear(ctx, b.Year); err != nil {
				return err
			}
		}

		body, err := c.doPost(ctx, "budgets", map[string]any{
			"year":      b.Year,
			"name":      b.Name,
			"is_active": b.IsActive,
		})
		if err != nil {
			return err
		}

		var rows []budgetRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode created budget: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("create budget: empty representation")
		}
		budgetID = rows[0].ID

		return c.replaceBudgetItems(ctx, budgetID, b.Items)
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/budgets", Err: err}
	}

	c.bumpVersion()
	return c.GetBudget(ctx, budgetID)
}

func (c *Client) UpdateBudget(ctx context.Context, b *domain.Budget) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateBudget")
	defer span.End()

	err := c.execute(ctx, func() error {
		if b.IsActive {
			if err := c.deactivateYear(ctx, b.Year); err != nil {
				return err
			}
		}

		_, err := c.doPatch(ctx, fmt.Sprintf("budgets?id=eq.%s", b.ID), map[string]any{
			"year":      b.Year,
			"name":      b.Name,
			"is_active": b.IsActive,
		})
		if err != nil {
			return err
		}

		return c.replaceBudgetItems(ctx, b.ID, b.Items)
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/budgets", Err: err}
	}

	c.bumpVersion()
	return c.GetBudget(ctx, b.ID)
}

// deactivateYear clears is_active on every budget of the year before a new
// one is activated. Enforces the one-active-budget-per-year invariant.
func (c *Client) deactivateYear(ctx context.Context, year int) error {
	_, err := c.doPatch(ctx, fmt.Sprintf("budgets?year=eq.%d&is_active=eq.true", year), map[string]any{
		"is_active": false,
	})
	return err
}

// replaceBudgetItems rewrites the item set of a budget. PostgREST has no
// transactions, so this is delete-then-insert; the derived totals are
// recomputed on the way in.
func (c *Client) replaceBudgetItems(ctx context.Context, budgetID string, items []domain.BudgetItem) error {
	if err := c.doDelete(ctx, fmt.Sprintf("budget_items?budget_id=eq.%s", budgetID)); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([]budgetItemRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, rowFromBudgetItem(budgetID, it))
	}
	_, err := c.doPost(ctx, "budget_items", rows)
	return err
}
