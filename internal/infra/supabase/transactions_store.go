package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// ============================================================
// Transactions — CRUD via PostgREST
// ============================================================

// transactionRow maps the transactions table columns. Date columns come
// back date-only, timestamps come back RFC3339; parseDate handles both.
type transactionRow struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`
	Status string `json:"status"`

	IssueDate   string  `json:"issue_date"`
	DueDate     string  `json:"due_date"`
	AccrualDate string  `json:"accrual_date"`
	PaymentDate *string `json:"payment_date,omitempty"`

	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	ActualAmount   decimal.Decimal `json:"actual_amount"`

	CategoryID    string `json:"category_id,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
	SubcategoryID string `json:"subcategory_id,omitempty"`

	AccountID   string `json:"account_id"`
	Description string `json:"description,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func (r transactionRow) toDomain() domain.Transaction {
	t := domain.Transaction{
		ID:             r.ID,
		Type:           domain.TransactionType(r.Type),
		Status:         domain.TransactionStatus(r.Status),
		IssueDate:      parseDate(r.IssueDate),
		DueDate:        parseDate(r.DueDate),
		AccrualDate:    parseDate(r.AccrualDate),
		ExpectedAmount: r.ExpectedAmount,
		ActualAmount:   r.ActualAmount,
		CategoryID:     r.CategoryID,
		CategoryName:   r.CategoryName,
		SubcategoryID:  r.SubcategoryID,
		AccountID:      r.AccountID,
		Description:    r.Description,
		CreatedAt:      parseDate(r.CreatedAt),
		UpdatedAt:      parseDate(r.UpdatedAt),
	}
	if r.PaymentDate != nil && *r.PaymentDate != "" {
		pd := parseDate(*r.PaymentDate)
		t.PaymentDate = &pd
	}
	return t
}

func rowFromTransaction(t *domain.Transaction) transactionRow {
	r := transactionRow{
		Type:           string(t.Type),
		Status:         string(t.Status),
		IssueDate:      formatDate(t.IssueDate),
		DueDate:        formatDate(t.DueDate),
		AccrualDate:    formatDate(t.AccrualDate),
		ExpectedAmount: t.ExpectedAmount,
		ActualAmount:   t.ActualAmount,
		CategoryID:     t.CategoryID,
		CategoryName:   t.CategoryName,
		SubcategoryID:  t.SubcategoryID,
		AccountID:      t.AccountID,
		Description:    t.Description,
	}
	if t.PaymentDate != nil {
		pd := formatDate(*t.PaymentDate)
		r.PaymentDate = &pd
	}
	return r
}

func (c *Client) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer span.End()

	var transactions []domain.Transaction
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "transactions?order=due_date.asc")
		if err != nil {
			return err
		}

		var rows []transactionRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode transactions: %w", err)
		}

		transactions = make([]domain.Transaction, 0, len(rows))
		for _, r := range rows {
			transactions = append(transactions, r.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	return transactions, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransaction")
	defer span.End()

	var tx *domain.Transaction
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, fmt.Sprintf("transactions?id=eq.%s&limit=1", id))
		if err != nil {
			return err
		}

		var rows []transactionRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode transaction: %w", err)
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "transaction", ID: id}
		}

		t := rows[0].toDomain()
		tx = &t
		return nil
	})
	if err != nil {
		var nf *domain.ErrNotFound
		if errors.As(err, &nf) {
			return nil, nf
		}
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}
	return tx, nil
}

func (c *Client) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransaction")
	defer span.End()

	var created *domain.Transaction
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "transactions", rowFromTransaction(tx))
		if err != nil {
			return err
		}

		var rows []transactionRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode created transaction: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("create transaction: empty representation")
		}

		t := rows[0].toDomain()
		created = &t
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	c.bumpVersion()
	return created, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateTransaction")
	defer span.End()

	var updated *domain.Transaction
	err := c.execute(ctx, func() error {
		body, err := c.doPatch(ctx, fmt.Sprintf("transactions?id=eq.%s", tx.ID), rowFromTransaction(tx))
		if err != nil {
			return err
		}

		var rows []transactionRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode updated transaction: %w", err)
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "transaction", ID: tx.ID}
		}

		t := rows[0].toDomain()
		updated = &t
		return nil
	})
	if err != nil {
		var nf *domain.ErrNotFound
		if errors.As(err, &nf) {
			return nil, nf
		}
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	c.bumpVersion()
	return updated, nil
}
