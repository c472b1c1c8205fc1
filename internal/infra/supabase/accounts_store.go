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
// Accounts — CRUD via PostgREST
// ============================================================

// accountRow maps the accounts table columns.
type accountRow struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CreatedAt      string          `json:"created_at,omitempty"`
	UpdatedAt      string          `json:"updated_at,omitempty"`
}

func (r accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:             r.ID,
		Name:           r.Name,
		Kind:           domain.AccountKind(r.Kind),
		InitialBalance: r.InitialBalance,
		CreatedAt:      parseDate(r.CreatedAt),
		UpdatedAt:      parseDate(r.UpdatedAt),
	}
}

func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAccounts")
	defer span.End()

	var accounts []domain.Account
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "accounts?order=created_at.asc")
		if err != nil {
			return err
		}

		var rows []accountRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode accounts: %w", err)
		}

		accounts = make([]domain.Account, 0, len(rows))
		for _, r := range rows {
			accounts = append(accounts, r.toDomain())
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}
	return accounts, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAccount")
	defer span.End()

	var account *domain.Account
	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, fmt.Sprintf("accounts?id=eq.%s&limit=1", id))
		if err != nil {
			return err
		}

		var rows []accountRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode account: %w", err)
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "account", ID: id}
		}

		a := rows[0].toDomain()
		account = &a
		return nil
	})
	if err != nil {
		var nf *domain.ErrNotFound
		if errors.As(err, &nf) {
			return nil, nf
		}
		return nil, &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}
	return account, nil
}

func (c *Client) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateAccount")
	defer span.End()

	var created *domain.Account
	err := c.execute(ctx, func() error {
		body, err := c.doPost(ctx, "accounts", accountRow{
			Name:           account.Name,
			Kind:           string(account.Kind),
			InitialBalance: account.InitialBalance,
		})
		if err != nil {
			return err
		}

		var rows []accountRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode created account: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("create account: empty representation")
		}

		a := rows[0].toDomain()
		created = &a
		return nil
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/accounts", Err: err}
	}

	c.bumpVersion()
	return created, nil
}
