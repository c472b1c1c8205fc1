package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/boddenberg/pj-ledger-go/internal/infra/memstore"
	"github.com/boddenberg/pj-ledger-go/internal/infra/observability"
	"github.com/boddenberg/pj-ledger-go/internal/port"
	"github.com/boddenberg/pj-ledger-go/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newLedger(t *testing.T) (*service.LedgerService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	svc := service.NewLedgerService(store, observability.NewMetrics(), zap.NewNop())
	return svc, store
}

func mustAccount(t *testing.T, svc *service.LedgerService) *domain.Account {
	t.Helper()
	acc, err := svc.CreateAccount(context.Background(), &domain.Account{
		Name: "main",
		Kind: domain.AccountChecking,
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	return acc
}

func validOutflow(accountID string) *domain.Transaction {
	return &domain.Transaction{
		Type:           domain.Outflow,
		Status:         domain.StatusPayable,
		IssueDate:      day(2025, 4, 1),
		DueDate:        day(2025, 4, 15),
		AccrualDate:    day(2025, 4, 1),
		ExpectedAmount: dec("150"),
		AccountID:      accountID,
	}
}

func TestCreateAccount_Validation(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		account domain.Account
	}{
		{"missing name", domain.Account{Kind: domain.AccountChecking}},
		{"unknown kind", domain.Account{Name: "x", Kind: "briefcase"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAccount(ctx, &tc.account)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	svc, _ := newLedger(t)
	acc := mustAccount(t, svc)
	ctx := context.Background()

	mutate := []struct {
		name string
		fn   func(*domain.Transaction)
	}{
		{"unknown type", func(tx *domain.Transaction) { tx.Type = "sideways" }},
		{"unknown status", func(tx *domain.Transaction) { tx.Status = "limbo" }},
		{"status mismatch", func(tx *domain.Transaction) { tx.Status = domain.StatusReceivable }},
		{"zero amount", func(tx *domain.Transaction) { tx.ExpectedAmount = decimal.Zero }},
		{"negative amount", func(tx *domain.Transaction) { tx.ExpectedAmount = dec("-5") }},
		{"missing due date", func(tx *domain.Transaction) { tx.DueDate = time.Time{} }},
		{"due before issue", func(tx *domain.Transaction) { tx.DueDate = day(2025, 3, 1) }},
		{"missing account", func(tx *domain.Transaction) { tx.AccountID = "" }},
		{"settled without actual", func(tx *domain.Transaction) {
			tx.Status = domain.StatusPaid
			pd := day(2025, 4, 10)
			tx.PaymentDate = &pd
		}},
		{"settled without payment date", func(tx *domain.Transaction) {
			tx.Status = domain.StatusPaid
			tx.ActualAmount = dec("150")
			tx.PaymentDate = nil
		}},
	}
	for _, tc := range mutate {
		t.Run(tc.name, func(t *testing.T) {
			tx := validOutflow(acc.ID)
			tc.fn(tx)
			_, err := svc.CreateTransaction(ctx, tx)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	if _, err := svc.CreateTransaction(ctx, validOutflow(acc.ID)); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}
}

func TestSettleTransaction(t *testing.T) {
	svc, _ := newLedger(t)
	acc := mustAccount(t, svc)
	ctx := context.Background()

	tx, err := svc.CreateTransaction(ctx, validOutflow(acc.ID))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	settled, err := svc.SettleTransaction(ctx, port.SettleRequest{
		TransactionID: tx.ID,
		ActualAmount:  dec("148.37"),
		PaymentDate:   day(2025, 4, 14),
	})
	if err != nil {
		t.Fatalf("SettleTransaction: %v", err)
	}
	if settled.Status != domain.StatusPaid {
		t.Errorf("expected paid, got %s", settled.Status)
	}
	if !settled.ActualAmount.Equal(dec("148.37")) {
		t.Errorf("expected actual 148.37, got %s", settled.ActualAmount)
	}
	if settled.PaymentDate == nil || !settled.PaymentDate.Equal(day(2025, 4, 14)) {
		t.Errorf("expected payment date 2025-04-14, got %v", settled.PaymentDate)
	}

	// Settling again must conflict.
	_, err = svc.SettleTransaction(ctx, port.SettleRequest{
		TransactionID: tx.ID,
		ActualAmount:  dec("1"),
		PaymentDate:   day(2025, 4, 15),
	})
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict on double settle, got %v", err)
	}
}

func TestSettleTransaction_InflowBecomesReceived(t *testing.T) {
	svc, _ := newLedger(t)
	acc := mustAccount(t, svc)
	ctx := context.Background()

	tx, err := svc.CreateTransaction(ctx, &domain.Transaction{
		Type:           domain.Inflow,
		Status:         domain.StatusReceivable,
		IssueDate:      day(2025, 4, 1),
		DueDate:        day(2025, 4, 15),
		AccrualDate:    day(2025, 4, 1),
		ExpectedAmount: dec("900"),
		AccountID:      acc.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	settled, err := svc.SettleTransaction(ctx, port.SettleRequest{
		TransactionID: tx.ID,
		ActualAmount:  dec("900"),
		PaymentDate:   day(2025, 4, 15),
	})
	if err != nil {
		t.Fatalf("SettleTransaction: %v", err)
	}
	if settled.Status != domain.StatusReceived {
		t.Errorf("expected received, got %s", settled.Status)
	}
}

func TestSettleTransaction_RejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newLedger(t)

	_, err := svc.SettleTransaction(context.Background(), port.SettleRequest{
		TransactionID: "whatever",
		ActualAmount:  decimal.Zero,
	})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCancelTransaction(t *testing.T) {
	svc, _ := newLedger(t)
	acc := mustAccount(t, svc)
	ctx := context.Background()

	tx, _ := svc.CreateTransaction(ctx, validOutflow(acc.ID))

	cancelled, err := svc.CancelTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("CancelTransaction: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	_, err = svc.CancelTransaction(ctx, tx.ID)
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict cancelling a cancelled transaction, got %v", err)
	}
}

func TestCreateBudget_Validation(t *testing.T) {
	svc, _ := newLedger(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		budget domain.Budget
	}{
		{"year out of range", domain.Budget{Year: 1990, Name: "x"}},
		{"missing name", domain.Budget{Year: 2025}},
		{"item without category", domain.Budget{Year: 2025, Name: "x", Items: []domain.BudgetItem{{}}}},
		{"month out of range", domain.Budget{Year: 2025, Name: "x", Items: []domain.BudgetItem{{
			CategoryID:     "cat",
			MonthlyAmounts: map[int]decimal.Decimal{13: dec("1")},
		}}}},
		{"negative amount", domain.Budget{Year: 2025, Name: "x", Items: []domain.BudgetItem{{
			CategoryID:     "cat",
			MonthlyAmounts: map[int]decimal.Decimal{1: dec("-1")},
		}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBudget(ctx, &tc.budget)
			var ve *domain.ErrValidation
			if !errors.As(err, &ve) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestActivateBudget(t *testing.T) {
	svc, store := newLedger(t)
	ctx := context.Background()

	first, err := svc.CreateBudget(ctx, &domain.Budget{Year: 2025, Name: "v1", IsActive: true})
	if err != nil {
		t.Fatalf("CreateBudget v1: %v", err)
	}
	second, err := svc.CreateBudget(ctx, &domain.Budget{Year: 2025, Name: "v2"})
	if err != nil {
		t.Fatalf("CreateBudget v2: %v", err)
	}

	activated, err := svc.ActivateBudget(ctx, second.ID)
	if err != nil {
		t.Fatalf("ActivateBudget: %v", err)
	}
	if !activated.IsActive {
		t.Error("expected second budget active")
	}

	old, _ := store.GetBudget(ctx, first.ID)
	if old.IsActive {
		t.Error("expected first budget deactivated")
	}
}
