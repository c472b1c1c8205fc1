package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/boddenberg/pj-ledger-go/internal/infra/observability"
	"github.com/boddenberg/pj-ledger-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var ledgerTracer = otel.Tracer("service/ledger")

// LedgerService is the write side: validation and status transitions on top
// of the store. The engine never writes; everything that mutates the ledger
// goes through here.
type LedgerService struct {
	store   port.LedgerStore
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewLedgerService creates the ledger service.
func NewLedgerService(store port.LedgerStore, metrics *observability.Metrics, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// ============================================================
// Accounts
// ============================================================

func (s *LedgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListAccounts")
	defer span.End()

	return s.store.ListAccounts(ctx)
}

func (s *LedgerService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GetAccount")
	defer span.End()

	return s.store.GetAccount(ctx, id)
}

func (s *LedgerService) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateAccount")
	defer span.End()

	if account.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if !domain.ValidAccountKind(account.Kind) {
		return nil, &domain.ErrValidation{Field: "kind", Message: "unknown account kind"}
	}

	created, err := s.store.CreateAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrWrite("account")
	s.logger.Info("account created",
		zap.String("account_id", created.ID),
		zap.String("kind", string(created.Kind)),
	)
	return created, nil
}

// ============================================================
// Transactions
// ============================================================

func (s *LedgerService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListTransactions")
	defer span.End()

	return s.store.ListTransactions(ctx)
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GetTransaction")
	defer span.End()

	return s.store.GetTransaction(ctx, id)
}

func (s *LedgerService) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateTransaction")
	defer span.End()

	if err := validateTransaction(tx); err != nil {
		return nil, err
	}

	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrWrite("transaction")
	s.logger.Info("transaction created",
		zap.String("transaction_id", created.ID),
		zap.String("type", string(created.Type)),
		zap.String("status", string(created.Status)),
	)
	return created, nil
}

// SettleTransaction transitions an open transaction to paid/received,
// recording the realized amount and payment date.
func (s *LedgerService) SettleTransaction(ctx context.Context, req port.SettleRequest) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.SettleTransaction")
	defer span.End()

	if req.ActualAmount.Sign() <= 0 {
		return nil, &domain.ErrValidation{Field: "actual_amount", Message: "must be positive"}
	}

	tx, err := s.store.GetTransaction(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if !tx.Status.Open() {
		return nil, &domain.ErrConflict{Message: fmt.Sprintf("transaction %s is %s and cannot be settled", tx.ID, tx.Status)}
	}

	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = s.now()
	}

	if tx.Type == domain.Outflow {
		tx.Status = domain.StatusPaid
	} else {
		tx.Status = domain.StatusReceived
	}
	tx.ActualAmount = req.ActualAmount
	tx.PaymentDate = &paymentDate

	updated, err := s.store.UpdateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrWrite("transaction")
	s.logger.Info("transaction settled",
		zap.String("transaction_id", updated.ID),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// CancelTransaction transitions an open transaction to cancelled. Cancelled
// entries keep their history but leave every report.
func (s *LedgerService) CancelTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CancelTransaction")
	defer span.End()

	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tx.Status.Open() {
		return nil, &domain.ErrConflict{Message: fmt.Sprintf("transaction %s is %s and cannot be cancelled", tx.ID, tx.Status)}
	}

	tx.Status = domain.StatusCancelled
	updated, err := s.store.UpdateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrWrite("transaction")
	s.logger.Info("transaction cancelled", zap.String("transaction_id", updated.ID))
	return updated, nil
}

func validateTransaction(tx *domain.Transaction) error {
	if !domain.ValidTransactionType(tx.Type) {
		return &domain.ErrValidation{Field: "type", Message: "must be inflow or outflow"}
	}
	if !domain.ValidTransactionStatus(tx.Status) {
		return &domain.ErrValidation{Field: "status", Message: "unknown status"}
	}
	if !statusMatchesType(tx.Status, tx.Type) {
		return &domain.ErrValidation{Field: "status", Message: fmt.Sprintf("%s is not valid for %s", tx.Status, tx.Type)}
	}
	if tx.ExpectedAmount.Sign() <= 0 {
		return &domain.ErrValidation{Field: "expected_amount", Message: "must be positive"}
	}
	if tx.Status.Settled() {
		if tx.ActualAmount.Sign() <= 0 {
			return &domain.ErrValidation{Field: "actual_amount", Message: "must be positive for settled transactions"}
		}
		if tx.PaymentDate == nil {
			return &domain.ErrValidation{Field: "payment_date", Message: "required for settled transactions"}
		}
	}
	if tx.IssueDate.IsZero() || tx.DueDate.IsZero() || tx.AccrualDate.IsZero() {
		return &domain.ErrValidation{Field: "dates", Message: "issue_date, due_date and accrual_date are required"}
	}
	if tx.DueDate.Before(tx.IssueDate) {
		return &domain.ErrValidation{Field: "due_date", Message: "must not be before issue_date"}
	}
	if tx.AccountID == "" {
		return &domain.ErrValidation{Field: "account_id", Message: "required"}
	}
	return nil
}

// statusMatchesType rejects payable outflows marked received and the like.
func statusMatchesType(status domain.TransactionStatus, typ domain.TransactionType) bool {
	switch status {
	case domain.StatusPayable, domain.StatusPaid:
		return typ == domain.Outflow
	case domain.StatusReceivable, domain.StatusReceived:
		return typ == domain.Inflow
	}
	// overdue and cancelled apply to both directions
	return true
}

// ============================================================
// Categories
// ============================================================

func (s *LedgerService) ListCategories(ctx context.Context) ([]domain.CategoryItem, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListCategories")
	defer span.End()

	return s.store.ListCategories(ctx)
}

func (s *LedgerService) CreateCategory(ctx context.Context, item *domain.CategoryItem) (*domain.CategoryItem, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateCategory")
	defer span.End()

	if item.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if item.Kind != domain.CategoryRevenue && item.Kind != domain.CategoryExpense {
		return nil, &domain.ErrValidation{Field: "kind", Message: "must be revenue or expense"}
	}

	created, err := s.store.CreateCategory(ctx, item)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrWrite("category")
	return created, nil
}

func (s *LedgerService) ListSubcategories(ctx context.Context) ([]domain.SubcategoryItem, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListSubcategories")
	defer span.End()

	return s.store.ListSubcategories(ctx)
}

func (s *LedgerService) CreateSubcategory(ctx context.Context, item *domain.SubcategoryItem) (*domain.SubcategoryItem, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateSubcategory")
	defer span.End()

	if item.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "required"}
	}
	if item.CategoryID == "" {
		return nil, &domain.ErrValidation{Field: "category_id", Message: "required"}
	}

	created, err := s.store.CreateSubcategory(ctx, item)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrWrite("subcategory")
	return created, nil
}

// ============================================================
// Budgets
// ============================================================

func (s *LedgerService) ListBudgets(ctx context.Context) ([]domain.Budget, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListBudgets")
	defer span.End()

	return s.store.ListBudgets(ctx)
}

func (s *LedgerService) GetBudget(ctx context.Context, id string) (*domain.Budget, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GetBudget")
	defer span.End()

	return s.store.GetBudget(ctx, id)
}

func (s *LedgerService) CreateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateBudget")
	defer span.End()

	if err := validateBudget(budget); err != nil {
		return nil, err
	}

	created, err := s.store.CreateBudget(ctx, budget)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrWrite("budget")
	s.logger.Info("budget created",
		zap.String("budget_id", created.ID),
		zap.Int("year", created.Year),
		zap.Bool("active", created.IsActive),
	)
	return created, nil
}

func (s *LedgerService) UpdateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.UpdateBudget")
	defer span.End()

	if budget.ID == "" {
		return nil, &domain.ErrValidation{Field: "id", Message: "required"}
	}
	if err := validateBudget(budget); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateBudget(ctx, budget)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrWrite("budget")
	return updated, nil
}

// ActivateBudget marks a budget active; the store deactivates any other
// budget of the same year.
func (s *LedgerService) ActivateBudget(ctx context.Context, id string) (*domain.Budget, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ActivateBudget")
	defer span.End()

	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}
	if budget.IsActive {
		return budget, nil
	}

	budget.IsActive = true
	updated, err := s.store.UpdateBudget(ctx, budget)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrWrite("budget")
	s.logger.Info("budget activated",
		zap.String("budget_id", updated.ID),
		zap.Int("year", updated.Year),
	)
	return updated, nil
}

func validateBudget(budget *domain.Budget) error {
	if budget.Year < 2000 || budget.Year > 2200 {
		return &domain.ErrValidation{Field: "year", Message: "out of range"}
	}
	if budget.Name == "" {
		return &domain.ErrValidation{Field: "name", Message: "required"}
	}
	for i, item := range budget.Items {
		if item.CategoryID == "" {
			return &domain.ErrValidation{Field: fmt.Sprintf("items[%d].category_id", i), Message: "required"}
		}
		for month, amount := range item.MonthlyAmounts {
			if month < 1 || month > 12 {
				return &domain.ErrValidation{Field: fmt.Sprintf("items[%d].monthly_amounts", i), Message: "months must be 1..12"}
			}
			if amount.Sign() < 0 {
				return &domain.ErrValidation{Field: fmt.Sprintf("items[%d].monthly_amounts[%d]", i, month), Message: "must not be negative"}
			}
		}
	}
	return nil
}
