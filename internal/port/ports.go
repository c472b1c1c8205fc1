// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the engine and the
// service layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// SettleRequest carries the data of a settle transition: an open
// transaction becomes paid/received with a realized amount and a payment
// date.
type SettleRequest struct {
	TransactionID string          `json:"transaction_id"`
	ActualAmount  decimal.Decimal `json:"actual_amount"`
	PaymentDate   time.Time       `json:"payment_date"`
}

// LedgerStore defines all data operations of the persistent store
// collaborator. The analytics engine itself never writes: the write-side
// methods exist for the CRUD surface around it.
//
// Implementations must guarantee the invariants the engine assumes:
// BudgetItem.TotalAmount equals the sum of its monthly amounts, and at most
// one budget is active per year.
type LedgerStore interface {
	// Snapshot reads. Each returns an immutable copy: callers may hold the
	// slices across engine calls without observing later writes.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	ListCategories(ctx context.Context) ([]domain.CategoryItem, error)
	ListSubcategories(ctx context.Context) ([]domain.SubcategoryItem, error)
	ListBudgets(ctx context.Context) ([]domain.Budget, error)
	// GetActiveBudget returns (nil, nil) when no budget is active for the
	// year: "no budget configured" is data, not an error.
	GetActiveBudget(ctx context.Context, year int) (*domain.Budget, error)

	// Version is a monotonically increasing snapshot version, bumped on
	// every successful write. Report memoization keys include it so cached
	// results never outlive the snapshot they were computed from.
	Version() uint64

	// Accounts
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)

	// Transactions
	CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)

	// Categories
	CreateCategory(ctx context.Context, c *domain.CategoryItem) (*domain.CategoryItem, error)
	CreateSubcategory(ctx context.Context, s *domain.SubcategoryItem) (*domain.SubcategoryItem, error)

	// Budgets
	CreateBudget(ctx context.Context, b *domain.Budget) (*domain.Budget, error)
	GetBudget(ctx context.Context, id string) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, b *domain.Budget) (*domain.Budget, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
