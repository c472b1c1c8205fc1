// Package memstore provides an in-memory LedgerStore. It is the default
// backend when Supabase is not configured and the fixture store for tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is a mutex-guarded in-memory implementation of port.LedgerStore.
type Store struct {
	mu sync.RWMutex

	accounts      map[string]domain.Account
	transactions  map[string]domain.Transaction
	categories    map[string]domain.CategoryItem
	subcategories map[string]domain.SubcategoryItem
	budgets       map[string]domain.Budget

	version uint64
	now     func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		accounts:      make(map[string]domain.Account),
		transactions:  make(map[string]domain.Transaction),
		categories:    make(map[string]domain.CategoryItem),
		subcategories: make(map[string]domain.SubcategoryItem),
		budgets:       make(map[string]domain.Budget),
		version:       1,
		now:           time.Now,
	}
}

// Version returns the current snapshot version. It increases on every
// successful write, so it can key report memoization.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ============================================================
// Snapshot reads
// ============================================================

func (s *Store) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, copyTransaction(t))
	}
	return out, nil
}

func (s *Store) ListCategories(_ context.Context) ([]domain.CategoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CategoryItem, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) ListSubcategories(_ context.Context) ([]domain.SubcategoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SubcategoryItem, 0, len(s.subcategories))
	for _, sc := range s.subcategories {
		out = append(out, sc)
	}
	return out, nil
}

func (s *Store) ListBudgets(_ context.Context) ([]domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, copyBudget(b))
	}
	return out, nil
}

func (s *Store) GetActiveBudget(_ context.Context, year int) (*domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.budgets {
		if b.Year == year && b.IsActive {
			cp := copyBudget(b)
			return &cp, nil
		}
	}
	return nil, nil
}

// ============================================================
// Accounts
// ============================================================

func (s *Store) CreateAccount(_ context.Context, account *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := *account
	a.ID = uuid.New().String()
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt

	s.accounts[a.ID] = a
	s.version++
	return &a, nil
}

func (s *Store) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "account", ID: id}
	}
	return &a, nil
}

// ============================================================
// Transactions
// ============================================================

func (s *Store) CreateTransaction(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.AccountID != "" {
		if _, ok := s.accounts[tx.AccountID]; !ok {
			return nil, &domain.ErrNotFound{Resource: "account", ID: tx.AccountID}
		}
	}

	t := copyTransaction(*tx)
	t.ID = uuid.New().String()
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt

	s.transactions[t.ID] = t
	s.version++

	out := copyTransaction(t)
	return &out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	out := copyTransaction(t)
	return &out, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[tx.ID]; !ok {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: tx.ID}
	}

	t := copyTransaction(*tx)
	t.UpdatedAt = s.now()

	s.transactions[t.ID] = t
	s.version++

	out := copyTransaction(t)
	return &out, nil
}

// ============================================================
// Categories
// ============================================================

func (s *Store) CreateCategory(_ context.Context, c *domain.CategoryItem) (*domain.CategoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return nil, &domain.ErrConflict{Message: "category name already exists: " + c.Name}
		}
	}

	item := *c
	item.ID = uuid.New().String()
	s.categories[item.ID] = item
	s.version++
	return &item, nil
}

func (s *Store) CreateSubcategory(_ context.Context, sc *domain.SubcategoryItem) (*domain.SubcategoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[sc.CategoryID]; !ok {
		return nil, &domain.ErrNotFound{Resource: "category", ID: sc.CategoryID}
	}

	item := *sc
	item.ID = uuid.New().String()
	s.subcategories[item.ID] = item
	s.version++
	return &item, nil
}

// ============================================================
// Budgets
// ============================================================

func (s *Store) CreateBudget(_ context.Context, b *domain.Budget) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	budget := copyBudget(*b)
	budget.ID = uuid.New().String()
	budget.CreatedAt = s.now()
	budget.UpdatedAt = budget.CreatedAt
	normalizeBudget(&budget)

	if budget.IsActive {
		s.deactivateYear(budget.Year, budget.ID)
	}

	s.budgets[budget.ID] = budget
	s.version++

	out := copyBudget(budget)
	return &out, nil
}

func (s *Store) GetBudget(_ context.Context, id string) (*domain.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.budgets[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "budget", ID: id}
	}
	out := copyBudget(b)
	return &out, nil
}

func (s *Store) UpdateBudget(_ context.Context, b *domain.Budget) (*domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.budgets[b.ID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "budget", ID: b.ID}
	}

	budget := copyBudget(*b)
	budget.CreatedAt = existing.CreatedAt
	budget.UpdatedAt = s.now()
	normalizeBudget(&budget)

	if budget.IsActive {
		s.deactivateYear(budget.Year, budget.ID)
	}

	s.budgets[budget.ID] = budget
	s.version++

	out := copyBudget(budget)
	return &out, nil
}

// deactivateYear clears the active flag on every other budget of the year.
// Caller must hold the write lock.
func (s *Store) deactivateYear(year int, exceptID string) {
	for id, other := range s.budgets {
		if id != exceptID && other.Year == year && other.IsActive {
			other.IsActive = false
			s.budgets[id] = other
		}
	}
}

// normalizeBudget assigns item ids and recomputes the derived totals.
func normalizeBudget(b *domain.Budget) {
	for i := range b.Items {
		if b.Items[i].ID == "" {
			b.Items[i].ID = uuid.New().String()
		}
		b.Items[i].BudgetID = b.ID
		b.Items[i].TotalAmount = b.Items[i].SumMonthlyAmounts()
	}
}

// copyTransaction deep-copies the pointer field so snapshot readers never
// alias store state.
func copyTransaction(t domain.Transaction) domain.Transaction {
	if t.PaymentDate != nil {
		pd := *t.PaymentDate
		t.PaymentDate = &pd
	}
	return t
}

// copyBudget deep-copies items and their monthly maps.
func copyBudget(b domain.Budget) domain.Budget {
	items := make([]domain.BudgetItem, len(b.Items))
	for i, it := range b.Items {
		monthly := make(map[int]decimal.Decimal, len(it.MonthlyAmounts))
		for m, v := range it.MonthlyAmounts {
			monthly[m] = v
		}
		it.MonthlyAmounts = monthly
		items[i] = it
	}
	b.Items = items
	return b
}
