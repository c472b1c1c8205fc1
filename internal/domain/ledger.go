package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Accounts
// ============================================================

// AccountKind classifies an account for display and grouping.
type AccountKind string

const (
	AccountChecking   AccountKind = "checking"
	AccountSavings    AccountKind = "savings"
	AccountCashDrawer AccountKind = "cash_drawer"
	AccountInvestment AccountKind = "investment"
)

// ValidAccountKind reports whether k is one of the known account kinds.
func ValidAccountKind(k AccountKind) bool {
	switch k {
	case AccountChecking, AccountSavings, AccountCashDrawer, AccountInvestment:
		return true
	}
	return false
}

// Account is a ledger account. The balance is never stored; it is always
// derived from InitialBalance plus the settled transactions that reference
// the account.
type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           AccountKind     `json:"kind"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ============================================================
// Transactions
// ============================================================

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	Inflow  TransactionType = "inflow"
	Outflow TransactionType = "outflow"
)

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t TransactionType) bool {
	return t == Inflow || t == Outflow
}

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	StatusPayable    TransactionStatus = "payable"
	StatusPaid       TransactionStatus = "paid"
	StatusReceivable TransactionStatus = "receivable"
	StatusReceived   TransactionStatus = "received"
	StatusOverdue    TransactionStatus = "overdue"
	StatusCancelled  TransactionStatus = "cancelled"
)

// ValidTransactionStatus reports whether s is a known status.
func ValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case StatusPayable, StatusPaid, StatusReceivable, StatusReceived, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Settled reports whether the transaction has been paid or received,
// which is when ActualAmount becomes authoritative.
func (s TransactionStatus) Settled() bool {
	return s == StatusPaid || s == StatusReceived
}

// Open reports whether the transaction is still awaiting settlement.
// Overdue counts as open: the money has not moved yet.
func (s TransactionStatus) Open() bool {
	return s == StatusPayable || s == StatusReceivable || s == StatusOverdue
}

// Transaction is a single ledger entry. It carries four independent date
// dimensions: when it was recorded (issue), when it is owed (due), when it
// is economically recognized (accrual/competence) and when it was actually
// settled (payment, only once settled).
//
// ExpectedAmount is the planned value; ActualAmount is the realized value
// and is meaningful only for settled statuses. Both are non-negative; the
// direction is carried by Type.
type Transaction struct {
	ID     string            `json:"id"`
	Type   TransactionType   `json:"type"`
	Status TransactionStatus `json:"status"`

	IssueDate   time.Time  `json:"issue_date"`
	DueDate     time.Time  `json:"due_date"`
	AccrualDate time.Time  `json:"accrual_date"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`

	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	ActualAmount   decimal.Decimal `json:"actual_amount"`

	// CategoryID is the normalized classification; CategoryName is the
	// legacy free-text category kept for records imported before ids
	// existed. Resolution prefers the id and falls back to the name.
	CategoryID    string `json:"category_id,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
	SubcategoryID string `json:"subcategory_id,omitempty"`

	AccountID   string `json:"account_id"`
	Description string `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ============================================================
// Categories
// ============================================================

// CategoryKind tells whether a category classifies revenue or expense.
type CategoryKind string

const (
	CategoryRevenue CategoryKind = "revenue"
	CategoryExpense CategoryKind = "expense"
)

// CategoryItem is a classification bucket for transactions.
type CategoryItem struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Kind CategoryKind `json:"kind"`
}

// SubcategoryItem refines a category. Many subcategories per category;
// the category is the parent, there is no cycle.
type SubcategoryItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}
