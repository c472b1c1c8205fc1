package engine_test

import (
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// --- Shared test fixtures ---

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// tx builds a transaction with sane defaults; tests override what matters.
func tx(id string, typ domain.TransactionType, status domain.TransactionStatus, expected, actual string) domain.Transaction {
	return domain.Transaction{
		ID:             id,
		Type:           typ,
		Status:         status,
		IssueDate:      day(2025, time.January, 1),
		DueDate:        day(2025, time.January, 31),
		AccrualDate:    day(2025, time.January, 15),
		ExpectedAmount: dec(expected),
		ActualAmount:   dec(actual),
		AccountID:      "acc-1",
	}
}

func account(id, name string, initial string) domain.Account {
	return domain.Account{
		ID:             id,
		Name:           name,
		Kind:           domain.AccountChecking,
		InitialBalance: dec(initial),
	}
}
