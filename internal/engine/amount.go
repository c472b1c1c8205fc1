package engine

import (
	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// ResolveAmount returns the monetary amount a transaction contributes to
// any report: the realized amount once the transaction is settled (paid or
// received), the planned amount otherwise.
//
// This is the single amount-selection rule in the codebase. Every other
// computation goes through it — reimplementing the status check elsewhere
// is how reports drift apart numerically. Overdue is an unsettled state:
// the money has not moved, so the expected amount applies.
func ResolveAmount(t domain.Transaction) decimal.Decimal {
	if t.Status.Settled() {
		return t.ActualAmount
	}
	return t.ExpectedAmount
}
