package engine

import (
	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// CurrentBalance computes the point-in-time balance of the scope: the sum
// of initial balances over matching accounts, plus every settled inflow,
// minus every settled outflow. Unsettled transactions never move a balance.
//
// The balance deliberately ignores any date-range filter used elsewhere: a
// balance is a point-in-time fact, not a period fact. An empty account list
// yields zero, not an error — "no data yet" is the default state of a new
// ledger.
func CurrentBalance(accounts []domain.Account, transactions []domain.Transaction, scope Scope) decimal.Decimal {
	balance := decimal.Zero

	for _, a := range accounts {
		if scope.Matches(a.ID) {
			balance = balance.Add(a.InitialBalance)
		}
	}

	for _, t := range transactions {
		if !t.Status.Settled() || !scope.Matches(t.AccountID) {
			continue
		}
		if t.Type == domain.Inflow {
			balance = balance.Add(t.ActualAmount)
		} else {
			balance = balance.Sub(t.ActualAmount)
		}
	}

	return balance
}
