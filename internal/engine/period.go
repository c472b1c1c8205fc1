package engine

import (
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputePeriodMetrics aggregates the transactions whose accrual date falls
// within [start, end] (inclusive) and whose account matches the scope.
//
// The accrual (competence) date defines the period, not the due date: the
// metrics answer "what was economically earned or incurred in this window",
// which is an accrual-accounting choice, independent of when anything was
// contractually owed or actually settled.
//
// PeriodResult counts realized amounts only. Pending income is not profit.
func ComputePeriodMetrics(transactions []domain.Transaction, start, end time.Time, scope Scope) domain.PeriodMetrics {
	m := domain.PeriodMetrics{
		IncomeRealized:  decimal.Zero,
		ExpenseRealized: decimal.Zero,
		IncomePending:   decimal.Zero,
		ExpensePending:  decimal.Zero,
		PeriodResult:    decimal.Zero,
	}

	for _, t := range transactions {
		if !scope.Matches(t.AccountID) || !inPeriod(t.AccrualDate, start, end) {
			continue
		}

		switch {
		case t.Type == domain.Inflow && t.Status.Settled():
			m.IncomeRealized = m.IncomeRealized.Add(t.ActualAmount)
		case t.Type == domain.Outflow && t.Status.Settled():
			m.ExpenseRealized = m.ExpenseRealized.Add(t.ActualAmount)
		case t.Type == domain.Inflow && t.Status == domain.StatusReceivable:
			m.IncomePending = m.IncomePending.Add(t.ExpectedAmount)
		case t.Type == domain.Outflow && t.Status == domain.StatusPayable:
			m.ExpensePending = m.ExpensePending.Add(t.ExpectedAmount)
		}
	}

	m.PeriodResult = m.IncomeRealized.Sub(m.ExpenseRealized)
	return m
}
