package engine

import (
	"sort"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// projectionLimit bounds the series at the first 15 future transactions.
// The cap keeps the chart readable and the output size bounded on
// pathological ledgers; it is not a performance limit.
const projectionLimit = 15

// Scenario adjustment factors. Optimistic assumes collections come in
// early/with bonus and payments can be stretched; pessimistic assumes
// collections slip and payments carry penalties.
var (
	optimisticInflowFactor  = decimal.NewFromFloat(1.10)
	optimisticOutflowFactor = decimal.NewFromFloat(0.70)

	pessimisticInflowFactor  = decimal.NewFromFloat(0.60)
	pessimisticOutflowFactor = decimal.NewFromFloat(1.10)
)

// Project walks the future open transactions of the scope in due-date
// order and folds their scenario-adjusted expected amounts into a running
// balance. The series starts with the current balance at "today" and adds
// one point per transaction, capped at the first 15.
func Project(transactions []domain.Transaction, currentBalance decimal.Decimal, referenceDate time.Time, scope Scope, scenario domain.Scenario) []domain.ProjectionPoint {
	upcoming := upcomingOpen(transactions, referenceDate, scope)

	points := make([]domain.ProjectionPoint, 0, len(upcoming)+1)
	points = append(points, domain.ProjectionPoint{
		Label:   "today",
		Date:    dateOnly(referenceDate),
		Balance: currentBalance,
	})

	running := currentBalance
	for _, t := range upcoming {
		amount := adjust(t, scenario)
		if t.Type == domain.Inflow {
			running = running.Add(amount)
		} else {
			running = running.Sub(amount)
		}
		points = append(points, domain.ProjectionPoint{
			Label:   dateOnly(t.DueDate).Format("2006-01-02"),
			Date:    dateOnly(t.DueDate),
			Balance: running,
		})
	}

	return points
}

// ProjectBands computes the three scenarios over the same snapshot. Each
// scenario folds its own accumulator from the same starting balance; the
// bands never leak into each other.
func ProjectBands(transactions []domain.Transaction, currentBalance decimal.Decimal, referenceDate time.Time, scope Scope) domain.ProjectionBands {
	return domain.ProjectionBands{
		Base:        Project(transactions, currentBalance, referenceDate, scope, domain.ScenarioBase),
		Optimistic:  Project(transactions, currentBalance, referenceDate, scope, domain.ScenarioOptimistic),
		Pessimistic: Project(transactions, currentBalance, referenceDate, scope, domain.ScenarioPessimistic),
	}
}

// upcomingOpen selects the open (payable/receivable) transactions due on or
// after the reference date, ascending by due date, capped at the limit.
func upcomingOpen(transactions []domain.Transaction, referenceDate time.Time, scope Scope) []domain.Transaction {
	ref := dateOnly(referenceDate)

	upcoming := make([]domain.Transaction, 0, projectionLimit)
	for _, t := range transactions {
		if t.Status != domain.StatusPayable && t.Status != domain.StatusReceivable {
			continue
		}
		if !scope.Matches(t.AccountID) || dateOnly(t.DueDate).Before(ref) {
			continue
		}
		upcoming = append(upcoming, t)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return dateOnly(upcoming[i].DueDate).Before(dateOnly(upcoming[j].DueDate))
	})

	if len(upcoming) > projectionLimit {
		upcoming = upcoming[:projectionLimit]
	}
	return upcoming
}

// adjust applies the scenario rule to the planned amount of an open
// transaction.
func adjust(t domain.Transaction, scenario domain.Scenario) decimal.Decimal {
	switch scenario {
	case domain.ScenarioOptimistic:
		if t.Type == domain.Inflow {
			return t.ExpectedAmount.Mul(optimisticInflowFactor)
		}
		return t.ExpectedAmount.Mul(optimisticOutflowFactor)
	case domain.ScenarioPessimistic:
		if t.Type == domain.Inflow {
			return t.ExpectedAmount.Mul(pessimisticInflowFactor)
		}
		return t.ExpectedAmount.Mul(pessimisticOutflowFactor)
	default:
		return t.ExpectedAmount
	}
}
