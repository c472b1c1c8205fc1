package engine

import (
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// agingBand is one days-overdue band. maxDays < 0 means unbounded above.
type agingBand struct {
	label   string
	minDays int
	maxDays int
}

// The four bands partition daysOverdue ∈ [0, ∞) exhaustively and
// disjointly; each band is inclusive on both ends.
var agingBands = [4]agingBand{
	{label: "0-30", minDays: 0, maxDays: 30},
	{label: "31-60", minDays: 31, maxDays: 60},
	{label: "61-90", minDays: 61, maxDays: 90},
	{label: "90+", minDays: 91, maxDays: -1},
}

// ComputeAging buckets open payables (outflow, payable) and open
// receivables (inflow, receivable) in scope by whole days overdue relative
// to the reference date. Items not yet due have a negative days-overdue and
// fall outside every band on purpose: the report shows overdue exposure
// only. Bucket totals sum the expected amounts.
func ComputeAging(transactions []domain.Transaction, referenceDate time.Time, scope Scope) domain.AgingReport {
	report := domain.AgingReport{
		ReferenceDate: dateOnly(referenceDate),
		Payables:      newBuckets(),
		Receivables:   newBuckets(),
	}

	for _, t := range transactions {
		if !scope.Matches(t.AccountID) {
			continue
		}

		var buckets []domain.AgingBucket
		switch {
		case t.Type == domain.Outflow && t.Status == domain.StatusPayable:
			buckets = report.Payables
		case t.Type == domain.Inflow && t.Status == domain.StatusReceivable:
			buckets = report.Receivables
		default:
			continue
		}

		daysOverdue := daysBetween(t.DueDate, referenceDate)
		if daysOverdue < 0 {
			continue
		}

		idx := bandIndex(daysOverdue)
		buckets[idx].Total = buckets[idx].Total.Add(t.ExpectedAmount)
		buckets[idx].Count++
	}

	return report
}

func newBuckets() []domain.AgingBucket {
	buckets := make([]domain.AgingBucket, len(agingBands))
	for i, b := range agingBands {
		buckets[i] = domain.AgingBucket{
			Label:   b.label,
			MinDays: b.minDays,
			MaxDays: b.maxDays,
			Total:   decimal.Zero,
		}
	}
	return buckets
}

func bandIndex(daysOverdue int) int {
	for i, b := range agingBands {
		if daysOverdue >= b.minDays && (b.maxDays < 0 || daysOverdue <= b.maxDays) {
			return i
		}
	}
	return len(agingBands) - 1 // unreachable for daysOverdue >= 0
}
