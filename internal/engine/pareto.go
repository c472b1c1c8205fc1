package engine

import (
	"sort"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// paretoLimit caps the ranking at the categories that matter on a chart.
const paretoLimit = 10

// ComputePareto ranks expense categories by resolved amount, descending,
// with a cumulative-percentage curve — the classic "vital few" view of
// where the money goes. The ranking is truncated to the top 10 categories.
//
// Cancelled outflows are skipped: a cancelled expense is not spend.
// A zero total yields an empty ranking rather than division-by-zero rows.
func ComputePareto(transactions []domain.Transaction, scope Scope, categories CategoryIndex) []domain.ParetoEntry {
	totals := make(map[string]decimal.Decimal)
	grandTotal := decimal.Zero

	for _, t := range transactions {
		if t.Type != domain.Outflow || t.Status == domain.StatusCancelled || !scope.Matches(t.AccountID) {
			continue
		}
		name := categories.CategoryName(t)
		amount := ResolveAmount(t)
		totals[name] = totals[name].Add(amount)
		grandTotal = grandTotal.Add(amount)
	}

	if grandTotal.IsZero() {
		return []domain.ParetoEntry{}
	}

	entries := make([]domain.ParetoEntry, 0, len(totals))
	for name, amount := range totals {
		entries = append(entries, domain.ParetoEntry{Category: name, Amount: amount})
	}

	// Descending by amount; name breaks ties so the order is deterministic.
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Amount.Cmp(entries[j].Amount); c != 0 {
			return c > 0
		}
		return entries[i].Category < entries[j].Category
	})

	if len(entries) > paretoLimit {
		entries = entries[:paretoLimit]
	}

	cumulative := decimal.Zero
	cumulativePct := decimal.Zero
	for i := range entries {
		cumulative = cumulative.Add(entries[i].Amount)
		pct := entries[i].Amount.Div(grandTotal).Mul(hundred)
		cumulativePct = cumulativePct.Add(pct)

		entries[i].CumulativeAmount = cumulative
		entries[i].PercentOfTotal = pct
		entries[i].CumulativePercent = cumulativePct
	}

	return entries
}
