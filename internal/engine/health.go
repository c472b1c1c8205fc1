package engine

import (
	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/shopspring/decimal"
)

// Health thresholds. These are product policy constants with no derivation
// behind them — they must stay exactly as tuned, so they live here by name
// instead of being recomputed.
var (
	liquidityHealthyMonths = decimal.NewFromInt(6)
	liquidityWarningMonths = decimal.NewFromInt(3)

	profitabilityHealthyPct = decimal.NewFromInt(20)
	profitabilityWarningPct = decimal.NewFromInt(10)

	daysPerMonth = decimal.NewFromInt(30)
	hundred      = decimal.NewFromInt(100)
)

// ComputeScorecard derives the liquidity, solvency and profitability
// indicators from the current balance and the period metrics of the same
// scope.
//
// Liquidity is months of cash: currentBalance / monthly realized expense,
// with days of cash = round(ratio × 30). Solvency is net worth: balance
// minus the open payables of the period. Profitability is the period result
// as a percentage of realized income. Ratios over "no data" (zero expense,
// zero income) are defined as zero, not an error.
func ComputeScorecard(currentBalance decimal.Decimal, metrics domain.PeriodMetrics) domain.HealthScorecard {
	return domain.HealthScorecard{
		Liquidity:     liquidity(currentBalance, metrics.ExpenseRealized),
		Solvency:      solvency(currentBalance, metrics),
		Profitability: profitability(metrics),
	}
}

func liquidity(balance, monthlyExpense decimal.Decimal) domain.LiquidityIndicator {
	ratio := decimal.Zero
	if !monthlyExpense.IsZero() {
		ratio = balance.Div(monthlyExpense)
	}

	level := domain.HealthCritical
	switch {
	case ratio.Cmp(liquidityHealthyMonths) >= 0:
		level = domain.HealthHealthy
	case ratio.Cmp(liquidityWarningMonths) >= 0:
		level = domain.HealthWarning
	}

	return domain.LiquidityIndicator{
		Ratio:      ratio,
		DaysOfCash: ratio.Mul(daysPerMonth).Round(0).IntPart(),
		Level:      level,
	}
}

func solvency(balance decimal.Decimal, metrics domain.PeriodMetrics) domain.SolvencyIndicator {
	// Open liabilities are the period's pending payables, resolved through
	// the same amount rule as everything else.
	netWorth := balance.Sub(metrics.ExpensePending)

	level := domain.HealthCritical
	switch {
	case netWorth.Sign() >= 0:
		level = domain.HealthHealthy
	case netWorth.Cmp(metrics.ExpenseRealized.Neg()) >= 0:
		level = domain.HealthWarning
	}

	return domain.SolvencyIndicator{NetWorth: netWorth, Level: level}
}

func profitability(metrics domain.PeriodMetrics) domain.ProfitabilityIndicator {
	margin := decimal.Zero
	if !metrics.IncomeRealized.IsZero() {
		margin = metrics.PeriodResult.Div(metrics.IncomeRealized).Mul(hundred)
	}

	level := domain.HealthCritical
	switch {
	case margin.Cmp(profitabilityHealthyPct) >= 0:
		level = domain.HealthHealthy
	case margin.Cmp(profitabilityWarningPct) >= 0:
		level = domain.HealthWarning
	}

	return domain.ProfitabilityIndicator{MarginPct: margin, Level: level}
}
