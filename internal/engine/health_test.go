package engine_test

import (
	"testing"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/boddenberg/pj-ledger-go/internal/engine"
)

func metrics(incomeRealized, expenseRealized, incomePending, expensePending string) domain.PeriodMetrics {
	m := domain.PeriodMetrics{
		IncomeRealized:  dec(incomeRealized),
		ExpenseRealized: dec(expenseRealized),
		IncomePending:   dec(incomePending),
		ExpensePending:  dec(expensePending),
	}
	m.PeriodResult = m.IncomeRealized.Sub(m.ExpenseRealized)
	return m
}

func TestComputeScorecard_LiquidityHealthy(t *testing.T) {
	// 6000 in cash over 1000/month of expenses: six months of runway.
	sc := engine.ComputeScorecard(dec("6000"), metrics("0", "1000", "0", "0"))

	if !sc.Liquidity.Ratio.Equal(dec("6")) {
		t.Errorf("expected ratio 6, got %s", sc.Liquidity.Ratio)
	}
	if sc.Liquidity.DaysOfCash != 180 {
		t.Errorf("expected 180 days of cash, got %d", sc.Liquidity.DaysOfCash)
	}
	if sc.Liquidity.Level != domain.HealthHealthy {
		t.Errorf("expected healthy, got %s", sc.Liquidity.Level)
	}
}

func TestComputeScorecard_LiquidityBands(t *testing.T) {
	cases := []struct {
		balance string
		want    domain.HealthLevel
	}{
		{"6000", domain.HealthHealthy},  // ratio 6
		{"3000", domain.HealthWarning},  // ratio 3
		{"2999", domain.HealthCritical}, // just under 3
	}
	for _, tc := range cases {
		sc := engine.ComputeScorecard(dec(tc.balance), metrics("0", "1000", "0", "0"))
		if sc.Liquidity.Level != tc.want {
			t.Errorf("balance %s: expected %s, got %s", tc.balance, tc.want, sc.Liquidity.Level)
		}
	}
}

func TestComputeScorecard_LiquidityZeroExpense(t *testing.T) {
	sc := engine.ComputeScorecard(dec("1000"), metrics("0", "0", "0", "0"))
	if !sc.Liquidity.Ratio.IsZero() {
		t.Errorf("expected zero ratio with no expenses, got %s", sc.Liquidity.Ratio)
	}
	if sc.Liquidity.DaysOfCash != 0 {
		t.Errorf("expected zero days of cash, got %d", sc.Liquidity.DaysOfCash)
	}
}

func TestComputeScorecard_Solvency(t *testing.T) {
	// Net worth = balance - open payables.
	sc := engine.ComputeScorecard(dec("1000"), metrics("0", "600", "0", "800"))
	if !sc.Solvency.NetWorth.Equal(dec("200")) {
		t.Errorf("expected net worth 200, got %s", sc.Solvency.NetWorth)
	}
	if sc.Solvency.Level != domain.HealthHealthy {
		t.Errorf("expected healthy, got %s", sc.Solvency.Level)
	}

	// Negative but within one month of expenses: warning.
	sc = engine.ComputeScorecard(dec("1000"), metrics("0", "600", "0", "1500"))
	if !sc.Solvency.NetWorth.Equal(dec("-500")) {
		t.Errorf("expected net worth -500, got %s", sc.Solvency.NetWorth)
	}
	if sc.Solvency.Level != domain.HealthWarning {
		t.Errorf("expected warning, got %s", sc.Solvency.Level)
	}

	// Deeper than one month of expenses: critical.
	sc = engine.ComputeScorecard(dec("1000"), metrics("0", "600", "0", "2000"))
	if sc.Solvency.Level != domain.HealthCritical {
		t.Errorf("expected critical, got %s", sc.Solvency.Level)
	}
}

func TestComputeScorecard_Profitability(t *testing.T) {
	cases := []struct {
		income  string
		expense string
		margin  string
		want    domain.HealthLevel
	}{
		{"1000", "750", "25", domain.HealthHealthy},
		{"1000", "850", "15", domain.HealthWarning},
		{"1000", "950", "5", domain.HealthCritical},
	}
	for _, tc := range cases {
		sc := engine.ComputeScorecard(dec("0"), metrics(tc.income, tc.expense, "0", "0"))
		if !sc.Profitability.MarginPct.Equal(dec(tc.margin)) {
			t.Errorf("income %s expense %s: expected margin %s, got %s",
				tc.income, tc.expense, tc.margin, sc.Profitability.MarginPct)
		}
		if sc.Profitability.Level != tc.want {
			t.Errorf("margin %s: expected %s, got %s", tc.margin, tc.want, sc.Profitability.Level)
		}
	}
}

func TestComputeScorecard_ProfitabilityZeroIncome(t *testing.T) {
	sc := engine.ComputeScorecard(dec("0"), metrics("0", "500", "0", "0"))
	if !sc.Profitability.MarginPct.IsZero() {
		t.Errorf("expected zero margin with no income, got %s", sc.Profitability.MarginPct)
	}
	if sc.Profitability.Level != domain.HealthCritical {
		t.Errorf("expected critical, got %s", sc.Profitability.Level)
	}
}
