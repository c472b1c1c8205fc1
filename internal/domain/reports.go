package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Derived view models produced by the analytics engine. These are plain
// values: no formatting, no localization — rendering is the frontend's job.

// ============================================================
// Period metrics
// ============================================================

// PeriodMetrics aggregates a date window (by accrual date) and account scope.
// PeriodResult counts realized amounts only; pending amounts never enter it.
type PeriodMetrics struct {
	IncomeRealized  decimal.Decimal `json:"income_realized"`
	ExpenseRealized decimal.Decimal `json:"expense_realized"`
	IncomePending   decimal.Decimal `json:"income_pending"`
	ExpensePending  decimal.Decimal `json:"expense_pending"`
	PeriodResult    decimal.Decimal `json:"period_result"`
}

// ============================================================
// Health scorecard
// ============================================================

// HealthLevel is the classification of a health indicator.
type HealthLevel string

const (
	HealthHealthy  HealthLevel = "healthy"
	HealthWarning  HealthLevel = "warning"
	HealthCritical HealthLevel = "critical"
)

// LiquidityIndicator: how many months (and days) of realized expenses the
// current balance covers.
type LiquidityIndicator struct {
	Ratio      decimal.Decimal `json:"ratio"`
	DaysOfCash int64           `json:"days_of_cash"`
	Level      HealthLevel     `json:"level"`
}

// SolvencyIndicator: net worth after open liabilities.
type SolvencyIndicator struct {
	NetWorth decimal.Decimal `json:"net_worth"`
	Level    HealthLevel     `json:"level"`
}

// ProfitabilityIndicator: period result as a percentage of realized income.
type ProfitabilityIndicator struct {
	MarginPct decimal.Decimal `json:"margin_pct"`
	Level     HealthLevel     `json:"level"`
}

// HealthScorecard bundles the three indicators derived from the current
// balance and the period metrics.
type HealthScorecard struct {
	Liquidity     LiquidityIndicator     `json:"liquidity"`
	Solvency      SolvencyIndicator      `json:"solvency"`
	Profitability ProfitabilityIndicator `json:"profitability"`
}

// ============================================================
// Aging
// ============================================================

// AgingBucket is one band of days overdue. MinDays/MaxDays are inclusive;
// MaxDays < 0 means the band is unbounded above ("90+").
type AgingBucket struct {
	Label   string          `json:"label"`
	MinDays int             `json:"min_days"`
	MaxDays int             `json:"max_days"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
}

// AgingReport buckets open payables and receivables by days overdue
// relative to the due date. Not-yet-due items appear in no bucket.
type AgingReport struct {
	ReferenceDate time.Time     `json:"reference_date"`
	Payables      []AgingBucket `json:"payables"`
	Receivables   []AgingBucket `json:"receivables"`
}

// ============================================================
// Category ranking (Pareto)
// ============================================================

// ParetoEntry is one expense category in the descending ranking, with the
// cumulative-percentage curve alongside.
type ParetoEntry struct {
	Category          string          `json:"category"`
	Amount            decimal.Decimal `json:"amount"`
	CumulativeAmount  decimal.Decimal `json:"cumulative_amount"`
	PercentOfTotal    decimal.Decimal `json:"percent_of_total"`
	CumulativePercent decimal.Decimal `json:"cumulative_percent"`
}

// ============================================================
// Cash-flow projection
// ============================================================

// Scenario selects the adjustment rule applied to projected amounts.
type Scenario string

const (
	ScenarioBase        Scenario = "base"
	ScenarioOptimistic  Scenario = "optimistic"
	ScenarioPessimistic Scenario = "pessimistic"
)

// ValidScenario reports whether s is a known projection scenario.
func ValidScenario(s Scenario) bool {
	return s == ScenarioBase || s == ScenarioOptimistic || s == ScenarioPessimistic
}

// ProjectionPoint is one step of the running-balance series. The first
// point of a projection is always "today" at the current balance.
type ProjectionPoint struct {
	Label   string          `json:"label"`
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// ProjectionBands carries the three scenarios of the same projection,
// each folded from its own independent accumulator.
type ProjectionBands struct {
	Base        []ProjectionPoint `json:"base"`
	Optimistic  []ProjectionPoint `json:"optimistic"`
	Pessimistic []ProjectionPoint `json:"pessimistic"`
}

// ============================================================
// Budget vs. actual
// ============================================================

// BudgetMonthly aligns one month of planned vs realized expense.
type BudgetMonthly struct {
	Month    int             `json:"month"`
	Budgeted decimal.Decimal `json:"budgeted"`
	Actual   decimal.Decimal `json:"actual"`
}

// BudgetLineComparison is one budget item matched against the realized
// expenses in the same category(+subcategory) bucket.
type BudgetLineComparison struct {
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory,omitempty"`
	Budgeted      decimal.Decimal `json:"budgeted"`
	Actual        decimal.Decimal `json:"actual"`
	Variance      decimal.Decimal `json:"variance"`
	VariancePct   decimal.Decimal `json:"variance_pct"`
	Monthly       []BudgetMonthly `json:"monthly"`
	CategoryID    string          `json:"category_id"`
	SubcategoryID string          `json:"subcategory_id,omitempty"`
}

// BudgetSummary aggregates the comparison. Items with exactly zero variance
// count as neither over nor under.
type BudgetSummary struct {
	TotalBudgeted    decimal.Decimal `json:"total_budgeted"`
	TotalActual      decimal.Decimal `json:"total_actual"`
	TotalVariance    decimal.Decimal `json:"total_variance"`
	TotalVariancePct decimal.Decimal `json:"total_variance_pct"`
	ItemsOverBudget  int             `json:"items_over_budget"`
	ItemsUnderBudget int             `json:"items_under_budget"`
}

// BudgetComparison is the full budget-vs-actual report for one year.
// Items are ranked by descending absolute variance.
type BudgetComparison struct {
	Year    int                    `json:"year"`
	Items   []BudgetLineComparison `json:"items"`
	Summary BudgetSummary          `json:"summary"`
}

// ============================================================
// Dashboard
// ============================================================

// Dashboard bundles the panels the frontend renders on one screen. All
// panels read the same snapshot and agree numerically.
type Dashboard struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	AccountID  string          `json:"account_id,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
	Metrics    PeriodMetrics   `json:"metrics"`
	Health     HealthScorecard `json:"health"`
	Aging      AgingReport     `json:"aging"`
	Pareto     []ParetoEntry   `json:"pareto"`
	Projection ProjectionBands `json:"projection"`
}
