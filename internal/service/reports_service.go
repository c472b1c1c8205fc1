package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/boddenberg/pj-ledger-go/internal/engine"
	"github.com/boddenberg/pj-ledger-go/internal/infra/observability"
	"github.com/boddenberg/pj-ledger-go/internal/port"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var reportsTracer = otel.Tracer("service/reports")

// ReportsService runs the analytics engine over a store snapshot and
// memoizes results. Cache keys include the store version, so a write
// invalidates every memoized report without explicit eviction.
type ReportsService struct {
	store   port.LedgerStore
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportsService creates the reports service with all dependencies injected.
func NewReportsService(store port.LedgerStore, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *ReportsService {
	return &ReportsService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// snapshot is one consistent read of everything the engine consumes.
type snapshot struct {
	accounts      []domain.Account
	transactions  []domain.Transaction
	categories    []domain.CategoryItem
	subcategories []domain.SubcategoryItem
}

func (s snapshot) categoryIndex() engine.CategoryIndex {
	return engine.NewCategoryIndex(s.categories, s.subcategories)
}

// loadSnapshot fetches all engine inputs concurrently.
func (s *ReportsService) loadSnapshot(ctx context.Context) (snapshot, error) {
	var snap snapshot

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.store.ListAccounts(gCtx)
		if err != nil {
			return fmt.Errorf("accounts snapshot: %w", err)
		}
		snap.accounts = accounts
		return nil
	})
	g.Go(func() error {
		transactions, err := s.store.ListTransactions(gCtx)
		if err != nil {
			return fmt.Errorf("transactions snapshot: %w", err)
		}
		snap.transactions = transactions
		return nil
	})
	g.Go(func() error {
		categories, err := s.store.ListCategories(gCtx)
		if err != nil {
			return fmt.Errorf("categories snapshot: %w", err)
		}
		snap.categories = categories
		return nil
	})
	g.Go(func() error {
		subcategories, err := s.store.ListSubcategories(gCtx)
		if err != nil {
			return fmt.Errorf("subcategories snapshot: %w", err)
		}
		snap.subcategories = subcategories
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load ledger snapshot", zap.Error(err))
		return snapshot{}, err
	}
	return snap, nil
}

// memoize wraps a report computation with version-keyed caching and the
// report metrics. Results are cached only on success.
func memoize[T any](svc *ReportsService, op, params string, compute func() (T, error)) (T, error) {
	key := fmt.Sprintf("%s|v%d|%s", op, svc.store.Version(), params)
	if cached, ok := svc.cache.Get(key); ok {
		if v, ok := cached.(T); ok {
			svc.metrics.IncrCacheHit("reports")
			return v, nil
		}
	}
	svc.metrics.IncrCacheMiss("reports")

	start := time.Now()
	v, err := compute()
	svc.metrics.RecordReportDuration(op, time.Since(start))
	if err != nil {
		svc.metrics.IncrReport("error")
		var zero T
		return zero, err
	}
	svc.metrics.IncrReport("success")
	svc.cache.Set(key, v)
	return v, nil
}

// Balance returns the derived current balance for the account scope.
func (s *ReportsService) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	ctx, span := reportsTracer.Start(ctx, "ReportsService.Balance")
	defer span.End()
	span.SetAttributes(attribute.String("scope.account_id", accountID))

	return memoize(s, "balance", accountID, func() (decimal.Decimal, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return engine.CurrentBalance(snap.accounts, snap.transactions, engine.Scope{AccountID: accountID}), nil
	})
}

// PeriodMetrics aggregates realized and pending amounts for a date window.
func (s *ReportsService) PeriodMetrics(ctx context.Context, from, to time.Time, accountID string) (domain.PeriodMetrics, error) {
	ctx, span := reportsTracer.Start(ctx, "ReportsService.PeriodMetrics")
	defer span.End()

	if to.Before(from) {
		return domain.PeriodMetrics{}, &domain.ErrValidation{Field: "to", Message: "must not be before from"}
	}

	params := fmt.Sprintf("%s|%s|%s", from.Format("2006-01-02"), to.Format("2006-01-02"), accountID)
	return memoize(s, "period", params, func() (domain.PeriodMetrics, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return domain.PeriodMetrics{}, err
		}
		return engine.ComputePeriodMetrics(snap.transactions, from, to, engine.Scope{AccountID: accountID}), nil
	})
}

// Health derives the three-indicator scorecard from the current balance and
// the period metrics of the same window.
func (s *ReportsService) Health(ctx context.Context, from, to time.Time, accountID string) (domain.HealthScorecard, error) {
	ctx, span := reportsTracer.Start(ctx, "ReportsService.Health")
	defer span.End()

	if to.Before(from) {
		return domain.HealthScorecard{}, &domain.ErrValidation{Field: "to", Message: "must not be before from"}
	}

	params := fmt.Sprintf("%s|%s|%s", from.Format("2006-01-02"), to.Format("2006-01-02"), accountID)
	return memoize(s, "health", params, func() (domain.HealthScorecard, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return domain.HealthScorecard{}, err
		}
		scope := engine.Scope{AccountID: accountID}
		balance := engine.CurrentBalance(snap.accounts, snap.transactions, scope)
		metrics := engine.ComputePeriodMetrics(snap.transactions, from, to, scope)
		return engine.ComputeScorecard(balance, metrics), nil
	})
}

// Aging buckets open payables and receivables by days overdue.
func (s *ReportsService) Aging(ctx context.Context, referenceDate time.Time, accountID string) (domain.AgingReport, error) {
	ctx, span := reportsTracer.Start(ctx, "ReportsService.Aging")
	defer span.End()

	if referenceDate.IsZero() {
		referenceDate = s.now()
	}

	params := fmt.Sprintf("%s|%s", referenceDate.Format("2006-01-02"), accountID)
	return memoize(s, "aging", params, func() (domain.AgingReport, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return domain.AgingReport{}, err
		}
		return engine.ComputeAging(snap.transactions, referenceDate, engine.Scope{AccountID: accountID}), nil
	})
}

// Pareto ranks expense categories by total outflow with the cumulative curve.
func (s *ReportsService) Pareto(ctx context.Context, accountID string) ([]domain.ParetoEntry, error) {
	ctx, span := reportsTracer.Start(ctx, "ReportsService.Pareto")
	defer span.End()

	return memoize(s, "pareto", accountID, func() ([]domain.ParetoEntry, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		return engine.ComputePareto(snap.transactions, engine.Scope{AccountID: accountID}, snap.categoryIndex()), nil
	})
}

// Projection folds upcoming open transactions into a running-balance series
// under one scenario.
func (s *ReportsService) Projection(ctx context.Context, accountID string, scenario domain.Scenario) ([]domain.ProjectionPoint, error) {
	ctx, span := reportsTracer.Start(ctx, "ReportsService.Projection")
	defer span.End()
	span.SetAttributes(attribute.String("projection.scenario", string(scenario)))

	if scenario == "" {
		scenario = domain.ScenarioBase
	}
	if !domain.ValidScenario(scenario) {
		return nil, &domain.ErrValidation{Field: "scenario", Message: "must be base, optimistic or pessimistic"}
	}

	referenceDate := s.now()
	params := fmt.Sprintf("%s|%s|%s", accountID, scenario, referenceDate.Format("2006-01-02"))
	return memoize(s, "projection", params, func() ([]domain.ProjectionPoint, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		scope := engine.Scope{AccountID: accountID}
		balance := engine.CurrentBalance(snap.accounts, snap.transactions, scope)
		return engine.Project(snap.transactions, balance, referenceDate, scope, scenario), nil
	})
}

// ProjectionBands returns all three scenarios of the same projection.
func (s *ReportsService) ProjectionBands(ctx context.Context, accountID string) (domain.ProjectionBands, error) {
	ctx, span := reportsTracer.Start(ctx, "ReportsService.ProjectionBands")
	defer span.End()

	referenceDate := s.now()
	params := fmt.Sprintf("%s|bands|%s", accountID, referenceDate.Format("2006-01-02"))
	return memoize(s, "projection", params, func() (domain.ProjectionBands, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return domain.ProjectionBands{}, err
		}
		scope := engine.Scope{AccountID: accountID}
		balance := engine.CurrentBalance(snap.accounts, snap.transactions, scope)
		return engine.ProjectBands(snap.transactions, balance, referenceDate, scope), nil
	})
}

// BudgetVariance compares the active budget of a year against realized
// expenses. Years without an active budget produce an empty comparison.
func (s *ReportsService) BudgetVariance(ctx context.Context, year int) (domain.BudgetComparison, error) {
	ctx, span := reportsTracer.Start(ctx, "ReportsService.BudgetVariance")
	defer span.End()
	span.SetAttributes(attribute.Int("budget.year", year))

	if year < 2000 || year > 2200 {
		return domain.BudgetComparison{}, &domain.ErrValidation{Field: "year", Message: "out of range"}
	}

	return memoize(s, "budget_variance", fmt.Sprintf("%d", year), func() (domain.BudgetComparison, error) {
		budget, err := s.store.GetActiveBudget(ctx, year)
		if err != nil {
			return domain.BudgetComparison{}, fmt.Errorf("active budget: %w", err)
		}
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return domain.BudgetComparison{}, err
		}
		return engine.CompareBudget(budget, snap.transactions, year, snap.categoryIndex()), nil
	})
}

// Dashboard computes every panel from one snapshot so the numbers agree.
// The panels are pure once the snapshot is loaded, so they fan out.
func (s *ReportsService) Dashboard(ctx context.Context, from, to time.Time, accountID string) (*domain.Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := reportsTracer.Start(ctx, "ReportsService.Dashboard")
	defer span.End()
	span.SetAttributes(attribute.String("scope.account_id", accountID))

	if to.Before(from) {
		return nil, &domain.ErrValidation{Field: "to", Message: "must not be before from"}
	}

	params := fmt.Sprintf("%s|%s|%s", from.Format("2006-01-02"), to.Format("2006-01-02"), accountID)
	return memoize(s, "dashboard", params, func() (*domain.Dashboard, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}

		scope := engine.Scope{AccountID: accountID}
		referenceDate := s.now()

		dash := &domain.Dashboard{
			From:      from,
			To:        to,
			AccountID: accountID,
		}

		dash.Balance = engine.CurrentBalance(snap.accounts, snap.transactions, scope)
		dash.Metrics = engine.ComputePeriodMetrics(snap.transactions, from, to, scope)

		var g errgroup.Group
		g.Go(func() error {
			dash.Health = engine.ComputeScorecard(dash.Balance, dash.Metrics)
			return nil
		})
		g.Go(func() error {
			dash.Aging = engine.ComputeAging(snap.transactions, referenceDate, scope)
			return nil
		})
		g.Go(func() error {
			dash.Pareto = engine.ComputePareto(snap.transactions, scope, snap.categoryIndex())
			return nil
		})
		g.Go(func() error {
			dash.Projection = engine.ProjectBands(snap.transactions, dash.Balance, referenceDate, scope)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		return dash, nil
	})
}

// EngineMetrics exposes the report-engine counters as a snapshot.
func (s *ReportsService) EngineMetrics() *domain.EngineMetrics {
	return s.metrics.GetEngineSnapshot()
}
