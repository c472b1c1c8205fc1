package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/boddenberg/pj-ledger-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Reports — GET /v1/reports/*
// ============================================================

func balanceHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/balance")
		defer span.End()

		accountID := r.URL.Query().Get("account_id")
		balance, err := svc.Balance(ctx, accountID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"account_id": accountID,
			"balance":    balance,
		})
	}
}

func periodHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/period")
		defer span.End()

		from, to, err := parseRange(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		metrics, err := svc.PeriodMetrics(ctx, from, to, r.URL.Query().Get("account_id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, metrics)
	}
}

func healthReportHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/health")
		defer span.End()

		from, to, err := parseRange(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		scorecard, err := svc.Health(ctx, from, to, r.URL.Query().Get("account_id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, scorecard)
	}
}

func agingHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/aging")
		defer span.End()

		referenceDate, err := parseDateParam(r, "reference_date", time.Time{})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		report, err := svc.Aging(ctx, referenceDate, r.URL.Query().Get("account_id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func paretoHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/pareto")
		defer span.End()

		entries, err := svc.Pareto(ctx, r.URL.Query().Get("account_id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.ListResponse[domain.ParetoEntry]{Data: entries, Total: len(entries)})
	}
}

// projectionHandler serves one scenario, or all three bands when
// ?scenario=all is requested.
func projectionHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/projection")
		defer span.End()

		accountID := r.URL.Query().Get("account_id")
		scenario := r.URL.Query().Get("scenario")

		if scenario == "all" {
			bands, err := svc.ProjectionBands(ctx, accountID)
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			writeJSON(w, http.StatusOK, bands)
			return
		}

		points, err := svc.Projection(ctx, accountID, domain.Scenario(scenario))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"scenario": scenario,
			"points":   points,
		})
	}
}

func budgetVarianceHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/budget-variance")
		defer span.End()

		year, err := parseYearParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		comparison, err := svc.BudgetVariance(ctx, year)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, comparison)
	}
}

func dashboardHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/dashboard")
		defer span.End()

		from, to, err := parseRange(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		dash, err := svc.Dashboard(ctx, from, to, r.URL.Query().Get("account_id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dash)
	}
}

// ============================================================
// Engine metrics snapshot — GET /v1/metrics/engine
// ============================================================

func engineMetricsHandler(svc *service.ReportsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.EngineMetrics())
	}
}
