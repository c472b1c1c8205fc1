package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/infra/observability"
	"github.com/boddenberg/pj-ledger-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Report routes are public reads; everything that mutates the ledger sits
// behind the JWT middleware.
func NewRouter(reportsSvc *service.ReportsService, ledgerSvc *service.LedgerService, authSvc *service.AuthService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(ledgerSvc))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Reports (read-only)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/balance", balanceHandler(reportsSvc, logger))
			r.Get("/period", periodHandler(reportsSvc, logger))
			r.Get("/health", healthReportHandler(reportsSvc, logger))
			r.Get("/aging", agingHandler(reportsSvc, logger))
			r.Get("/pareto", paretoHandler(reportsSvc, logger))
			r.Get("/projection", projectionHandler(reportsSvc, logger))
			r.Get("/budget-variance", budgetVarianceHandler(reportsSvc, logger))
			r.Get("/dashboard", dashboardHandler(reportsSvc, logger))
		})

		// Engine metrics snapshot
		r.Get("/metrics/engine", engineMetricsHandler(reportsSvc, logger))

		// Ledger reads
		r.Get("/accounts", listAccountsHandler(ledgerSvc, logger))
		r.Get("/accounts/{accountId}", getAccountHandler(ledgerSvc, logger))
		r.Get("/transactions", listTransactionsHandler(ledgerSvc, logger))
		r.Get("/transactions/{transactionId}", getTransactionHandler(ledgerSvc, logger))
		r.Get("/categories", listCategoriesHandler(ledgerSvc, logger))
		r.Get("/subcategories", listSubcategoriesHandler(ledgerSvc, logger))
		r.Get("/budgets", listBudgetsHandler(ledgerSvc, logger))
		r.Get("/budgets/{budgetId}", getBudgetHandler(ledgerSvc, logger))

		// Auth
		r.Post("/auth/login", authLoginHandler(authSvc, logger))

		// Ledger writes (protected)
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(authSvc, logger))

			r.Post("/accounts", createAccountHandler(ledgerSvc, logger))
			r.Post("/transactions", createTransactionHandler(ledgerSvc, logger))
			r.Post("/transactions/{transactionId}/settle", settleTransactionHandler(ledgerSvc, logger))
			r.Post("/transactions/{transactionId}/cancel", cancelTransactionHandler(ledgerSvc, logger))
			r.Post("/categories", createCategoryHandler(ledgerSvc, logger))
			r.Post("/subcategories", createSubcategoryHandler(ledgerSvc, logger))
			r.Post("/budgets", createBudgetHandler(ledgerSvc, logger))
			r.Put("/budgets/{budgetId}", updateBudgetHandler(ledgerSvc, logger))
			r.Post("/budgets/{budgetId}/activate", activateBudgetHandler(ledgerSvc, logger))
		})
	})

	return r
}

// healthzHandler reports overall health including the store backend.
func healthzHandler(ledgerSvc *service.LedgerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		storeStatus := "healthy"

		start := time.Now()
		if _, err := ledgerSvc.ListAccounts(r.Context()); err != nil {
			status = "degraded"
			storeStatus = "degraded"
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status": status,
			"store": map[string]any{
				"status":     storeStatus,
				"latency_ms": time.Since(start).Milliseconds(),
			},
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
