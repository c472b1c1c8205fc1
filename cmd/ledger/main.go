package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/config"
	"github.com/boddenberg/pj-ledger-go/internal/handler"
	"github.com/boddenberg/pj-ledger-go/internal/infra/cache"
	"github.com/boddenberg/pj-ledger-go/internal/infra/memstore"
	"github.com/boddenberg/pj-ledger-go/internal/infra/observability"
	"github.com/boddenberg/pj-ledger-go/internal/infra/resilience"
	"github.com/boddenberg/pj-ledger-go/internal/infra/supabase"
	"github.com/boddenberg/pj-ledger-go/internal/port"
	"github.com/boddenberg/pj-ledger-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_supabase", cfg.UseSupabase),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "pj-ledger")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	reportCache := cache.New[any](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	// --- Store ---
	var store port.LedgerStore
	if cfg.UseSupabase && cfg.SupabaseURL != "" {
		logger.Info("using Supabase as ledger store",
			zap.String("supabase_url", cfg.SupabaseURL),
		)
		store = supabase.NewClient(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseServiceKey,
			resilience.NewCircuitBreaker("supabase"),
			resilience.NewBulkhead(cfg.MaxConcurrency),
			resilienceCfg,
			logger,
			metrics,
		)
	} else {
		logger.Info("using in-memory ledger store")
		store = memstore.New()
	}

	// --- Services ---
	reportsSvc := service.NewReportsService(store, reportCache, metrics, logger)
	ledgerSvc := service.NewLedgerService(store, metrics, logger)
	authSvc := service.NewAuthService(
		cfg.AdminUsername,
		cfg.AdminPasswordHash,
		cfg.AdminPassword,
		cfg.JWTSecret,
		cfg.JWTAccessTTL,
		logger,
	)

	// --- Router ---
	router := handler.NewRouter(reportsSvc, ledgerSvc, authSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
