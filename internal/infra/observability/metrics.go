package observability

import (
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the ledger service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	reportDuration *prometheus.HistogramVec
	reportsTotal   *prometheus.CounterVec
	storeErrors    *prometheus.CounterVec
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	writesTotal    *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		reportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_report_duration_seconds",
				Help:    "Duration of report computations by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report"},
		),
		reportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_reports_total",
				Help: "Total report computations by outcome.",
			},
			[]string{"status"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_store_errors_total",
				Help: "Total errors from the ledger store backend.",
			},
			[]string{"backend"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_cache_hits_total",
				Help: "Total report cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_cache_misses_total",
				Help: "Total report cache misses.",
			},
			[]string{"cache"},
		),
		writesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_writes_total",
				Help: "Total ledger write operations by entity.",
			},
			[]string{"entity"},
		),
	}
}

// RecordReportDuration records the duration of a report computation.
func (m *Metrics) RecordReportDuration(report string, d time.Duration) {
	m.reportDuration.WithLabelValues(report).Observe(d.Seconds())
}

// IncrReport increments the report counter with an outcome label.
func (m *Metrics) IncrReport(status string) {
	m.reportsTotal.WithLabelValues(status).Inc()
}

// IncrStoreError increments the store error counter.
func (m *Metrics) IncrStoreError(backend string) {
	m.storeErrors.WithLabelValues(backend).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrWrite increments the write counter for an entity.
func (m *Metrics) IncrWrite(entity string) {
	m.writesTotal.WithLabelValues(entity).Inc()
}

// GetEngineSnapshot returns a snapshot of the report-engine counters for
// the GET /v1/metrics/engine endpoint.
func (m *Metrics) GetEngineSnapshot() *domain.EngineMetrics {
	computed := getCounterValue(m.reportsTotal, "success")
	errored := getCounterValue(m.reportsTotal, "error")
	hits := getCounterValue(m.cacheHits, "reports")
	misses := getCounterValue(m.cacheMisses, "reports")
	storeErrors := getCounterValue(m.storeErrors, "memory") +
		getCounterValue(m.storeErrors, "supabase")

	errorRate := float64(0)
	if computed+errored > 0 {
		errorRate = errored / (computed + errored)
	}
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.EngineMetrics{
		ReportsComputed: computed,
		ReportErrors:    errored,
		ErrorRate:       errorRate,
		CacheHits:       hits,
		CacheMisses:     misses,
		CacheHitRate:    hitRate,
		StoreErrors:     storeErrors,
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
