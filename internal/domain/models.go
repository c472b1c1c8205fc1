package domain

// ============================================================
// Generic API Response wrappers
// ============================================================

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ============================================================
// Engine metrics snapshot — GET /v1/metrics/engine
// ============================================================

// EngineMetrics is an aggregated view of the report-engine counters,
// read back from the Prometheus registry.
type EngineMetrics struct {
	ReportsComputed float64 `json:"reports_computed"`
	ReportErrors    float64 `json:"report_errors"`
	ErrorRate       float64 `json:"error_rate"`
	CacheHits       float64 `json:"cache_hits"`
	CacheMisses     float64 `json:"cache_misses"`
	CacheHitRate    float64 `json:"cache_hit_rate"`
	StoreErrors     float64 `json:"store_errors"`
}
