package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Record store metrics
	StoreCallsTotal   *prometheus.CounterVec
	StoreCallDuration *prometheus.HistogramVec

	// Business metrics
	RecordsCreated  *prometheus.CounterVec
	ExportsServed   *prometheus.CounterVec
	MetricsRefreshs prometheus.Counter

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		StoreCallsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "record_store_calls_total",
				Help: "Total number of record store calls",
			},
			[]string{"table", "operation", "status"},
		),
		StoreCallDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "record_store_call_duration_seconds",
				Help:    "Record store call duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"table", "operation"},
		),
		RecordsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "records_created_total",
				Help: "Total number of records created per entity",
			},
			[]string{"entity"},
		),
		ExportsServed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exports_served_total",
				Help: "Total number of exports generated",
			},
			[]string{"entity", "format"},
		),
		MetricsRefreshs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "company_metrics_refreshes_total",
			Help: "Total number of company aggregate refresh sweeps",
		}),
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_type"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_type"},
		),
	}
}

// Middleware creates an Echo middleware recording request counts and latency
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			// Route pattern, not the raw path, so /api/v1/contacts/:id
			// aggregates into one series
			path := c.Path()

			err := next(c)

			status := c.Response().Status
			duration := time.Since(start).Seconds()

			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, strconv.Itoa(status)).Observe(duration)

			return err
		}
	}
}

// RecordStoreCall records one record store round-trip
func (m *Metrics) RecordStoreCall(table, operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreCallsTotal.WithLabelValues(table, operation, status).Inc()
	m.StoreCallDuration.WithLabelValues(table, operation).Observe(duration.Seconds())
}

// RecordCreated increments the per-entity creation counter
func (m *Metrics) RecordCreated(entity string) {
	m.RecordsCreated.WithLabelValues(entity).Inc()
}

// RecordExport increments the export counter
func (m *Metrics) RecordExport(entity, format string) {
	m.ExportsServed.WithLabelValues(entity, format).Inc()
}

// RecordMetricsRefresh increments the refresh sweep counter
func (m *Metrics) RecordMetricsRefresh() {
	m.MetricsRefreshs.Inc()
}

// RecordCacheHit increments cache hits counter
func (m *Metrics) RecordCacheHit(cacheType string) {
	m.CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments cache misses counter
func (m *Metrics) RecordCacheMiss(cacheType string) {
	m.CacheMisses.WithLabelValues(cacheType).Inc()
}
