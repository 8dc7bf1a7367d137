// Package metrics provides Prometheus metrics for the packing list service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "packing_list_service"

// Cache backends used as the "backend" label.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Request paths left out of the HTTP metrics.
var skippedPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
	"/readyz":  {},
}

var (
	// HTTPRequestDuration is labeled by route template, never the raw path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PackingListOperationsTotal counts packing list writes by operation and outcome.
	PackingListOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packing_list_operations_total",
			Help:      "Total number of packing list operations",
		},
		[]string{"operation", "status"},
	)

	PackingListOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "packing_list_operation_duration_seconds",
			Help:      "Packing list operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"operation"},
	)

	// ExportsTotal counts rendered exports by format ("json", "pdf") and outcome.
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of packing list exports",
		},
		[]string{"format", "status"},
	)

	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of response cache operations",
		},
		[]string{"backend", "operation", "result"},
	)

	// CacheSize and CacheCapacity are only reported by the in-memory cache.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Current number of in-memory cache entries",
		},
	)

	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_capacity",
			Help:      "In-memory cache capacity",
		},
	)

	// CircuitBreakerState is 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// PrometheusMiddleware records duration and count per route. Probe and
// scrape endpoints are skipped.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if _, skip := skippedPaths[path]; skip {
			c.Next()
			return
		}
		if path == "" {
			path = "unmatched"
		}

		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// RecordPackingListOperation records one packing list operation.
func RecordPackingListOperation(operation string, duration time.Duration, err error) {
	PackingListOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	PackingListOperationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

// RecordExport records one export in the given format.
func RecordExport(format string, err error) {
	ExportsTotal.WithLabelValues(format, outcome(err)).Inc()
}

// RecordCacheOperation records one cache call on backend.
func RecordCacheOperation(backend, operation, result string) {
	CacheOperationsTotal.WithLabelValues(backend, operation, result).Inc()
}

// UpdateCacheMetrics publishes the in-memory cache fill level.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}

// SetCircuitBreakerState publishes the numeric state of a named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
