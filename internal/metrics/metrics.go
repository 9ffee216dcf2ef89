// Package metrics provides Prometheus metrics collection for the Journiv backend.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// WeatherFetchTotal tracks weather fetches by outcome
	// (hit, fetched, invalid_coordinates, disabled, upstream_error, parse_failure).
	WeatherFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetch_total",
			Help: "Total number of weather fetch operations",
		},
		[]string{"result"},
	)

	// WeatherUpstreamDuration tracks upstream provider call duration.
	WeatherUpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weather_upstream_duration_seconds",
			Help:    "OpenWeather upstream request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
	)

	// CacheOperationsTotal tracks scoped cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// AdminMutationsTotal tracks admin user mutations by action and outcome.
	AdminMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_mutations_total",
			Help: "Total number of admin user mutations",
		},
		[]string{"action", "result"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordWeatherFetch records the outcome of a weather fetch.
func RecordWeatherFetch(result string) {
	WeatherFetchTotal.WithLabelValues(result).Inc()
}

// RecordUpstreamDuration records the duration of an upstream provider call.
func RecordUpstreamDuration(d time.Duration) {
	WeatherUpstreamDuration.Observe(d.Seconds())
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordAdminMutation records the outcome of an admin user mutation.
func RecordAdminMutation(action, result string) {
	AdminMutationsTotal.WithLabelValues(action, result).Inc()
}
