package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestsTotal counts total HTTP requests
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderforge",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration measures request latency
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "orderforge",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// httpRequestsInFlight tracks concurrent requests
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "orderforge",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// httpResponseSize measures response body size
	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "orderforge",
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8), // 100B to 1GB
		},
		[]string{"method", "path"},
	)
)

// Business metrics
var (
	// OrdersTotal counts placed orders by terminal status.
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderforge",
			Subsystem: "business",
			Name:      "orders_total",
			Help:      "Total number of orders by status",
		},
		[]string{"status"},
	)

	// OrderAmount tracks order totals in cents.
	OrderAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "orderforge",
			Subsystem: "business",
			Name:      "order_amount_cents",
			Help:      "Order totals in cents",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8), // $1 to $10M
		},
		[]string{"status"},
	)

	// WarehouseSelections counts how often each warehouse is chosen by the
	// selector, split by whether it was the geographically closest option.
	WarehouseSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderforge",
			Subsystem: "business",
			Name:      "warehouse_selections_total",
			Help:      "Total number of warehouse selections",
		},
		[]string{"warehouseId", "wasClosest"},
	)

	// IdempotencyReplaysTotal counts requests served from a stored
	// idempotency record instead of running the pipeline.
	IdempotencyReplaysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderforge",
			Subsystem: "business",
			Name:      "idempotency_replays_total",
			Help:      "Total number of idempotency-key replay responses",
		},
		[]string{"status"},
	)
)

// Database metrics
var (
	// dbQueryDuration measures database query latency
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "orderforge",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation", "table"},
	)

	// dbConnectionsTotal tracks database connections
	DBConnectionsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "orderforge",
			Subsystem: "db",
			Name:      "connections",
			Help:      "Number of database connections",
		},
		[]string{"state"}, // idle, in_use, max
	)

	// dbErrorsTotal counts database errors
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderforge",
			Subsystem: "db",
			Name:      "errors_total",
			Help:      "Total number of database errors",
		},
		[]string{"operation", "error_type"},
	)
)

// Metrics returns Prometheus metrics middleware
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(c.Writer.Size()))
	}
}

// RecordOrder records an order outcome metric.
func RecordOrder(status string, amountCents int64) {
	OrdersTotal.WithLabelValues(status).Inc()
	OrderAmount.WithLabelValues(status).Observe(float64(amountCents))
}

// RecordWarehouseSelection records which warehouse the selector chose.
func RecordWarehouseSelection(warehouseID string, wasClosest bool) {
	WarehouseSelections.WithLabelValues(warehouseID, strconv.FormatBool(wasClosest)).Inc()
}

// RecordIdempotencyReplay records a replayed idempotency-key response.
func RecordIdempotencyReplay(status string) {
	IdempotencyReplaysTotal.WithLabelValues(status).Inc()
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordDBError records a database error metric
func RecordDBError(operation, errorType string) {
	DBErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// UpdateDBConnections updates database connection metrics
func UpdateDBConnections(idle, inUse, max int32) {
	DBConnectionsTotal.WithLabelValues("idle").Set(float64(idle))
	DBConnectionsTotal.WithLabelValues("in_use").Set(float64(inUse))
	DBConnectionsTotal.WithLabelValues("max").Set(float64(max))
}
