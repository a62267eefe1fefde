// Package metrics exposes Prometheus collectors for HTTP traffic and for the
// sale recorder. Collectors register on the default registry at init.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "motofix"

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	salesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_recorded_total",
			Help:      "Committed sales by payment method",
		},
		[]string{"payment_method"},
	)

	salesAmount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_amount_total",
			Help:      "Sum of committed sale totals",
		},
	)

	saleFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_failures_total",
			Help:      "Rolled back sale attempts by reason",
		},
		[]string{"reason"},
	)

	lowStockProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_products",
			Help:      "Products at or below their minimum stock",
		},
	)

	jobsDeadLettered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_dead_lettered_total",
			Help:      "Background jobs moved to the dead letter queue",
		},
		[]string{"queue"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequests,
		httpDuration,
		salesRecorded,
		salesAmount,
		saleFailures,
		lowStockProducts,
		jobsDeadLettered,
	)
}

// Middleware records count and latency per route template (not raw path, to
// keep label cardinality bounded).
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func ObserveSale(paymentMethod string, total decimal.Decimal) {
	salesRecorded.WithLabelValues(paymentMethod).Inc()
	salesAmount.Add(total.InexactFloat64())
}

func ObserveSaleFailure(reason string) {
	saleFailures.WithLabelValues(reason).Inc()
}

func SetLowStock(n int64) {
	lowStockProducts.Set(float64(n))
}

func ObserveDeadLetter(queue string) {
	jobsDeadLettered.WithLabelValues(queue).Inc()
}
