package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "insights"

// Ingest outcomes.
const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)

var (
	ingestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_total",
			Help:      "PDF ingestions by outcome",
		},
		[]string{"outcome"},
	)

	ingestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Time spent extracting, inferring and persisting one PDF",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	pdfSizeBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pdf_size_bytes",
			Help:      "Size of accepted PDF uploads",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 10),
		},
	)

	pdfServedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_served_total",
			Help:      "PDF binaries served by disposition",
		},
		[]string{"disposition"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		ingestTotal, ingestDuration, pdfSizeBytes, pdfServedTotal,
		httpRequestDuration, httpRequestsTotal,
	)
}

// ObserveIngest records one ingestion attempt.
func ObserveIngest(outcome string, elapsed time.Duration) {
	ingestTotal.WithLabelValues(outcome).Inc()
	ingestDuration.Observe(elapsed.Seconds())
}

// ObservePDFSize records the size of an accepted upload.
func ObservePDFSize(size int64) {
	if size < 0 {
		size = 0
	}
	pdfSizeBytes.Observe(float64(size))
}

// IncPDFServed counts one streamed PDF, disposition being "inline" or "attachment".
func IncPDFServed(disposition string) {
	pdfServedTotal.WithLabelValues(disposition).Inc()
}

// Middleware records HTTP request duration and count labelled by route pattern.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
