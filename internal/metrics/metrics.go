// Package metrics exposes Prometheus collectors for the receipt processor.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "receipts",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "receipts",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10), // 0.5ms to ~250ms
		},
		[]string{"method", "path"},
	)

	receiptsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "receipts",
			Name:      "processed_total",
			Help:      "Receipts submitted, by outcome.",
		},
		[]string{"outcome"},
	)

	pointsAwarded = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "receipts",
			Name:      "points_awarded",
			Help:      "Points computed per points lookup.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 8), // 8 to 1024
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		receiptsProcessed,
		pointsAwarded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Outcomes for RecordReceipt.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// RecordReceipt counts a submission by outcome.
func RecordReceipt(outcome string) {
	receiptsProcessed.WithLabelValues(outcome).Inc()
}

// ObservePoints records a computed points total.
func ObservePoints(points int) {
	pointsAwarded.Observe(float64(points))
}
