// Package metrics holds the Prometheus collectors for report generation.
// Collectors register with the default registry at init and are exposed by
// the server's /metrics endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure reasons.
const (
	ReasonValidation = "validation"
	ReasonModel      = "model"
)

var (
	ReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "reportgen_reports_total", Help: "Reports generated by type and extraction method"},
		[]string{"type", "extraction"},
	)
	GenerationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "reportgen_generation_failures_total", Help: "Report generations that returned an error"},
		[]string{"type", "reason"},
	)
	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reportgen_generation_duration_seconds",
			Help:    "Wall time of successful report generations, model call included",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(ReportsTotal, GenerationFailuresTotal, GenerationDuration)
}

// ObserveReport records a successful generation.
func ObserveReport(reportType, extraction string, elapsed time.Duration) {
	ReportsTotal.WithLabelValues(reportType, extraction).Inc()
	GenerationDuration.WithLabelValues(reportType).Observe(elapsed.Seconds())
}

// ObserveFailure records a failed generation.
func ObserveFailure(reportType, reason string) {
	GenerationFailuresTotal.WithLabelValues(reportType, reason).Inc()
}
