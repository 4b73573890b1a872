package devserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reorder outcome labels
const (
	outcomeCommitted = "committed"
	outcomeConflict  = "conflict"
	outcomeInvalid   = "invalid"
	outcomeError     = "error"
)

// Metrics holds the Prometheus collectors of one server
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ReorderOutcomes     *prometheus.CounterVec
	ReorderItems        prometheus.Histogram
}

// NewMetrics registers the server collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otakulist_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "otakulist_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		ReorderOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "otakulist_reorder_outcomes_total",
				Help: "Reorder submissions by outcome",
			},
			[]string{"outcome"},
		),
		ReorderItems: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "otakulist_reorder_items",
				Help:    "Number of items carried by committed reorder submissions",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
	}
}

// RecordReorder counts one reorder submission
func (m *Metrics) RecordReorder(outcome string) {
	m.ReorderOutcomes.WithLabelValues(outcome).Inc()
}
