package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the server's Prometheus collectors on a private registry,
// so multiple servers in one process never collide on registration.
type Metrics struct {
	registry            *prometheus.Registry
	playthroughsStarted prometheus.Counter
	advances            *prometheus.CounterVec
	validations         prometheus.Counter
	requestDuration     *prometheus.HistogramVec
}

// NewMetrics creates and registers the server's collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		playthroughsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fable_playthroughs_started_total",
			Help: "Total number of playthroughs created",
		}),
		advances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fable_advances_total",
			Help: "Total number of advance requests by result",
		}, []string{"result"}),
		validations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fable_validations_total",
			Help: "Total number of validation runs",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "fable_http_request_duration_seconds",
			Help: "HTTP request latency",
		}, []string{"method"}),
	}
	m.registry.MustRegister(m.playthroughsStarted, m.advances, m.validations, m.requestDuration)
	return m
}
