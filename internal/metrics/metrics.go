// Package metrics exposes prometheus instrumentation for the API server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	syncsTotal      prometheus.Counter
}

// New registers the server's collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "studybee_http_requests_total",
			Help: "HTTP requests processed, by endpoint and status.",
		}, []string{"endpoint", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studybee_http_request_duration_seconds",
			Help:    "HTTP request latency, by endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		syncsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "studybee_stats_syncs_total",
			Help: "Accepted stats sync requests.",
		}),
	}
}

func (m *Metrics) IncRequestsTotal(endpoint, status string) {
	m.requestsTotal.WithLabelValues(endpoint, status).Inc()
}

func (m *Metrics) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metrics) IncSyncsTotal() {
	m.syncsTotal.Inc()
}
