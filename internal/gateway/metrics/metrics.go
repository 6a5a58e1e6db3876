package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for provider calls.
type Metrics struct {
	CallsTotal   *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec
}

// New creates and registers the gateway metrics.
func New() *Metrics {
	return &Metrics{
		CallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nidbridge_provider_calls_total",
			Help: "Provider calls partitioned by operation and outcome kind",
		}, []string{"operation", "outcome"}),
		CallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nidbridge_provider_call_duration_seconds",
			Help:    "Provider call latency per operation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
	}
}

// Observe records one completed call.
func (m *Metrics) Observe(operation, outcome string, elapsed time.Duration) {
	m.CallsTotal.WithLabelValues(operation, outcome).Inc()
	m.CallDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
