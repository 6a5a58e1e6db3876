package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics shared across the application.
// Component-specific metrics live next to their component.
type Metrics struct {
	LoginsTotal     *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
	SweepEvictions  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all shared Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		LoginsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nidbridge_logins_total",
			Help: "Local login attempts partitioned by outcome",
		}, []string{"outcome"}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "nidbridge_active_sessions",
			Help: "Current number of unexpired local sessions",
		}),
		SweepEvictions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nidbridge_sweep_evictions_total",
			Help: "Expired records removed by the background sweeper per store",
		}, []string{"store"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nidbridge_http_request_duration_seconds",
			Help:    "Inbound HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
