package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for fingerprint capture.
type Metrics struct {
	CapturesTotal *prometheus.CounterVec
	BatchDuration prometheus.Histogram
}

// New creates and registers the capture metrics.
func New() *Metrics {
	return &Metrics{
		CapturesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nidbridge_captures_total",
			Help: "Single-finger capture attempts partitioned by outcome",
		}, []string{"outcome"}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "nidbridge_capture_batch_duration_seconds",
			Help:    "Wall-clock duration of whole capture batches",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
	}
}
