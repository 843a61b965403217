// Package metrics records Sellsy API call metrics for Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/s0up4200/sellsyctl/sellsy"
)

const namespace = "sellsy"

// Recorder counts and times API calls. It implements sellsy.Observer and is
// safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ sellsy.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder backed by its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_calls_total",
			Help:      "Total number of Sellsy API calls by outcome.",
		}, []string{"method", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_call_duration_seconds",
			Help:      "Duration of Sellsy API calls in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// ObserveCall records one finished call.
func (r *Recorder) ObserveCall(method string, outcome sellsy.Outcome, elapsed time.Duration) {
	r.calls.WithLabelValues(method, string(outcome)).Inc()
	r.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
