package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the bridge metrics on its own registry
type Recorder struct {
	registry *prometheus.Registry

	// RunsTotal counts finished bridge runs by terminal status
	RunsTotal *prometheus.CounterVec

	// PollAttempts counts transfer observer polls by phase and result
	PollAttempts *prometheus.CounterVec

	// RunDuration tracks bridge run time
	RunDuration prometheus.Histogram

	// ActiveRuns tracks runs in progress
	ActiveRuns prometheus.Gauge
}

// New creates a recorder with a fresh registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_runs_total",
				Help: "Total number of bridge runs by terminal status",
			},
			[]string{"status"},
		),
		PollAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_poll_attempts_total",
				Help: "Total number of transfer observer polls",
			},
			[]string{"phase", "result"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bridge_run_duration_seconds",
				Help:    "Bridge run duration in seconds",
				Buckets: []float64{1, 5, 10, 20, 40, 60, 120, 300},
			},
		),
		ActiveRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bridge_active_runs",
				Help: "Number of bridge runs in progress",
			},
		),
	}

	r.registry.MustRegister(r.RunsTotal, r.PollAttempts, r.RunDuration, r.ActiveRuns)
	return r
}

// RunStarted marks a run as in progress
func (r *Recorder) RunStarted() {
	r.ActiveRuns.Inc()
}

// RunFinished records the terminal status and duration of a run
func (r *Recorder) RunFinished(status string, d time.Duration) {
	r.ActiveRuns.Dec()
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(d.Seconds())
}

// PollAttempt records one observer poll; result is match, miss or error
func (r *Recorder) PollAttempt(phase, result string) {
	r.PollAttempts.WithLabelValues(phase, result).Inc()
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
