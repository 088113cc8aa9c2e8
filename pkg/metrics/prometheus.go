package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal   *prometheus.CounterVec
	actors      *prometheus.HistogramVec
	positions   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a recorder on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		runsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nycalc_runs_total",
				Help: "Total number of completed backtest runs",
			},
			[]string{"mode"},
		),
		actors: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nycalc_run_actors",
				Help:    "Actors evaluated per run",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"mode"},
		),
		positions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nycalc_positions_total",
				Help: "Positions left open or executed at the end of runs",
			},
			[]string{"mode", "state"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nycalc_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nycalc_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRun counts a finished run and its actor count.
func (r *Recorder) RecordRun(mode string, actors int) {
	r.runsTotal.WithLabelValues(mode).Inc()
	r.actors.WithLabelValues(mode).Observe(float64(actors))
}

func (r *Recorder) RecordPositions(mode string, opened, executed int) {
	r.positions.WithLabelValues(mode, "open").Add(float64(opened))
	r.positions.WithLabelValues(mode, "executed").Add(float64(executed))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
