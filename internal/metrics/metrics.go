// Package metrics exports simulation progress as Prometheus metrics.
package metrics

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/san-kum/mathviz/internal/playback"
	"github.com/san-kum/mathviz/internal/walk"
)

type Recorder struct {
	steps       *prometheus.CounterVec
	runs        *prometheus.CounterVec
	msd         *prometheus.GaugeVec
	relError    *prometheus.GaugeVec
	runDuration *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mathviz_steps_total",
			Help: "Simulation ticks applied, by project",
		}, []string{"project"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mathviz_runs_completed_total",
			Help: "Runs that reached their step limit, by project",
		}, []string{"project"}),
		msd: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mathviz_msd_observed",
			Help: "Latest observed mean squared displacement",
		}, []string{"project"}),
		relError: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mathviz_msd_relative_error",
			Help: "Relative error of the latest MSD against theory",
		}, []string{"project"}),
		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mathviz_run_duration_seconds",
			Help:    "Wall time of completed runs",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"project"}),
	}
}

// Observer returns a playback observer that records every step of project.
func (r *Recorder) Observer(project string) playback.Observer {
	return playback.ObserverFunc(func(sim walk.Simulation) {
		r.steps.WithLabelValues(project).Inc()
		r.record(project, sim)
	})
}

// ObserveRun records a run that finished in d.
func (r *Recorder) ObserveRun(project string, sim walk.Simulation, d time.Duration) {
	r.runs.WithLabelValues(project).Inc()
	r.runDuration.WithLabelValues(project).Observe(d.Seconds())
	r.record(project, sim)
}

func (r *Recorder) record(project string, sim walk.Simulation) {
	last := sim.Last()
	r.msd.WithLabelValues(project).Set(last.Observed)
	if last.Theoretical > 0 {
		r.relError.WithLabelValues(project).Set(math.Abs(last.Observed-last.Theoretical) / last.Theoretical)
	}
}
