package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/mathviz/internal/analysis"
	"github.com/san-kum/mathviz/internal/playback"
	"github.com/san-kum/mathviz/internal/project"
	"github.com/san-kum/mathviz/internal/storage"
	"github.com/san-kum/mathviz/internal/walk"
)

type Config struct {
	Project    string `yaml:"project" json:"project"`
	MaxSteps   int    `yaml:"max_steps" json:"max_steps"`
	SampleSize int    `yaml:"sample_size" json:"sample_size"`
	// Seed 0 selects ambient randomness.
	Seed int64 `yaml:"seed" json:"seed"`
}

func (c Config) Params() walk.Params {
	return walk.Params{MaxSteps: c.MaxSteps, SampleSize: c.SampleSize}
}

type Result struct {
	Config   Config
	History  walk.StatHistory
	Summary  analysis.Summary
	Alpha    float64
	Duration time.Duration
}

// Report converts the result into an archivable run report.
func (r *Result) Report() *storage.Report {
	return &storage.Report{
		Project:    r.Config.Project,
		Seed:       r.Config.Seed,
		MaxSteps:   r.Config.MaxSteps,
		SampleSize: r.Config.SampleSize,
		Steps:      r.Summary.Steps,
		History:    r.History,
		Metrics:    r.Summary.Metrics(r.Alpha),
	}
}

type Option func(*Experiment)

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.log = l }
}

// Experiment drives one project run to completion without a display.
type Experiment struct {
	cfg   Config
	sim   walk.Simulation
	queue *playback.FrameQueue
	ctrl  *playback.Controller
	log   *slog.Logger
}

func New(reg *project.Registry, cfg Config, opts ...Option) (*Experiment, error) {
	proj, err := reg.Lookup(cfg.Project)
	if err != nil {
		return nil, err
	}
	e := &Experiment{cfg: cfg, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(e)
	}

	var src walk.Source
	if cfg.Seed != 0 {
		src = walk.NewSource(cfg.Seed)
	}
	e.sim = proj.NewSimulation(src)
	if err := e.sim.Initialize(cfg.Params()); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Project, err)
	}
	e.queue = playback.NewFrameQueue()
	e.ctrl = playback.New(e.sim, e.queue, playback.WithLogger(e.log))
	return e, nil
}

// AddObserver registers o for every step of the run.
func (e *Experiment) AddObserver(o playback.Observer) { e.ctrl.AddObserver(o) }

func (e *Experiment) Simulation() walk.Simulation { return e.sim }

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	if err := playback.RunToCompletion(ctx, e.ctrl, e.queue); err != nil {
		return nil, err
	}
	e.ctrl.Close()

	res := &Result{
		Config:   e.cfg,
		History:  e.sim.History(),
		Summary:  analysis.Summarize(e.sim.History(), e.sim.SquaredDisplacements()),
		Duration: time.Since(start),
	}
	if alpha, _, err := analysis.DiffusionExponent(res.History); err == nil {
		res.Alpha = alpha
	}
	e.log.Debug("experiment finished", "project", e.cfg.Project, "steps", res.Summary.Steps, "elapsed", res.Duration)
	return res, nil
}
