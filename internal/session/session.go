// Package session hosts one project's simulation for an interactive front
// end: the playback controller, its frame queue and the optional pacer.
package session

import (
	"io"
	"log/slog"

	"github.com/san-kum/mathviz/internal/analysis"
	"github.com/san-kum/mathviz/internal/config"
	"github.com/san-kum/mathviz/internal/metrics"
	"github.com/san-kum/mathviz/internal/playback"
	"github.com/san-kum/mathviz/internal/project"
	"github.com/san-kum/mathviz/internal/render"
	"github.com/san-kum/mathviz/internal/storage"
	"github.com/san-kum/mathviz/internal/walk"
)

type Options struct {
	Params         walk.Params
	StepsPerSecond int
	// Seed 0 selects ambient randomness.
	Seed int64
	// ViewScale multiplies the project's plot extent; 0 means 1.
	ViewScale float64
	Log       *slog.Logger
	Metrics   *metrics.Recorder
}

type Session struct {
	proj  *project.Project
	seed  int64
	zoom  float64
	sim   walk.Simulation
	ctrl  *playback.Controller
	queue *playback.FrameQueue
	pacer *playback.Pacer
}

// New initializes the project's simulation with opts.Params clamped to the
// interactive control ranges.
func New(proj *project.Project, opts Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	params := walk.Params{
		MaxSteps:   config.ClampMaxSteps(opts.Params.MaxSteps),
		SampleSize: config.ClampSampleSize(opts.Params.SampleSize),
	}

	var src walk.Source
	if opts.Seed != 0 {
		src = walk.NewSource(opts.Seed)
	}
	sim := proj.NewSimulation(src)
	if err := sim.Initialize(params); err != nil {
		return nil, err
	}
	zoom := opts.ViewScale
	if zoom <= 0 {
		zoom = 1
	}
	queue := playback.NewFrameQueue()
	ctrl := playback.New(sim, queue, playback.WithLogger(log.With("project", proj.ID)))
	if opts.Metrics != nil {
		ctrl.AddObserver(opts.Metrics.Observer(proj.ID))
	}
	return &Session{
		proj:  proj,
		seed:  opts.Seed,
		zoom:  zoom,
		sim:   sim,
		ctrl:  ctrl,
		queue: queue,
		pacer: playback.NewPacer(opts.StepsPerSecond),
	}, nil
}

func (s *Session) Project() *project.Project        { return s.proj }
func (s *Session) Simulation() walk.Simulation      { return s.sim }
func (s *Session) Controller() *playback.Controller { return s.ctrl }

// Frame is called once per display refresh. It runs the pending frame when
// the pacer allows and reports whether one ran.
func (s *Session) Frame() bool {
	if s.queue.Pending() == 0 || !s.pacer.Ready() {
		return false
	}
	return s.queue.Flush() > 0
}

func (s *Session) Toggle()        { s.ctrl.Toggle() }
func (s *Session) StepOnce() bool { return s.ctrl.StepOnce() }
func (s *Session) Reset() error   { return s.ctrl.Reset() }
func (s *Session) Playing() bool  { return s.ctrl.Playing() }
func (s *Session) Closed() bool   { return s.ctrl.Closed() }
func (s *Session) Close()         { s.ctrl.Close() }

// Adjust changes the run parameters within the control ranges, which stops
// playback and starts a new run. Edits that clamp to the current values
// change nothing.
func (s *Session) Adjust(dSamples, dSteps int) error {
	cur := s.sim.Params()
	next := walk.Params{
		MaxSteps:   config.ClampMaxSteps(cur.MaxSteps + dSteps),
		SampleSize: config.ClampSampleSize(cur.SampleSize + dSamples),
	}
	if next == cur {
		return nil
	}
	return s.ctrl.Configure(next)
}

// View is the plotting window for the current parameters.
func (s *Session) View() render.View {
	p := s.sim.Params()
	scale := s.proj.ViewScale(p.MaxSteps) * s.zoom
	if s.sim.Dim() == 1 {
		return render.LineView(p.MaxSteps, scale)
	}
	return render.SquareView(scale)
}

// Report snapshots the run for archiving.
func (s *Session) Report() *storage.Report {
	r := storage.NewReport(s.proj.ID, s.seed, s.sim)
	sum := analysis.Summarize(r.History, s.sim.SquaredDisplacements())
	// Too early in the run for a fit; archive alpha as 0.
	alpha, _, err := analysis.DiffusionExponent(r.History)
	if err != nil {
		alpha = 0
	}
	r.Metrics = sum.Metrics(alpha)
	return r
}
