package playback

import (
	"context"
	"io"
	"log/slog"

	"github.com/san-kum/mathviz/internal/walk"
)

type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// Observer is notified after every tick the controller applies.
type Observer interface {
	OnStep(sim walk.Simulation)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(sim walk.Simulation)

func (f ObserverFunc) OnStep(sim walk.Simulation) { f(sim) }

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

type Controller struct {
	sim       walk.Simulation
	sched     Scheduler
	log       *slog.Logger
	observers []Observer
	state     State
	frame     FrameID
	armed     bool
	closed    bool
}

func New(sim walk.Simulation, sched Scheduler, opts ...Option) *Controller {
	c := &Controller{
		sim:   sim,
		sched: sched,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) AddObserver(o Observer) { c.observers = append(c.observers, o) }

func (c *Controller) Simulation() walk.Simulation { return c.sim }
func (c *Controller) State() State                { return c.state }
func (c *Controller) Playing() bool               { return c.state == Playing }
func (c *Controller) Closed() bool                { return c.closed }

// Start moves to Playing and arms the next frame. It is a no-op when already
// playing or after Close.
func (c *Controller) Start() {
	if c.closed || c.state == Playing {
		return
	}
	c.state = Playing
	c.log.Debug("playback started", "step", c.sim.Steps())
	c.arm()
}

// Pause moves to Stopped. No Step runs after Pause returns.
func (c *Controller) Pause() {
	if c.state != Playing {
		return
	}
	c.stop()
	c.log.Debug("playback paused", "step", c.sim.Steps())
}

func (c *Controller) Toggle() {
	if c.state == Playing {
		c.Pause()
		return
	}
	c.Start()
}

// Reset stops playback and re-initializes the simulation with its current
// parameters.
func (c *Controller) Reset() error {
	return c.Configure(c.sim.Params())
}

// Configure stops playback and re-initializes the simulation with p.
func (c *Controller) Configure(p walk.Params) error {
	c.stop()
	if err := c.sim.Initialize(p); err != nil {
		return err
	}
	c.log.Debug("simulation reset", "max_steps", p.MaxSteps, "sample_size", p.SampleSize)
	return nil
}

// StepOnce applies a single tick outside the frame loop. Reaching the step
// limit stops playback.
func (c *Controller) StepOnce() bool {
	if c.closed {
		return false
	}
	return c.advance()
}

// Close cancels any pending frame and disables the controller. Hosts call it
// when the view that owns the simulation goes away.
func (c *Controller) Close() {
	c.stop()
	c.closed = true
}

func (c *Controller) advance() bool {
	if !c.sim.Step() {
		if c.state == Playing {
			c.stop()
			c.log.Debug("playback finished", "step", c.sim.Steps())
		}
		return false
	}
	for _, o := range c.observers {
		o.OnStep(c.sim)
	}
	return true
}

func (c *Controller) tick(id FrameID) {
	if !c.armed || id != c.frame {
		return
	}
	c.armed = false
	if c.closed || c.state != Playing {
		return
	}
	if c.advance() && c.state == Playing {
		c.arm()
	}
}

func (c *Controller) arm() {
	var id FrameID
	id = c.sched.RequestFrame(func() { c.tick(id) })
	c.frame = id
	c.armed = true
}

func (c *Controller) stop() {
	c.state = Stopped
	if c.armed {
		c.sched.CancelFrame(c.frame)
		c.armed = false
	}
}

// RunToCompletion plays the controller until the simulation reaches its step
// limit, draining q as a refresh loop would.
func RunToCompletion(ctx context.Context, c *Controller, q *FrameQueue) error {
	c.Start()
	for c.Playing() {
		select {
		case <-ctx.Done():
			c.Pause()
			return ctx.Err()
		default:
		}
		if q.Flush() == 0 {
			break
		}
	}
	return nil
}
