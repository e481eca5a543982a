package walk

import (
	"gonum.org/v1/gonum/stat"
)

// Simulation is the dimension-agnostic view of an engine used by the
// playback controller and the front ends.
type Simulation interface {
	Initialize(p Params) error
	Step() bool
	Terminal() bool
	Steps() int
	Params() Params
	Dim() int
	History() StatHistory
	Last() StatSample
	Traces() [][]Coord
	Heads() []Coord
	SquaredDisplacements() []float64
}

// maxPrealloc bounds the path capacity reserved up front; longer runs grow
// by append.
const maxPrealloc = 1024

// Engine advances a batch of independent walks driven by one Process.
type Engine[P any] struct {
	proc    Process[P]
	src     Source
	params  Params
	paths   [][]P
	history StatHistory
	next    []P
	sq      []float64
}

func New[P any](proc Process[P], src Source) *Engine[P] {
	if src == nil {
		src = NewAmbientSource()
	}
	return &Engine[P]{proc: proc, src: src}
}

// NewLine returns an engine for the 1D walk.
func NewLine(src Source) *Engine[int] { return New[int](Line{}, src) }

// NewLattice returns an engine for the 2D lattice walk.
func NewLattice(src Source) *Engine[Point] { return New[Point](Lattice{}, src) }

// Initialize discards any previous run and places SampleSize paths at the
// origin. Invalid parameters leave the engine untouched.
func (e *Engine[P]) Initialize(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	origin := e.proc.Origin()
	paths := make([][]P, p.SampleSize)
	for i := range paths {
		path := make([]P, 1, min(p.MaxSteps, maxPrealloc)+1)
		path[0] = origin
		paths[i] = path
	}
	e.params = p
	e.paths = paths
	e.history = StatHistory{{Step: 0, Observed: 0, Theoretical: 0}}
	e.next = make([]P, p.SampleSize)
	e.sq = make([]float64, p.SampleSize)
	return nil
}

// Step applies one tick to every path and records the new statistic.
// It reports false, changing nothing, once MaxSteps moves have been taken
// or before the first Initialize.
func (e *Engine[P]) Step() bool {
	if len(e.paths) == 0 || e.Terminal() {
		return false
	}
	for i, path := range e.paths {
		e.next[i] = e.proc.Move(path[len(path)-1], e.src)
		e.sq[i] = e.proc.SquaredDisplacement(e.next[i])
	}
	for i := range e.paths {
		e.paths[i] = append(e.paths[i], e.next[i])
	}
	n := len(e.paths[0]) - 1
	e.history = append(e.history, StatSample{
		Step:        n,
		Observed:    stat.Mean(e.sq, nil),
		Theoretical: e.proc.Theoretical(n),
	})
	return true
}

func (e *Engine[P]) Terminal() bool {
	return len(e.paths) > 0 && len(e.paths[0]) > e.params.MaxSteps
}

// Steps is the number of ticks applied since Initialize.
func (e *Engine[P]) Steps() int {
	if len(e.paths) == 0 {
		return 0
	}
	return len(e.paths[0]) - 1
}

func (e *Engine[P]) Params() Params { return e.params }
func (e *Engine[P]) Dim() int       { return e.proc.Dim() }
func (e *Engine[P]) Process() Process[P] {
	return e.proc
}

// Paths returns a copy of every path.
func (e *Engine[P]) Paths() [][]P {
	out := make([][]P, len(e.paths))
	for i, path := range e.paths {
		out[i] = append([]P(nil), path...)
	}
	return out
}

// Last returns the latest statistic without copying the history. It is the
// zero sample before the first Initialize.
func (e *Engine[P]) Last() StatSample {
	if len(e.history) == 0 {
		return StatSample{}
	}
	return e.history[len(e.history)-1]
}

func (e *Engine[P]) History() StatHistory {
	return append(StatHistory(nil), e.history...)
}

// Traces maps every path into plotting coordinates.
func (e *Engine[P]) Traces() [][]Coord {
	out := make([][]Coord, len(e.paths))
	for i, path := range e.paths {
		trace := make([]Coord, len(path))
		for t, p := range path {
			trace[t] = e.proc.Coord(t, p)
		}
		out[i] = trace
	}
	return out
}

// Heads returns the current position of every path in plotting coordinates.
func (e *Engine[P]) Heads() []Coord {
	out := make([]Coord, len(e.paths))
	for i, path := range e.paths {
		last := len(path) - 1
		out[i] = e.proc.Coord(last, path[last])
	}
	return out
}

// Positions returns the current position of every path.
func (e *Engine[P]) Positions() []P {
	out := make([]P, len(e.paths))
	for i, path := range e.paths {
		out[i] = path[len(path)-1]
	}
	return out
}

// SquaredDisplacements returns each path's current squared distance from the
// origin.
func (e *Engine[P]) SquaredDisplacements() []float64 {
	out := make([]float64, len(e.paths))
	for i, path := range e.paths {
		out[i] = e.proc.SquaredDisplacement(path[len(path)-1])
	}
	return out
}
