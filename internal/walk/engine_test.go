package walk

import (
	"errors"
	"math"
	"testing"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"single path", Params{MaxSteps: 1, SampleSize: 1}},
		{"default ui", Params{MaxSteps: 100, SampleSize: 50}},
		{"upper ui bound", Params{MaxSteps: 500, SampleSize: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := NewLine(NewSource(1))
			if err := line.Initialize(tt.params); err != nil {
				t.Fatalf("initialize: %v", err)
			}
			paths := line.Paths()
			if len(paths) != tt.params.SampleSize {
				t.Fatalf("expected %d paths, got %d", tt.params.SampleSize, len(paths))
			}
			for i, p := range paths {
				if len(p) != 1 || p[0] != 0 {
					t.Errorf("path %d not at origin: %v", i, p)
				}
			}

			lattice := NewLattice(NewSource(1))
			if err := lattice.Initialize(tt.params); err != nil {
				t.Fatalf("initialize: %v", err)
			}
			for i, p := range lattice.Paths() {
				if len(p) != 1 || p[0] != (Point{}) {
					t.Errorf("lattice path %d not at origin: %v", i, p)
				}
			}

			for _, h := range []StatHistory{line.History(), lattice.History()} {
				if len(h) != 1 || h[0] != (StatSample{}) {
					t.Errorf("expected single zero sample, got %v", h)
				}
			}
		})
	}
}

func TestInitializeRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		field  string
	}{
		{"zero samples", Params{MaxSteps: 10, SampleSize: 0}, "sample_size"},
		{"negative samples", Params{MaxSteps: 10, SampleSize: -3}, "sample_size"},
		{"zero steps", Params{MaxSteps: 0, SampleSize: 5}, "max_steps"},
		{"negative steps", Params{MaxSteps: -1, SampleSize: 5}, "max_steps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewLine(NewSource(1))
			if err := eng.Initialize(Params{MaxSteps: 3, SampleSize: 2}); err != nil {
				t.Fatalf("initialize: %v", err)
			}
			eng.Step()

			err := eng.Initialize(tt.params)
			if !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("expected ErrInvalidParams, got %v", err)
			}
			var pe *ParamError
			if !errors.As(err, &pe) || pe.Field != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}
			if eng.Steps() != 1 || len(eng.Paths()) != 2 {
				t.Error("rejected initialize modified the engine")
			}
		})
	}
}

func TestStepBeforeInitialize(t *testing.T) {
	eng := NewLattice(NewSource(1))
	if eng.Step() {
		t.Error("step on uninitialized engine reported progress")
	}
	if eng.Steps() != 0 || len(eng.History()) != 0 {
		t.Error("uninitialized engine has state")
	}
}

func TestFiveStepScenario(t *testing.T) {
	eng := NewLine(NewSource(7))
	if err := eng.Initialize(Params{MaxSteps: 5, SampleSize: 3}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if !eng.Step() {
			t.Fatalf("step %d was refused", i+1)
		}
	}

	for i, p := range eng.Paths() {
		if len(p) != 6 {
			t.Errorf("path %d has length %d, want 6", i, len(p))
		}
	}

	h := eng.History()
	if len(h) != 6 {
		t.Fatalf("expected 6 samples, got %d", len(h))
	}
	for i, s := range h {
		if s.Step != i {
			t.Errorf("sample %d has step %d", i, s.Step)
		}
		if s.Theoretical != float64(i) {
			t.Errorf("sample %d theoretical = %v, want %d", i, s.Theoretical, i)
		}
	}
}

func TestLockStepAndHistoryLength(t *testing.T) {
	engines := map[string]Simulation{
		"line":    NewLine(NewSource(3)),
		"lattice": NewLattice(NewSource(3)),
	}

	for name, eng := range engines {
		t.Run(name, func(t *testing.T) {
			if err := eng.Initialize(Params{MaxSteps: 40, SampleSize: 17}); err != nil {
				t.Fatal(err)
			}
			for n := 1; n <= 40; n++ {
				eng.Step()
				traces := eng.Traces()
				for i, tr := range traces {
					if len(tr) != n+1 {
						t.Fatalf("after %d steps path %d has length %d", n, i, len(tr))
					}
				}
				h := eng.History()
				if len(h) != n+1 {
					t.Fatalf("after %d steps history has %d samples", n, len(h))
				}
				if h[n].Step != n || h[n].Step <= h[n-1].Step {
					t.Fatalf("history steps not increasing at %d: %v", n, h[n-1:])
				}
			}
		})
	}
}

func TestTerminalIsIdempotent(t *testing.T) {
	eng := NewLattice(NewSource(11))
	if err := eng.Initialize(Params{MaxSteps: 4, SampleSize: 5}); err != nil {
		t.Fatal(err)
	}
	for eng.Step() {
	}
	if !eng.Terminal() {
		t.Fatal("expected terminal state")
	}
	if eng.Steps() != 4 {
		t.Fatalf("expected 4 steps, got %d", eng.Steps())
	}

	paths := eng.Paths()
	history := eng.History()
	for i := 0; i < 10; i++ {
		if eng.Step() {
			t.Fatal("step past max steps reported progress")
		}
	}
	after := eng.Paths()
	for i := range paths {
		if len(after[i]) != len(paths[i]) || after[i][len(after[i])-1] != paths[i][len(paths[i])-1] {
			t.Fatalf("path %d changed after terminal", i)
		}
	}
	if len(eng.History()) != len(history) {
		t.Fatal("history grew after terminal")
	}
}

func TestLineMovesAreUnit(t *testing.T) {
	eng := NewLine(NewSource(5))
	if err := eng.Initialize(Params{MaxSteps: 200, SampleSize: 30}); err != nil {
		t.Fatal(err)
	}
	for eng.Step() {
	}
	for i, p := range eng.Paths() {
		for s := 1; s < len(p); s++ {
			d := p[s] - p[s-1]
			if d != 1 && d != -1 {
				t.Fatalf("path %d step %d moved by %d", i, s, d)
			}
		}
	}
}

func TestLatticeMovesAreAxisAligned(t *testing.T) {
	eng := NewLattice(NewSource(5))
	if err := eng.Initialize(Params{MaxSteps: 200, SampleSize: 30}); err != nil {
		t.Fatal(err)
	}
	for eng.Step() {
	}
	seen := map[Point]int{}
	for i, p := range eng.Paths() {
		for s := 1; s < len(p); s++ {
			d := Point{p[s].X - p[s-1].X, p[s].Y - p[s-1].Y}
			switch d {
			case Point{1, 0}, Point{-1, 0}, Point{0, 1}, Point{0, -1}:
				seen[d]++
			default:
				t.Fatalf("path %d step %d moved by %v", i, s, d)
			}
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected all four directions, saw %v", seen)
	}
}

func TestObservedMatchesPathState(t *testing.T) {
	eng := NewLattice(NewSource(9))
	if err := eng.Initialize(Params{MaxSteps: 25, SampleSize: 12}); err != nil {
		t.Fatal(err)
	}
	for eng.Step() {
		sum := 0.0
		for _, p := range eng.Positions() {
			sum += float64(p.X*p.X + p.Y*p.Y)
		}
		want := sum / 12
		if got := eng.History().Last().Observed; math.Abs(got-want) > 1e-9 {
			t.Fatalf("observed %v, want %v", got, want)
		}
	}
}

func TestMSDConvergesToTheory(t *testing.T) {
	const (
		samples = 10000
		steps   = 100
	)
	engines := map[string]Simulation{
		"line":    NewLine(NewSource(2024)),
		"lattice": NewLattice(NewSource(2024)),
	}

	for name, eng := range engines {
		t.Run(name, func(t *testing.T) {
			if err := eng.Initialize(Params{MaxSteps: steps, SampleSize: samples}); err != nil {
				t.Fatal(err)
			}
			for eng.Step() {
			}
			last := eng.History().Last()
			if last.Theoretical != steps {
				t.Fatalf("theoretical = %v, want %d", last.Theoretical, steps)
			}
			if rel := math.Abs(last.Observed-last.Theoretical) / last.Theoretical; rel > 0.15 {
				t.Errorf("observed MSD %.2f deviates %.1f%% from %d", last.Observed, rel*100, steps)
			}
		})
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	run := func() StatHistory {
		eng := NewLine(NewSource(99))
		if err := eng.Initialize(Params{MaxSteps: 30, SampleSize: 8}); err != nil {
			t.Fatal(err)
		}
		for eng.Step() {
		}
		return eng.History()
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	eng := NewLine(NewSource(1))
	if err := eng.Initialize(Params{MaxSteps: 3, SampleSize: 2}); err != nil {
		t.Fatal(err)
	}
	eng.Step()

	paths := eng.Paths()
	paths[0][0] = 42
	if eng.Paths()[0][0] != 0 {
		t.Error("Paths exposed internal storage")
	}

	h := eng.History()
	h[0].Observed = 42
	if eng.History()[0].Observed != 0 {
		t.Error("History exposed internal storage")
	}
}

func TestLineCoordUsesTimeAxis(t *testing.T) {
	eng := NewLine(NewSource(1))
	if err := eng.Initialize(Params{MaxSteps: 3, SampleSize: 1}); err != nil {
		t.Fatal(err)
	}
	eng.Step()
	eng.Step()
	tr := eng.Traces()[0]
	for i, c := range tr {
		if c.X != float64(i) {
			t.Errorf("coord %d has x=%v", i, c.X)
		}
	}
	if h := eng.Heads()[0]; h.X != 2 {
		t.Errorf("head x = %v, want 2", h.X)
	}
}

func TestLastMatchesHistory(t *testing.T) {
	eng := NewLattice(NewSource(3))
	if got := eng.Last(); got != (StatSample{}) {
		t.Errorf("uninitialized Last = %+v", got)
	}
	if err := eng.Initialize(Params{MaxSteps: 20, SampleSize: 8}); err != nil {
		t.Fatal(err)
	}
	for eng.Step() {
		if got, want := eng.Last(), eng.History().Last(); got != want {
			t.Fatalf("step %d: Last = %+v, want %+v", eng.Steps(), got, want)
		}
	}
}

func TestInitializeHugeMaxSteps(t *testing.T) {
	eng := NewLine(NewSource(1))
	if err := eng.Initialize(Params{MaxSteps: math.MaxInt, SampleSize: 1}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !eng.Step() {
		t.Fatal("first step reported no progress")
	}
	if eng.Terminal() {
		t.Error("run terminal after one step")
	}
	if len(eng.Paths()[0]) != 2 {
		t.Errorf("path length = %d, want 2", len(eng.Paths()[0]))
	}
}
