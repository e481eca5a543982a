package project

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/mathviz/internal/walk"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		id  string
		dim int
	}{
		{"random-walk", 2},
		{"random-walk-1d", 1},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, err := r.Lookup(tt.id)
			if err != nil {
				t.Fatalf("lookup: %v", err)
			}
			if p.Dim != tt.dim {
				t.Errorf("expected dim %d, got %d", tt.dim, p.Dim)
			}
			if !strings.HasPrefix(p.Docs, "# ") {
				t.Errorf("docs not embedded for %s", tt.id)
			}
			sim := p.NewSimulation(walk.NewSource(1))
			if sim.Dim() != tt.dim {
				t.Errorf("simulation dim %d, want %d", sim.Dim(), tt.dim)
			}
		})
	}
}

func TestLookupNotFound(t *testing.T) {
	_, err := NewRegistry().Lookup("random-walk-3d")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrder(t *testing.T) {
	list := NewRegistry().List()
	if len(list) != 2 || list[0].ID != "random-walk" || list[1].ID != "random-walk-1d" {
		t.Errorf("unexpected listing: %v", list)
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&Project{ID: "random-walk", Title: "Replaced", Dim: 2})
	if len(r.List()) != 2 {
		t.Fatalf("replacement added a new entry")
	}
	p, _ := r.Lookup("random-walk")
	if p.Title != "Replaced" {
		t.Errorf("expected replaced project, got %q", p.Title)
	}
}

func TestViewScale(t *testing.T) {
	r := NewRegistry()
	line, _ := r.Lookup("random-walk-1d")
	lattice, _ := r.Lookup("random-walk")

	if got := line.ViewScale(100); math.Abs(got-40) > 1e-9 {
		t.Errorf("1D range = %f, want 40", got)
	}
	if got := 2 * lattice.ViewScale(100); math.Abs(got-60) > 1e-9 {
		t.Errorf("2D view size = %f, want 60", got)
	}
}
