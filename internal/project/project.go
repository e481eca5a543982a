package project

import (
	"embed"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/mathviz/internal/walk"
)

//go:embed docs/*.md
var docsFS embed.FS

// Project pairs a walk engine with its presentation metadata.
type Project struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Dim         int
	// Docs is the markdown explainer shown next to the simulation.
	Docs string

	newSim func(walk.Source) walk.Simulation
}

// NewSimulation returns a fresh, uninitialized engine. A nil source selects
// ambient randomness.
func (p *Project) NewSimulation(src walk.Source) walk.Simulation {
	return p.newSim(src)
}

// ViewScale is the half-extent of the plotted value range for a run of
// maxSteps: 4√n for the line walk's position axis, and half of a 6√n wide
// square for the lattice walk.
func (p *Project) ViewScale(maxSteps int) float64 {
	root := math.Sqrt(float64(maxSteps))
	if p.Dim == 1 {
		return 4 * root
	}
	return 3 * root
}

type Registry struct {
	projects map[string]*Project
	order    []string
}

func NewRegistry() *Registry {
	r := &Registry{projects: make(map[string]*Project)}
	r.Register(&Project{
		ID:          "random-walk",
		Title:       "2D Random Walk",
		Description: "Discrete model of Brownian motion. Watch many particles diffuse from the origin over time.",
		Tags:        []string{"Probability", "Diffusion", "Stochastic Processes"},
		Dim:         2,
		Docs:        mustDoc("random-walk"),
		newSim:      func(src walk.Source) walk.Simulation { return walk.NewLattice(src) },
	})
	r.Register(&Project{
		ID:          "random-walk-1d",
		Title:       "1D Random Walk",
		Description: "The simplest random process. Follow particles stepping left or right along a line.",
		Tags:        []string{"Probability", "1D", "Diffusion"},
		Dim:         1,
		Docs:        mustDoc("random-walk-1d"),
		newSim:      func(src walk.Source) walk.Simulation { return walk.NewLine(src) },
	})
	return r
}

// Register adds p, replacing any project with the same id. Listing order is
// registration order.
func (r *Registry) Register(p *Project) {
	if _, ok := r.projects[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.projects[p.ID] = p
}

func (r *Registry) Lookup(id string) (*Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

func (r *Registry) List() []*Project {
	out := make([]*Project, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.projects[id])
	}
	return out
}

func (r *Registry) IDs() []string {
	ids := append([]string(nil), r.order...)
	sort.Strings(ids)
	return ids
}

func mustDoc(id string) string {
	data, err := docsFS.ReadFile("docs/" + id + ".md")
	if err != nil {
		panic(err)
	}
	return string(data)
}
