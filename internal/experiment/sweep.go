package experiment

import (
	"context"
	"runtime"

	"github.com/san-kum/mathviz/internal/project"
	"golang.org/x/sync/errgroup"
)

// Sweep is a grid of run configurations. Each configuration owns its engine;
// paths within one run are never split across goroutines.
type Sweep struct {
	Project     string `yaml:"project"`
	SampleSizes []int  `yaml:"sample_sizes"`
	MaxSteps    []int  `yaml:"max_steps"`
	Repeats     int    `yaml:"repeats"`
	SeedStart   int64  `yaml:"seed_start"`
}

// Configs expands the grid. The i-th configuration gets seed SeedStart+i.
func (s Sweep) Configs() []Config {
	repeats := max(s.Repeats, 1)
	var out []Config
	for _, steps := range s.MaxSteps {
		for _, size := range s.SampleSizes {
			for r := 0; r < repeats; r++ {
				out = append(out, Config{
					Project:    s.Project,
					MaxSteps:   steps,
					SampleSize: size,
					Seed:       s.SeedStart + int64(len(out)),
				})
			}
		}
	}
	return out
}

// Ensemble repeats cfg n times with consecutive seeds.
func Ensemble(cfg Config, n int, seedStart int64) []Config {
	out := make([]Config, n)
	for i := range out {
		out[i] = cfg
		out[i].Seed = seedStart + int64(i)
	}
	return out
}

// RunAll runs configs concurrently, at most limit at a time (0 means
// GOMAXPROCS). Results keep the order of configs. The first failure cancels
// the remaining runs.
func RunAll(ctx context.Context, reg *project.Registry, configs []Config, limit int, opts ...Option) ([]*Result, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(configs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, cfg := range configs {
		g.Go(func() error {
			exp, err := New(reg, cfg, opts...)
			if err != nil {
				return err
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Best returns the result minimizing score, or nil for no results.
func Best(results []*Result, score func(*Result) float64) *Result {
	var best *Result
	bestScore := 0.0
	for _, r := range results {
		if r == nil {
			continue
		}
		if s := score(r); best == nil || s < bestScore {
			best, bestScore = r, s
		}
	}
	return best
}
