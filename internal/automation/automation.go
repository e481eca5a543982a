package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/san-kum/mathviz/internal/config"
	"github.com/san-kum/mathviz/internal/experiment"
	"github.com/san-kum/mathviz/internal/project"
	"github.com/san-kum/mathviz/internal/storage"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. A preset is applied first; explicit fields
// override it.
type ScenarioStep struct {
	Project    string `yaml:"project"`
	Preset     string `yaml:"preset"`
	MaxSteps   int    `yaml:"max_steps"`
	SampleSize int    `yaml:"sample_size"`
	Seed       int64  `yaml:"seed"`
	Save       bool   `yaml:"save"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// Config resolves the step against its preset and the defaults.
func (s ScenarioStep) Config() (experiment.Config, error) {
	cfg := config.DefaultConfig()
	if s.Project != "" {
		cfg.Project = s.Project
	}
	if s.Preset != "" {
		if err := cfg.ApplyPreset(cfg.Project, s.Preset); err != nil {
			return experiment.Config{}, err
		}
	}
	if s.MaxSteps != 0 {
		cfg.MaxSteps = s.MaxSteps
	}
	if s.SampleSize != 0 {
		cfg.SampleSize = s.SampleSize
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return experiment.Config{
		Project:    cfg.Project,
		MaxSteps:   cfg.MaxSteps,
		SampleSize: cfg.SampleSize,
		Seed:       cfg.Seed,
	}, nil
}

// Runner executes scenarios. Store may be nil when no step saves.
type Runner struct {
	Registry *project.Registry
	Store    storage.Store
	Log      *slog.Logger
}

// StepResult pairs a run with the id it was saved under, if any.
type StepResult struct {
	*experiment.Result
	RunID string
}

// Run executes all steps in order and stops at the first failure, returning
// the results gathered so far.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	log := r.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("running scenario step", "step", i+1, "of", len(scenario.Steps), "project", cfg.Project)

		exp, err := experiment.New(r.Registry, cfg, experiment.WithLogger(log))
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Result: res}
		if step.Save {
			if r.Store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			sr.RunID, err = r.Store.Save(ctx, res.Report())
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}
	return results, nil
}

// MonteCarloConfig repeats one configuration with consecutive seeds.
type MonteCarloConfig struct {
	Base      experiment.Config
	NumTrials int
	SeedStart int64
	// Tolerance is the relative MSD error a trial may have and still count
	// as agreeing with theory.
	Tolerance float64
}

// MonteCarloResult summarizes the final MSD across trials.
type MonteCarloResult struct {
	Trials     int
	MeanMSD    float64
	StdDevMSD  float64
	Theory     float64
	WithinTol  int
	OutsideTol int
}

func RunMonteCarlo(ctx context.Context, reg *project.Registry, cfg MonteCarloConfig) (*MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one trial, got %d", cfg.NumTrials)
	}
	seedStart := cfg.SeedStart
	if seedStart == 0 {
		seedStart = 1
	}
	results, err := experiment.RunAll(ctx, reg, experiment.Ensemble(cfg.Base, cfg.NumTrials, seedStart), 0)
	if err != nil {
		return nil, err
	}

	finals := make([]float64, len(results))
	out := &MonteCarloResult{Trials: len(results)}
	for i, r := range results {
		finals[i] = r.Summary.Observed
		out.Theory = r.Summary.Theoretical
		if r.Summary.RelError <= cfg.Tolerance {
			out.WithinTol++
		} else {
			out.OutsideTol++
		}
	}
	out.MeanMSD, out.StdDevMSD = stat.MeanStdDev(finals, nil)
	return out, nil
}
