package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/mathviz/internal/walk"
	"gopkg.in/yaml.v3"
)

const (
	DefaultProject    = "random-walk"
	DefaultMaxSteps   = 100
	DefaultSampleSize = 50
	DefaultFPS        = 60
	DefaultStore      = "file"
	DefaultDataDir    = ".mathviz"
	DefaultLogLevel   = "info"
	DefaultTheme      = "cyberpunk"
	DefaultAddr       = "localhost:8080"

	SampleSizeMin     = 1
	SampleSizeMax     = 200
	MaxStepsMin       = 10
	MaxStepsMax       = 500
	MaxStepsIncrement = 10
)

var (
	ErrUnknownPreset = errors.New("config: unknown preset")
	ErrInvalid       = errors.New("config: invalid value")
)

type Config struct {
	Project    string `yaml:"project"`
	MaxSteps   int    `yaml:"max_steps"`
	SampleSize int    `yaml:"sample_size"`
	// Seed 0 means an ambient, time-seeded random source.
	Seed int64 `yaml:"seed"`
	FPS  int   `yaml:"fps"`
	// StepsPerSecond caps playback below the refresh rate; 0 is one step per frame.
	StepsPerSecond int     `yaml:"steps_per_second"`
	ViewScale      float64 `yaml:"view_scale"`
	Store          string  `yaml:"store"`
	DataDir        string  `yaml:"data_dir"`
	LogLevel       string  `yaml:"log_level"`
	Theme          string  `yaml:"theme"`
	Addr           string  `yaml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Project:    DefaultProject,
		MaxSteps:   DefaultMaxSteps,
		SampleSize: DefaultSampleSize,
		FPS:        DefaultFPS,
		Store:      DefaultStore,
		DataDir:    DefaultDataDir,
		LogLevel:   DefaultLogLevel,
		Theme:      DefaultTheme,
		Addr:       DefaultAddr,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.FPS)
	}
	if c.StepsPerSecond < 0 {
		return fmt.Errorf("%w: steps_per_second must not be negative, got %d", ErrInvalid, c.StepsPerSecond)
	}
	if c.ViewScale < 0 {
		return fmt.Errorf("%w: view_scale must not be negative, got %f", ErrInvalid, c.ViewScale)
	}
	switch c.Store {
	case "file", "sqlite":
	default:
		return fmt.Errorf("%w: store must be file or sqlite, got %q", ErrInvalid, c.Store)
	}
	return nil
}

func (c *Config) Params() walk.Params {
	return walk.Params{MaxSteps: c.MaxSteps, SampleSize: c.SampleSize}
}

// ApplyPreset copies the preset's run parameters over c.
func (c *Config) ApplyPreset(project, name string) error {
	p := GetPreset(project, name)
	if p == nil {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets(project))
	}
	c.MaxSteps = p.MaxSteps
	c.SampleSize = p.SampleSize
	if p.Seed != 0 {
		c.Seed = p.Seed
	}
	if p.StepsPerSecond != 0 {
		c.StepsPerSecond = p.StepsPerSecond
	}
	return nil
}

// ClampSampleSize keeps interactive edits inside the control range.
func ClampSampleSize(n int) int {
	return clamp(n, SampleSizeMin, SampleSizeMax)
}

// ClampMaxSteps keeps interactive edits inside the control range.
func ClampMaxSteps(n int) int {
	return clamp(n, MaxStepsMin, MaxStepsMax)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
