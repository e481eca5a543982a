package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mathviz/internal/walk"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Project != "random-walk" {
		t.Errorf("expected project random-walk, got %s", cfg.Project)
	}
	if cfg.MaxSteps != 100 || cfg.SampleSize != 50 {
		t.Errorf("unexpected defaults: %d steps, %d samples", cfg.MaxSteps, cfg.SampleSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero samples", func(c *Config) { c.SampleSize = 0 }, walk.ErrInvalidParams},
		{"zero steps", func(c *Config) { c.MaxSteps = 0 }, walk.ErrInvalidParams},
		{"zero fps", func(c *Config) { c.FPS = 0 }, ErrInvalid},
		{"negative rate", func(c *Config) { c.StepsPerSecond = -1 }, ErrInvalid},
		{"negative scale", func(c *Config) { c.ViewScale = -2 }, ErrInvalid},
		{"unknown store", func(c *Config) { c.Store = "redis" }, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mathviz.yaml")
	cfg := DefaultConfig()
	cfg.Project = "random-walk-1d"
	cfg.MaxSteps = 250
	cfg.Seed = 7
	cfg.Store = "sqlite"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("sample_size: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SampleSize != 12 || cfg.MaxSteps != DefaultMaxSteps || cfg.FPS != DefaultFPS {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("max_steps: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, walk.ErrInvalidParams) {
		t.Errorf("expected invalid params, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("random-walk", "quick")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.MaxSteps != 50 || p.SampleSize != 20 {
		t.Errorf("unexpected quick preset: %+v", p)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("random-walk", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "quick") != nil {
		t.Error("expected nil for nonexistent project")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("random-walk-1d")
	if len(presets) == 0 {
		t.Fatal("expected presets for random-walk-1d")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent project")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("random-walk", "convergence"); err != nil {
		t.Fatal(err)
	}
	if cfg.SampleSize != 10000 || cfg.Seed != 42 {
		t.Errorf("preset not applied: %+v", cfg)
	}

	if err := cfg.ApplyPreset("random-walk", "missing"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		fn       func(int) int
		in, want int
	}{
		{ClampSampleSize, 0, 1},
		{ClampSampleSize, 77, 77},
		{ClampSampleSize, 500, 200},
		{ClampMaxSteps, 5, 10},
		{ClampMaxSteps, 120, 120},
		{ClampMaxSteps, 510, 500},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
