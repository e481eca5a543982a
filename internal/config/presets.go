package config

import "sort"

// Preset is a named set of run parameters.
type Preset struct {
	MaxSteps       int   `yaml:"max_steps"`
	SampleSize     int   `yaml:"sample_size"`
	Seed           int64 `yaml:"seed"`
	StepsPerSecond int   `yaml:"steps_per_second"`
}

var walkPresets = map[string]*Preset{
	"quick":   {MaxSteps: 50, SampleSize: 20},
	"default": {MaxSteps: DefaultMaxSteps, SampleSize: DefaultSampleSize},
	"dense":   {MaxSteps: 200, SampleSize: 200},
	"long":    {MaxSteps: 500, SampleSize: 30},
	"slow":    {MaxSteps: 100, SampleSize: 50, StepsPerSecond: 10},
	// convergence is for batch runs; the interactive views cap sample size.
	"convergence": {MaxSteps: 100, SampleSize: 10000, Seed: 42},
}

var Presets = map[string]map[string]*Preset{
	"random-walk":    walkPresets,
	"random-walk-1d": walkPresets,
}

func GetPreset(project, preset string) *Preset {
	projectPresets, ok := Presets[project]
	if !ok {
		return nil
	}
	p, ok := projectPresets[preset]
	if !ok {
		return nil
	}
	return p
}

func ListPresets(project string) []string {
	projectPresets, ok := Presets[project]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(projectPresets))
	for name := range projectPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
