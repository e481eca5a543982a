package experiment

import (
	"github.com/san-kum/mathviz/internal/analysis"
	"github.com/san-kum/mathviz/internal/playback"
	"github.com/san-kum/mathviz/internal/walk"
)

func observerFunc(fn func()) playback.Observer {
	return playback.ObserverFunc(func(walk.Simulation) { fn() })
}

func summary(relErr float64) analysis.Summary {
	return analysis.Summary{RelError: relErr}
}
