package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/mathviz/internal/render"
	"github.com/san-kum/mathviz/internal/walk"
)

var (
	plotRect  = rl.NewRectangle(340, 80, 900, 420)
	chartRect = rl.NewRectangle(340, 530, 900, 140)
	docsRect  = rl.NewRectangle(760, 80, 480, 590)
)

func (a *App) drawProject() {
	sim := a.sess.Simulation()
	view := a.sess.View()

	rl.DrawRectangleLinesEx(plotRect, 1, ColGrid)
	drawAxes(view, sim.Dim())
	for i, trace := range sim.Traces() {
		drawTrace(trace, view, pathColor(i))
	}
	if sim.Dim() == 2 {
		for _, h := range sim.Heads() {
			rl.DrawCircleV(toScreen(h, view, plotRect), 2.5, ColSelect)
		}
	}

	a.drawChart(sim.History(), sim.Params().MaxSteps)
}

func pathColor(i int) rl.Color {
	return rl.Fade(rl.ColorFromHSV(float32(render.Hue(i)), 0.7, 0.9), 0.8)
}

// toScreen maps a plot coordinate into rect.
func toScreen(c walk.Coord, v render.View, rect rl.Rectangle) rl.Vector2 {
	x, y := v.Project(c, float64(rect.Width), float64(rect.Height))
	return rl.NewVector2(rect.X+float32(x), rect.Y+float32(y))
}

func drawAxes(v render.View, dim int) {
	rl.DrawLineV(toScreen(walk.Coord{X: v.MinX}, v, plotRect), toScreen(walk.Coord{X: v.MaxX}, v, plotRect), ColTextDim)
	if dim == 2 {
		rl.DrawLineV(toScreen(walk.Coord{Y: v.MinY}, v, plotRect), toScreen(walk.Coord{Y: v.MaxY}, v, plotRect), ColTextDim)
	}
}

func drawTrace(trace []walk.Coord, v render.View, col rl.Color) {
	if len(trace) < 2 {
		return
	}
	points := make([]rl.Vector2, len(trace))
	for i, c := range trace {
		points[i] = toScreen(c, v, plotRect)
	}
	rl.DrawLineStrip(points, col)
}

// drawChart plots observed MSD against theory over the whole step range.
func (a *App) drawChart(h walk.StatHistory, maxSteps int) {
	rl.DrawRectangleLinesEx(chartRect, 1, ColGrid)

	top := float64(maxSteps)
	for _, s := range h {
		top = math.Max(top, s.Observed)
	}
	v := render.View{MinX: 0, MaxX: float64(maxSteps), MinY: 0, MaxY: top}

	theory := make([]walk.Coord, len(h))
	observed := make([]walk.Coord, len(h))
	for i, s := range h {
		theory[i] = walk.Coord{X: float64(s.Step), Y: s.Theoretical}
		observed[i] = walk.Coord{X: float64(s.Step), Y: s.Observed}
	}
	drawSeries(theory, v, ColTheory)
	drawSeries(observed, v, ColMSD)

	x, y := int(chartRect.X)+10, int(chartRect.Y)+8
	a.drawText("Mean Squared Displacement", x, y, 14, ColText)
	a.drawText("theory (MSD = N)", x, y+18, 12, ColTheory)
	a.drawText("simulated", x, y+34, 12, ColMSD)
}

func drawSeries(points []walk.Coord, v render.View, col rl.Color) {
	if len(points) < 2 {
		return
	}
	out := make([]rl.Vector2, len(points))
	for i, c := range points {
		out[i] = toScreen(c, v, chartRect)
	}
	rl.DrawLineStrip(out, col)
}
