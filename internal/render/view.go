package render

import (
	"math"

	"github.com/san-kum/mathviz/internal/walk"
)

// View is the rectangle of plotting space mapped onto the output surface.
type View struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// LineView is the time/position window of a 1D run: time spans [0, maxSteps]
// and position spans ±rangeY.
func LineView(maxSteps int, rangeY float64) View {
	return View{MinX: 0, MaxX: float64(maxSteps), MinY: -rangeY, MaxY: rangeY}
}

// SquareView is a square window of the given half-width centered on the
// origin.
func SquareView(half float64) View {
	return View{MinX: -half, MaxX: half, MinY: -half, MaxY: half}
}

// Project maps c into a w x h surface with y growing downward.
func (v View) Project(c walk.Coord, w, h float64) (float64, float64) {
	sx := (c.X - v.MinX) / span(v.MinX, v.MaxX)
	sy := (c.Y - v.MinY) / span(v.MinY, v.MaxY)
	return sx * (w - 1), (1 - sy) * (h - 1)
}

// Hue spreads path colors by the golden angle.
func Hue(i int) float64 {
	return math.Mod(float64(i)*137.5, 360)
}

func span(lo, hi float64) float64 {
	if hi-lo == 0 {
		return 1
	}
	return hi - lo
}
