package render

import (
	"math"

	"github.com/san-kum/mathviz/internal/walk"
)

// Draw1D rasterizes line walk traces with the time axis drawn at position 0.
func Draw1D(c *Canvas, traces [][]walk.Coord, v View) {
	c.Clear()
	w, h := c.Dots()
	_, y0 := dot(v, walk.Coord{}, w, h)
	c.Line(0, y0, w-1, y0)
	drawTraces(c, traces, v)
}

// Draw2D rasterizes lattice walk traces over both axes and marks every head
// with a small cross.
func Draw2D(c *Canvas, traces [][]walk.Coord, heads []walk.Coord, v View) {
	c.Clear()
	w, h := c.Dots()
	x0, y0 := dot(v, walk.Coord{}, w, h)
	c.Line(0, y0, w-1, y0)
	c.Line(x0, 0, x0, h-1)
	drawTraces(c, traces, v)
	for _, head := range heads {
		x, y := dot(v, head, w, h)
		c.Set(x, y)
		c.Set(x-1, y)
		c.Set(x+1, y)
		c.Set(x, y-1)
		c.Set(x, y+1)
	}
}

func drawTraces(c *Canvas, traces [][]walk.Coord, v View) {
	w, h := c.Dots()
	for _, tr := range traces {
		if len(tr) == 0 {
			continue
		}
		px, py := dot(v, tr[0], w, h)
		c.Set(px, py)
		for _, p := range tr[1:] {
			x, y := dot(v, p, w, h)
			c.Line(px, py, x, y)
			px, py = x, y
		}
	}
}

func dot(v View, p walk.Coord, w, h int) (int, int) {
	x, y := v.Project(p, float64(w), float64(h))
	return int(math.Round(x)), int(math.Round(y))
}
