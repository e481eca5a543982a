package render

import (
	"fmt"
	"strings"

	"github.com/san-kum/mathviz/internal/walk"
)

// PathsSVG draws every trace as a polyline colored by its index. Heads are
// marked with white dots when given.
func PathsSVG(traces [][]walk.Coord, heads []walk.Coord, v View, width, height int) string {
	w, h := float64(width), float64(height)
	var sb strings.Builder

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#111111"/>
`, width, height, width, height)

	ox, oy := v.Project(walk.Coord{}, w, h)
	fmt.Fprintf(&sb, `<g stroke="#333333" stroke-width="1"><line x1="0" y1="%.1f" x2="%.1f" y2="%.1f"/>`, oy, w, oy)
	if v.MinX < 0 {
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="0" x2="%.1f" y2="%.1f"/>`, ox, ox, h)
	}
	sb.WriteString("</g>\n<g fill=\"none\" stroke-width=\"1\" stroke-opacity=\"0.6\">\n")

	for i, tr := range traces {
		if len(tr) == 0 {
			continue
		}
		fmt.Fprintf(&sb, `<polyline stroke="hsl(%.1f, 70%%, 60%%)" points="`, Hue(i))
		for j, p := range tr {
			x, y := v.Project(p, w, h)
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</g>\n")

	if len(heads) > 0 {
		sb.WriteString("<g fill=\"white\">\n")
		for _, p := range heads {
			x, y := v.Project(p, w, h)
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="2"/>`+"\n", x, y)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
