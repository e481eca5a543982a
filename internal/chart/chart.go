// Package chart plots the mean squared displacement history against the
// theoretical line.
package chart

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mathviz/internal/walk"
)

const (
	TheoryLabel   = "Theory (MSD = N)"
	ObservedLabel = "Simulated MSD"

	theoryColor   = "#ff4d4f"
	observedColor = "#8884d8"
)

// Render draws the theory (red) and simulated (blue) series as a terminal
// line chart.
func Render(history walk.StatHistory, width, height int, caption string) string {
	theory, observed := history.Theoretical(), history.Observed()
	if len(theory) == 0 {
		theory, observed = []float64{0}, []float64{0}
	}
	// asciigraph needs two points to draw a segment.
	if len(theory) == 1 {
		theory = append(theory, theory[0])
		observed = append(observed, observed[0])
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.SeriesLegends(TheoryLabel, ObservedLabel),
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	return asciigraph.PlotMany([][]float64{theory, observed}, opts...)
}

// SVG draws the same chart for the web page, with the theory line dashed.
func SVG(history walk.StatHistory, width, height int) string {
	const pad = 36.0
	w, h := float64(width), float64(height)
	maxX, maxY := 1.0, 1.0
	for _, s := range history {
		maxX = max(maxX, float64(s.Step))
		maxY = max(maxY, s.Observed, s.Theoretical)
	}
	px := func(step int) float64 { return pad + float64(step)/maxX*(w-2*pad) }
	py := func(v float64) float64 { return h - pad - v/maxY*(h-2*pad) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace" font-size="11">
<rect width="100%%" height="100%%" fill="#1a1a1a"/>
<g stroke="#444444"><line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/><line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/></g>
`, width, height, width, height, pad, h-pad, w-pad, h-pad, pad, pad, pad, h-pad)
	fmt.Fprintf(&sb, `<g fill="#aaaaaa"><text x="%.1f" y="%.1f" text-anchor="end">Step (N)</text><text x="4" y="%.1f">MSD</text>`, w-pad, h-8, pad-8)
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" text-anchor="end">%.0f</text><text x="%.1f" y="%.1f" text-anchor="end">%.0f</text></g>`+"\n",
		pad-4, pad+4, maxY, w-pad, h-pad+14, maxX)

	series := func(color, extra string, value func(walk.StatSample) float64) {
		fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="2"%s points="`, color, extra)
		for i, s := range history {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", px(s.Step), py(value(s)))
		}
		sb.WriteString("\"/>\n")
	}
	series(theoryColor, ` stroke-dasharray="5 5"`, func(s walk.StatSample) float64 { return s.Theoretical })
	series(observedColor, "", func(s walk.StatSample) float64 { return s.Observed })

	fmt.Fprintf(&sb, `<g><text x="%.1f" y="16" fill="%s">%s</text><text x="%.1f" y="30" fill="%s">%s</text></g>`+"\n",
		pad+8, theoryColor, TheoryLabel, pad+8, observedColor, ObservedLabel)
	sb.WriteString("</svg>")
	return sb.String()
}
