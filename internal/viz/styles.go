package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	subtle   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	selected lipgloss.Style
	tag      lipgloss.Style
	key      lipgloss.Style
	hint     lipgloss.Style
	playing  lipgloss.Style
	stopped  lipgloss.Style
	errText  lipgloss.Style
	canvas   lipgloss.Style
	pane     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		subtle:   lipgloss.NewStyle().Foreground(t.Muted),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		tag:      lipgloss.NewStyle().Foreground(t.Accent).Italic(true),
		key:      lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		hint:     lipgloss.NewStyle().Foreground(t.Muted),
		playing:  lipgloss.NewStyle().Bold(true).Foreground(t.Playing),
		stopped:  lipgloss.NewStyle().Bold(true).Foreground(t.Stopped),
		errText:  lipgloss.NewStyle().Foreground(t.Error),
		canvas:   lipgloss.NewStyle().Foreground(t.Canvas),
		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}

// keyHints renders "key action" pairs on one line.
func (s styles) keyHints(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.key.Render(pairs[i])+s.hint.Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// progressBar renders a fixed width bar for a fraction in [0, 1].
func progressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
