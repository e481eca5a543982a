package viz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/mathviz/internal/chart"
	"github.com/san-kum/mathviz/internal/config"
	"github.com/san-kum/mathviz/internal/metrics"
	"github.com/san-kum/mathviz/internal/project"
	"github.com/san-kum/mathviz/internal/render"
	"github.com/san-kum/mathviz/internal/session"
	"github.com/san-kum/mathviz/internal/storage"
	"github.com/san-kum/mathviz/internal/walk"
)

const (
	controlsWidth = 34
	docsWidth     = 48
	chartHeight   = 8
	minCanvasW    = 20
	minCanvasH    = 6
)

// Options configures the terminal front end.
type Options struct {
	Params         walk.Params
	FPS            int
	StepsPerSecond int
	// Seed 0 selects ambient randomness.
	Seed      int64
	ViewScale float64
	Theme     string
	Log       *slog.Logger
	Metrics   *metrics.Recorder
	Store     storage.Store
}

var errNoStore = errors.New("no store configured")

type tickMsg struct{ gen int }

type backMsg struct{ theme string }

type savedMsg struct {
	id  string
	err error
}

// ProjectView hosts one project's session. Each tick runs at most one
// frame; ticks from an earlier view generation are dropped.
type ProjectView struct {
	proj     *project.Project
	opts     Options
	sess     *session.Session
	canvas   *render.Canvas
	theme    Theme
	st       styles
	gen      int
	showDocs bool
	width    int
	height   int
	status   string
	err      error
}

func NewProjectView(proj *project.Project, opts Options, gen int) (ProjectView, error) {
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	sess, err := session.New(proj, session.Options{
		Params:         opts.Params,
		StepsPerSecond: opts.StepsPerSecond,
		Seed:           opts.Seed,
		ViewScale:      opts.ViewScale,
		Log:            opts.Log,
		Metrics:        opts.Metrics,
	})
	if err != nil {
		return ProjectView{}, err
	}

	theme := GetTheme(opts.Theme)
	v := ProjectView{
		proj:   proj,
		opts:   opts,
		sess:   sess,
		theme:  theme,
		st:     newStyles(theme),
		gen:    gen,
		width:  120,
		height: 36,
	}
	v.resize()
	return v, nil
}

func (v ProjectView) Init() tea.Cmd { return v.tick() }

func (v ProjectView) tick() tea.Cmd {
	gen := v.gen
	return tea.Tick(time.Second/time.Duration(v.opts.FPS), func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (v ProjectView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != v.gen || v.sess.Closed() {
			return v, nil
		}
		v.sess.Frame()
		return v, v.tick()
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v.resize()
	case savedMsg:
		if msg.err != nil {
			v.err = msg.err
		} else {
			v.status = "saved " + msg.id
		}
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v ProjectView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.err = nil
	switch msg.String() {
	case "q", "ctrl+c":
		v.sess.Close()
		return v, tea.Quit
	case "esc":
		v.sess.Close()
		theme := v.theme.Name
		return v, func() tea.Msg { return backMsg{theme: theme} }
	case " ":
		v.sess.Toggle()
	case "s":
		v.sess.StepOnce()
	case "r":
		v.err = v.sess.Reset()
		v.status = ""
	case "left", "h":
		v.adjust(-1, 0)
	case "right", "l":
		v.adjust(1, 0)
	case "shift+left", "H":
		v.adjust(-10, 0)
	case "shift+right", "L":
		v.adjust(10, 0)
	case "down", "j":
		v.adjust(0, -config.MaxStepsIncrement)
	case "up", "k":
		v.adjust(0, config.MaxStepsIncrement)
	case "d":
		v.showDocs = !v.showDocs
		v.resize()
	case "t":
		v.theme = NextTheme(v.theme.Name)
		v.st = newStyles(v.theme)
	case "w":
		return v, v.save()
	}
	return v, nil
}

func (v *ProjectView) adjust(dSamples, dSteps int) {
	v.err = v.sess.Adjust(dSamples, dSteps)
	v.status = ""
}

func (v ProjectView) save() tea.Cmd {
	if v.opts.Store == nil {
		return func() tea.Msg { return savedMsg{err: errNoStore} }
	}
	report := v.sess.Report()
	store := v.opts.Store
	return func() tea.Msg {
		id, err := store.Save(context.Background(), report)
		return savedMsg{id: id, err: err}
	}
}

func (v *ProjectView) resize() {
	w := v.width - controlsWidth - 4
	if v.showDocs {
		w -= docsWidth + 4
	}
	h := v.height - chartHeight - 8
	v.canvas = render.NewCanvas(max(w, minCanvasW), max(h, minCanvasH))
}

func (v ProjectView) View() string {
	header := v.st.title.Render(strings.ToUpper(v.proj.Title)) + "  " + v.st.subtle.Render(strings.Join(v.proj.Tags, " · "))

	center := lipgloss.JoinVertical(lipgloss.Left, v.st.canvas.Render(v.drawCanvas()), v.drawChart())
	panes := []string{v.st.pane.Width(controlsWidth).Render(v.controls()), v.st.pane.Render(center)}
	if v.showDocs {
		panes = append(panes, v.st.pane.Width(docsWidth).Render(v.proj.Docs))
	}
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (v ProjectView) controls() string {
	p := v.sess.Simulation().Params()
	last := v.sess.Simulation().Last()

	var b strings.Builder
	b.WriteString(v.st.title.Render("Controls") + "\n\n")
	b.WriteString(v.st.label.Render("Sample Size") + v.st.value.Render(fmt.Sprintf("%d paths", p.SampleSize)) + "\n")
	b.WriteString(v.st.label.Render("Max Steps") + v.st.value.Render(fmt.Sprintf("%d steps", p.MaxSteps)) + "\n\n")

	status := v.st.stopped.Render("Paused")
	if v.sess.Playing() {
		status = v.st.playing.Render("Running")
	}
	b.WriteString(v.st.label.Render("Status") + status + "\n")
	b.WriteString(v.st.label.Render("Current Step") + v.st.value.Render(fmt.Sprintf("%d", last.Step)) + "\n")
	b.WriteString(progressBar(float64(last.Step)/float64(p.MaxSteps), controlsWidth-4) + "\n\n")
	b.WriteString(v.st.label.Render("MSD") + v.st.value.Render(fmt.Sprintf("%.2f", last.Observed)) + "\n")
	b.WriteString(v.st.label.Render("Theory") + v.st.value.Render(fmt.Sprintf("%.2f", last.Theoretical)) + "\n\n")

	b.WriteString(v.st.keyHints("space", "start/pause", "s", "step") + "\n")
	b.WriteString(v.st.keyHints("r", "reset", "←/→", "samples") + "\n")
	b.WriteString(v.st.keyHints("↓/↑", "steps", "d", "docs") + "\n")
	b.WriteString(v.st.keyHints("t", "theme", "w", "save") + "\n")
	b.WriteString(v.st.keyHints("esc", "back", "q", "quit"))

	if v.err != nil {
		b.WriteString("\n\n" + v.st.errText.Render(v.err.Error()))
	} else if v.status != "" {
		b.WriteString("\n\n" + v.st.subtle.Render(v.status))
	}
	return b.String()
}

func (v ProjectView) drawCanvas() string {
	sim := v.sess.Simulation()
	if sim.Dim() == 1 {
		render.Draw1D(v.canvas, sim.Traces(), v.sess.View())
	} else {
		render.Draw2D(v.canvas, sim.Traces(), sim.Heads(), v.sess.View())
	}
	return v.canvas.String()
}

func (v ProjectView) drawChart() string {
	return chart.Render(v.sess.Simulation().History(), v.canvas.Width-8, chartHeight, "Mean Squared Displacement (MSD)")
}
