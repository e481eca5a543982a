package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/mathviz/internal/project"
)

const (
	screenMenu = iota
	screenProject
	screenNotFound
)

// App is the home menu plus the project view it opens.
type App struct {
	reg      *project.Registry
	projects []*project.Project
	opts     Options
	screen   int
	cursor   int
	view     ProjectView
	gen      int
	missing  string
	err      error
	width    int
	height   int
}

func NewApp(reg *project.Registry, opts Options) App {
	return App{reg: reg, projects: reg.List(), opts: opts, screen: screenMenu}
}

// Open switches to the project with the given id, or to the not found
// screen when no such project is registered.
func (a App) Open(id string) (App, tea.Cmd) {
	proj, err := a.reg.Lookup(id)
	if err != nil {
		a.screen, a.missing = screenNotFound, id
		return a, nil
	}
	a.gen++
	view, err := NewProjectView(proj, a.opts, a.gen)
	if err != nil {
		a.err = err
		return a, nil
	}
	if a.width > 0 {
		m, _ := view.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		view = m.(ProjectView)
	}
	a.view, a.screen, a.err = view, screenProject, nil
	return a, view.Init()
}

func (a App) Init() tea.Cmd {
	if a.screen == screenProject {
		return a.view.Init()
	}
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case backMsg:
		a.opts.Theme = msg.theme
		a.screen = screenMenu
		return a, nil
	case tea.KeyMsg:
		switch a.screen {
		case screenMenu:
			return a.menuKey(msg)
		case screenNotFound:
			return a.notFoundKey(msg)
		}
	}
	if a.screen == screenProject {
		m, cmd := a.view.Update(msg)
		a.view = m.(ProjectView)
		return a, cmd
	}
	return a, nil
}

func (a App) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.projects)-1 {
			a.cursor++
		}
	case "enter", " ":
		if len(a.projects) > 0 {
			return a.Open(a.projects[a.cursor].ID)
		}
	}
	return a, nil
}

func (a App) notFoundKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	default:
		a.screen = screenMenu
	}
	return a, nil
}

func (a App) View() string {
	switch a.screen {
	case screenProject:
		return a.view.View()
	case screenNotFound:
		st := newStyles(GetTheme(a.opts.Theme))
		return "\n\n    " + st.errText.Render("404") + "  " + st.title.Render("project not found") +
			"\n    " + st.subtle.Render(fmt.Sprintf("no project named %q", a.missing)) +
			"\n\n    " + st.keyHints("any key", "home", "q", "quit") + "\n"
	}
	return a.viewMenu()
}

func (a App) viewMenu() string {
	st := newStyles(GetTheme(a.opts.Theme))
	var b strings.Builder
	b.WriteString("\n\n    " + st.title.Render("MATHVIZ") + "\n    " + st.subtle.Render("interactive stochastic processes") + "\n    " + st.subtle.Render("────────────────────────────────") + "\n\n")
	for i, p := range a.projects {
		marker, name := "  ", st.subtle.Render(fmt.Sprintf("%-18s", p.Title))
		if i == a.cursor {
			marker, name = st.selected.Render("▸ "), st.value.Render(fmt.Sprintf("%-18s", p.Title))
		}
		b.WriteString("    " + marker + name + "  " + st.tag.Render(strings.Join(p.Tags, ", ")) + "\n")
		b.WriteString("      " + st.subtle.Render(p.Description) + "\n\n")
	}
	if a.err != nil {
		b.WriteString("    " + st.errText.Render(a.err.Error()) + "\n\n")
	}
	b.WriteString("    " + st.keyHints("j/k", "navigate", "enter", "open", "q", "quit") + "\n")
	return b.String()
}

// Run starts the TUI on the home menu, or directly on a project when id is
// not empty.
func Run(reg *project.Registry, opts Options, id string) error {
	app := NewApp(reg, opts)
	if id != "" {
		app, _ = app.Open(id)
	}
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
