package gui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/mathviz/internal/config"
	"github.com/san-kum/mathviz/internal/metrics"
	"github.com/san-kum/mathviz/internal/project"
	"github.com/san-kum/mathviz/internal/session"
	"github.com/san-kum/mathviz/internal/storage"
	"github.com/san-kum/mathviz/internal/walk"
)

// Theme Colors (Monochrome)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColTheory  = rl.NewColor(255, 77, 79, 255)
	ColMSD     = rl.NewColor(136, 132, 216, 255)
	ColError   = rl.NewColor(230, 80, 80, 255)
)

const (
	screenW = 1280
	screenH = 720
)

// Options configures the window front end.
type Options struct {
	Params         walk.Params
	FPS            int
	StepsPerSecond int
	// Seed 0 selects ambient randomness.
	Seed      int64
	ViewScale float64
	Log       *slog.Logger
	Metrics   *metrics.Recorder
	Store     storage.Store
}

type App struct {
	reg      *project.Registry
	projects []*project.Project
	opts     Options
	log      *slog.Logger
	font     rl.Font

	selected int
	inMenu   bool
	missing  string
	sess     *session.Session
	showDocs bool
	status   string
	err      error
	quit     bool
}

func initWindow(fps int) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(screenW, screenH, "mathviz")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when installed and falls back to the
// raylib default font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(reg *project.Registry, opts Options) *App {
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{
		reg:      reg,
		projects: reg.List(),
		opts:     opts,
		log:      log,
		font:     loadFont(),
		inMenu:   true,
	}
}

// Run opens the window on the project menu, or directly on the project id
// when one is given, and blocks until the window is closed.
func Run(reg *project.Registry, opts Options, id string) error {
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	initWindow(opts.FPS)
	defer rl.CloseWindow()

	app := NewApp(reg, opts)
	if id != "" {
		if err := app.open(id); err != nil {
			return err
		}
	}
	app.RunLoop()
	app.closeProject()
	return nil
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// open starts a session for id. Unknown ids show the not found screen.
func (a *App) open(id string) error {
	proj, err := a.reg.Lookup(id)
	if err != nil {
		a.missing, a.inMenu = id, false
		return nil
	}
	sess, err := session.New(proj, session.Options{
		Params:         a.opts.Params,
		StepsPerSecond: a.opts.StepsPerSecond,
		Seed:           a.opts.Seed,
		ViewScale:      a.opts.ViewScale,
		Log:            a.log,
		Metrics:        a.opts.Metrics,
	})
	if err != nil {
		return err
	}
	a.closeProject()
	a.sess, a.inMenu, a.missing = sess, false, ""
	a.status, a.err = "", nil
	a.log.Info("project opened", "project", id, "max_steps", a.opts.Params.MaxSteps, "sample_size", a.opts.Params.SampleSize)
	return nil
}

func (a *App) closeProject() {
	if a.sess != nil {
		a.sess.Close()
		a.sess = nil
	}
}

func (a *App) back() {
	a.closeProject()
	a.missing = ""
	a.inMenu = true
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	switch {
	case a.inMenu:
		a.updateMenu()
	case a.sess == nil:
		if rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeyEnter) {
			a.back()
		}
	default:
		a.updateProject()
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.selected--
	}

	// Wrap selection
	if a.selected >= len(a.projects) {
		a.selected = 0
	}
	if a.selected < 0 {
		a.selected = len(a.projects) - 1
	}

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		if len(a.projects) == 0 {
			return
		}
		if err := a.open(a.projects[a.selected].ID); err != nil {
			a.err = err
		}
	}
}

func (a *App) updateProject() {
	s := a.sess
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.back()
		return
	}

	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	samples := 1
	if shift {
		samples = 10
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		s.Toggle()
	case rl.IsKeyPressed(rl.KeyS):
		s.StepOnce()
	case rl.IsKeyPressed(rl.KeyR):
		a.status, a.err = "", s.Reset()
	case rl.IsKeyPressed(rl.KeyLeft), rl.IsKeyPressed(rl.KeyH):
		a.status, a.err = "", s.Adjust(-samples, 0)
	case rl.IsKeyPressed(rl.KeyRight), rl.IsKeyPressed(rl.KeyL):
		a.status, a.err = "", s.Adjust(samples, 0)
	case rl.IsKeyPressed(rl.KeyDown), rl.IsKeyPressed(rl.KeyJ):
		a.status, a.err = "", s.Adjust(0, -config.MaxStepsIncrement)
	case rl.IsKeyPressed(rl.KeyUp), rl.IsKeyPressed(rl.KeyK):
		a.status, a.err = "", s.Adjust(0, config.MaxStepsIncrement)
	case rl.IsKeyPressed(rl.KeyD):
		a.showDocs = !a.showDocs
	case rl.IsKeyPressed(rl.KeyW):
		a.save()
	}

	s.Frame()
}

func (a *App) save() {
	if a.opts.Store == nil {
		a.err = fmt.Errorf("save: no store configured")
		return
	}
	id, err := a.opts.Store.Save(context.Background(), a.sess.Report())
	if err != nil {
		a.err = err
		return
	}
	a.status = "saved " + id
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	switch {
	case a.inMenu:
		a.drawMenu()
	case a.sess == nil:
		a.drawNotFound()
	default:
		a.drawProject()
		a.drawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawMenu() {
	a.drawText("mathviz", 50, 50, 40, ColSelect)
	a.drawText("Select Project", 50, 100, 16, ColTextDim)

	y := 160
	for i, p := range a.projects {
		if i == a.selected {
			a.drawText(fmt.Sprintf("> %s", p.Title), 50, y, 20, ColSelect)
			a.drawText(p.Description, 80, y+26, 14, ColText)
			y += 24
		} else {
			a.drawText(fmt.Sprintf("  %s", p.Title), 50, y, 20, ColText)
		}
		y += 32
	}
	if a.err != nil {
		a.drawText(a.err.Error(), 50, 620, 16, ColError)
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, ColTextDim)
}

func (a *App) drawNotFound() {
	a.drawText("404", 50, 50, 40, ColSelect)
	a.drawText("project not found", 50, 110, 20, ColText)
	a.drawText(fmt.Sprintf("no project with id %q", a.missing), 50, 150, 16, ColTextDim)
	a.drawText("ENTER/ESC: HOME  Q: QUIT", 1000, 680, 14, ColTextDim)
}

func (a *App) drawHUD() {
	s := a.sess
	p := s.Simulation().Params()
	last := s.Simulation().Last()

	a.drawText("mathviz", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", s.Project().Title), 150, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !s.Playing() {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	y := 100
	rows := []struct{ label, value string }{
		{"samples", fmt.Sprintf("%d paths", p.SampleSize)},
		{"max steps", fmt.Sprintf("%d", p.MaxSteps)},
		{"step", fmt.Sprintf("%d / %d", last.Step, p.MaxSteps)},
		{"msd", fmt.Sprintf("%.2f", last.Observed)},
		{"theory", fmt.Sprintf("%.2f", last.Theoretical)},
	}
	for _, r := range rows {
		a.drawText(r.label, 30, y, 16, ColTextDim)
		a.drawText(r.value, 140, y, 16, ColAccent)
		y += 26
	}

	if a.err != nil {
		a.drawText(a.err.Error(), 30, y+10, 14, ColError)
	} else if a.status != "" {
		a.drawText(a.status, 30, y+10, 14, ColText)
	}

	a.drawText("[SPACE] PLAY  [S] STEP  [R] RESET  [LEFT/RIGHT] SAMPLES  [UP/DOWN] STEPS  [D] DOCS  [W] SAVE  [ESC] MENU  [Q] QUIT", 300, 690, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 690, 14, ColTextDim)

	if a.showDocs {
		a.drawDocs()
	}
}

func (a *App) drawDocs() {
	rect := docsRect
	rl.DrawRectangleRec(rect, rl.Fade(ColBg, 0.92))
	rl.DrawRectangleLinesEx(rect, 1, ColGrid)

	x, y := int(rect.X)+16, int(rect.Y)+16
	for _, line := range strings.Split(a.sess.Project().Docs, "\n") {
		if y > int(rect.Y+rect.Height)-20 {
			break
		}
		a.drawText(line, x, y, 14, ColText)
		y += 18
	}
}
