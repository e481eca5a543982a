// Package web serves project runs as HTML pages and JSON, plus the
// Prometheus metrics endpoint.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/mathviz/internal/analysis"
	"github.com/san-kum/mathviz/internal/chart"
	"github.com/san-kum/mathviz/internal/config"
	"github.com/san-kum/mathviz/internal/experiment"
	"github.com/san-kum/mathviz/internal/metrics"
	"github.com/san-kum/mathviz/internal/project"
	"github.com/san-kum/mathviz/internal/render"
	"github.com/san-kum/mathviz/internal/storage"
	"github.com/san-kum/mathviz/internal/walk"
)

const (
	pathsSize   = 480
	chartWidth  = 480
	chartHeight = 240
	// maxWork bounds MaxSteps * SampleSize for a single request.
	maxWork = 2_000_000
)

// Options configures a Server. Only Registry is required.
type Options struct {
	Registry *project.Registry
	Store    storage.Store
	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer
	Log      *slog.Logger
}

// Server renders project runs over HTTP.
type Server struct {
	opts       Options
	log        *slog.Logger
	tmpl       *template.Template
	httpServer *http.Server
	mu         sync.Mutex
	addr       string
}

func NewServer(opts Options) (*Server, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{opts: opts, log: log, tmpl: tmpl}, nil
}

// Addr returns the address the server is listening on, or "" before it
// has started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /projects/{id}", s.handleProject)
	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("GET /api/projects/{id}/run", s.handleRun)
	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleLoadRun)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", s.handleNotFound)
	return mux
}

// ListenAndServe serves on addr ("localhost:0" picks a free port) and
// blocks until ctx is cancelled. A clean shutdown returns nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	srv := s.httpServer
	s.mu.Unlock()

	s.log.Info("serving", "addr", ln.Addr().String())

	// Graceful shutdown when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	err = srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type pageData struct {
	Title    string
	Projects []*project.Project
	Missing  string

	Project *project.Project
	Params  walk.Params
	Seed    int64
	Summary analysis.Summary
	Alpha   float64
	Paths   template.HTML
	Chart   template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index.html", pageData{Title: "Projects", Projects: s.opts.Registry.List()})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "notfound.html", pageData{Title: "Not Found"})
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	proj, err := s.opts.Registry.Lookup(id)
	if err != nil {
		s.render(w, http.StatusNotFound, "notfound.html", pageData{Title: "Not Found", Missing: id})
		return
	}
	cfg, err := parseRun(id, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, sim, err := s.run(r.Context(), cfg)
	if err != nil {
		s.runError(w, err)
		return
	}

	p := sim.Params()
	scale := proj.ViewScale(p.MaxSteps)
	view := render.SquareView(scale)
	if sim.Dim() == 1 {
		view = render.LineView(p.MaxSteps, scale)
	}
	s.render(w, http.StatusOK, "project.html", pageData{
		Title:   proj.Title,
		Project: proj,
		Params:  p,
		Seed:    cfg.Seed,
		Summary: res.Summary,
		Alpha:   res.Alpha,
		// Both SVGs are generated from numeric data only.
		Paths: template.HTML(render.PathsSVG(sim.Traces(), sim.Heads(), view, pathsSize, pathsSize)), // #nosec G203
		Chart: template.HTML(chart.SVG(res.History, chartWidth, chartHeight)),                       // #nosec G203
	})
}

type projectInfo struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Dim         int      `json:"dim"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	var out []projectInfo
	for _, p := range s.opts.Registry.List() {
		out = append(out, projectInfo{ID: p.ID, Title: p.Title, Description: p.Description, Tags: p.Tags, Dim: p.Dim})
	}
	writeJSON(w, http.StatusOK, out)
}

type runResponse struct {
	Project  string           `json:"project"`
	Seed     int64            `json:"seed"`
	Params   walk.Params      `json:"params"`
	Summary  analysis.Summary `json:"summary"`
	Alpha    float64          `json:"alpha"`
	Duration string           `json:"duration"`
	History  walk.StatHistory `json:"history"`
	RunID    string           `json:"run_id,omitempty"`
}

// handleRun plays a run to completion and returns its statistics. With
// save=true the report is archived in the store.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.opts.Registry.Lookup(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	cfg, err := parseRun(id, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, _, err := s.run(r.Context(), cfg)
	if err != nil {
		s.runError(w, err)
		return
	}

	resp := runResponse{
		Project:  cfg.Project,
		Seed:     cfg.Seed,
		Params:   cfg.Params(),
		Summary:  res.Summary,
		Alpha:    res.Alpha,
		Duration: res.Duration.String(),
		History:  res.History,
	}
	if r.URL.Query().Get("save") == "true" {
		if s.opts.Store == nil {
			http.Error(w, "no store configured", http.StatusNotImplemented)
			return
		}
		runID, err := s.opts.Store.Save(r.Context(), res.Report())
		if err != nil {
			s.log.Error("save run", "project", id, "error", err)
			http.Error(w, "save error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		resp.RunID = runID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		http.Error(w, "no store configured", http.StatusNotImplemented)
		return
	}
	runs, err := s.opts.Store.List(r.Context())
	if err != nil {
		http.Error(w, "list error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []storage.Report{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleLoadRun(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		http.Error(w, "no store configured", http.StatusNotImplemented)
		return
	}
	rep, err := s.opts.Store.Load(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrRunNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "load error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) run(ctx context.Context, cfg experiment.Config) (*experiment.Result, walk.Simulation, error) {
	e, err := experiment.New(s.opts.Registry, cfg, experiment.WithLogger(s.log))
	if err != nil {
		return nil, nil, err
	}
	if s.opts.Metrics != nil {
		e.AddObserver(s.opts.Metrics.Observer(cfg.Project))
	}
	res, err := e.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveRun(cfg.Project, e.Simulation(), res.Duration)
	}
	s.log.Debug("run served", "project", cfg.Project, "steps", res.Summary.Steps, "elapsed", res.Duration)
	return res, e.Simulation(), nil
}

func (s *Server) runError(w http.ResponseWriter, err error) {
	if errors.Is(err, walk.ErrInvalidParams) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.Error("run failed", "error", err)
	http.Error(w, "run error: "+err.Error(), http.StatusInternalServerError)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("render template", "template", name, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseRun reads max_steps, sample_size and seed from the query, falling
// back to the defaults.
func parseRun(id string, r *http.Request) (experiment.Config, error) {
	cfg := experiment.Config{
		Project:    id,
		MaxSteps:   config.DefaultMaxSteps,
		SampleSize: config.DefaultSampleSize,
	}
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"max_steps", &cfg.MaxSteps},
		{"sample_size", &cfg.SampleSize},
	} {
		if v := q.Get(f.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return cfg, fmt.Errorf("%s: %w", f.name, err)
			}
			*f.dst = n
		}
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("seed: %w", err)
		}
		cfg.Seed = seed
	}
	if err := cfg.Params().Validate(); err != nil {
		return cfg, err
	}
	// Compared by division; the product can overflow int.
	if cfg.MaxSteps > maxWork/cfg.SampleSize {
		return cfg, fmt.Errorf("max_steps * sample_size exceeds %d", maxWork)
	}
	return cfg, nil
}
