// Package storage archives summaries of completed runs. A report carries the
// run parameters and its statistics history, never the paths, so nothing can
// be resumed from it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/mathviz/internal/walk"
)

var (
	ErrRunNotFound = errors.New("storage: run not found")
	ErrUnknownKind = errors.New("storage: unknown store kind")
)

type Report struct {
	ID         string             `json:"id"`
	Project    string             `json:"project"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	MaxSteps   int                `json:"max_steps"`
	SampleSize int                `json:"sample_size"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	History    walk.StatHistory   `json:"history,omitempty"`
}

// NewReport captures the current statistics of sim.
func NewReport(project string, seed int64, sim walk.Simulation) *Report {
	p := sim.Params()
	return &Report{
		Project:    project,
		Seed:       seed,
		MaxSteps:   p.MaxSteps,
		SampleSize: p.SampleSize,
		Steps:      sim.Steps(),
		History:    sim.History(),
	}
}

type Store interface {
	Init() error
	// Save assigns an id and timestamp when unset and returns the id.
	Save(ctx context.Context, r *Report) (string, error)
	// List returns report metadata without histories, newest first.
	List(ctx context.Context) ([]Report, error)
	Load(ctx context.Context, id string) (*Report, error)
	Close() error
}

// Open returns an initialized store of the given kind ("file" or "sqlite")
// rooted at dir.
func Open(kind, dir string, log *slog.Logger) (Store, error) {
	var s Store
	switch kind {
	case "file", "":
		s = NewFileStore(dir, log)
	case "sqlite":
		s = NewSQLiteStore(dir, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init %s store: %w", kind, err)
	}
	return s, nil
}

func stamp(r *Report) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	if r.ID == "" {
		r.ID = fmt.Sprintf("%s_%d", r.Project, r.Timestamp.UnixNano())
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
