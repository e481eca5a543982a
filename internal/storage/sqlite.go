package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/mathviz/internal/walk"
	_ "modernc.org/sqlite" // SQLite driver
)

// tsLayout sorts lexically in time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps reports in a single database file under its directory.
type SQLiteStore struct {
	dir string
	log *slog.Logger
	db  *sql.DB
}

func NewSQLiteStore(dir string, log *slog.Logger) *SQLiteStore {
	if log == nil {
		log = discard()
	}
	return &SQLiteStore{dir: dir, log: log}
}

func (s *SQLiteStore) Init() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dir, err)
	}
	dbPath := filepath.Join(s.dir, "mathviz.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, r *Report) (string, error) {
	stamp(r)
	metrics, err := json.Marshal(r.Metrics)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, project, timestamp, seed, max_steps, sample_size, steps, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Project, r.Timestamp.UTC().Format(tsLayout), r.Seed,
		r.MaxSteps, r.SampleSize, r.Steps, string(metrics))
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", r.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_stats (run_id, step, observed, theoretical) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	for _, sample := range r.History {
		if _, err := stmt.ExecContext(ctx, r.ID, sample.Step, sample.Observed, sample.Theoretical); err != nil {
			return "", fmt.Errorf("insert stats for %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	s.log.Debug("run saved", "id", r.ID, "samples", len(r.History))
	return r.ID, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project, timestamp, seed, max_steps, sample_size, steps, metrics
		FROM runs ORDER BY timestamp DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Report{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project, timestamp, seed, max_steps, sample_size, steps, metrics
		FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT step, observed, theoretical FROM run_stats WHERE run_id = ? ORDER BY step`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	r.History = walk.StatHistory{}
	for rows.Next() {
		var sample walk.StatSample
		if err := rows.Scan(&sample.Step, &sample.Observed, &sample.Theoretical); err != nil {
			return nil, err
		}
		r.History = append(r.History, sample)
	}
	return r, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Report, error) {
	var (
		r       Report
		ts      string
		metrics sql.NullString
	)
	if err := sc.Scan(&r.ID, &r.Project, &ts, &r.Seed, &r.MaxSteps, &r.SampleSize, &r.Steps, &metrics); err != nil {
		return nil, err
	}
	t, err := time.Parse(tsLayout, ts)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp of %s: %w", r.ID, err)
	}
	r.Timestamp = t
	if metrics.Valid && metrics.String != "" && metrics.String != "null" {
		if err := json.Unmarshal([]byte(metrics.String), &r.Metrics); err != nil {
			return nil, fmt.Errorf("parse metrics of %s: %w", r.ID, err)
		}
	}
	return &r, nil
}
