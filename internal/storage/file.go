package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/san-kum/mathviz/internal/walk"
)

// FileStore keeps one directory per run holding metadata.json and stats.csv.
type FileStore struct {
	baseDir string
	log     *slog.Logger
}

func NewFileStore(baseDir string, log *slog.Logger) *FileStore {
	if log == nil {
		log = discard()
	}
	return &FileStore{baseDir: baseDir, log: log}
}

func (s *FileStore) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Save(_ context.Context, r *Report) (string, error) {
	stamp(r)
	runDir := filepath.Join(s.baseDir, r.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := *r
	meta.History = nil
	err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}
	err = writeFile(filepath.Join(runDir, "stats.csv"), func(w io.Writer) error {
		return WriteCSV(w, r.History)
	})
	if err != nil {
		return "", err
	}

	s.log.Debug("run saved", "id", r.ID, "dir", runDir)
	return r.ID, nil
}

// writeFile creates path and fills it with write. A failed close is
// reported since it can mean the data never reached disk.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func (s *FileStore) List(_ context.Context) ([]Report, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Report{}, nil
		}
		return nil, err
	}

	runs := make([]Report, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.loadMeta(entry.Name())
		if err != nil {
			s.log.Debug("skipping run dir", "name", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *FileStore) Load(_ context.Context, id string) (*Report, error) {
	meta, err := s.loadMeta(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, id, "stats.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta.History, err = readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read stats for %s: %w", id, err)
	}
	return meta, nil
}

func (s *FileStore) loadMeta(id string) (*Report, error) {
	if id == "" || filepath.Base(id) != id {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, id)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrRunNotFound, id)
		}
		return nil, err
	}
	var meta Report
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func readCSV(src io.Reader) (walk.StatHistory, error) {
	records, err := csv.NewReader(src).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return walk.StatHistory{}, nil
	}

	history := make(walk.StatHistory, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != 3 {
			return nil, fmt.Errorf("expected 3 fields, got %d", len(rec))
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, err
		}
		obs, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, err
		}
		theory, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, err
		}
		history = append(history, walk.StatSample{Step: step, Observed: obs, Theoretical: theory})
	}
	return history, nil
}
