// Package repository persists ingestion output. Each collection is a whole
// JSON file read, merged, and rewritten under a per-collection mutex; writes
// go to a temp file first and land via rename so a crash mid-write never
// leaves a half-written collection behind.
package repository

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// jsonStore guards one collection file. The mutex serializes the whole
// load-merge-save cycle; this process is the sole writer.
type jsonStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

func newJSONStore(path string, logger *slog.Logger) *jsonStore {
	return &jsonStore{path: path, logger: logger}
}

// load decodes the collection file into v. A missing file is not an error;
// found reports whether anything was read.
func (s *jsonStore) load(v any) (found bool, err error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return true, nil
}

// save writes v to a temp file in the same directory, then renames it over
// the collection file.
func (s *jsonStore) save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp for %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp over %s: %w", s.path, err)
	}
	return nil
}

// nowISO stamps lastUpdated / updatedAt fields.
func nowISO() string {
	return time.Now().Format(time.RFC3339)
}
