package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"ShortsPublisher/internal/domain"
	"ShortsPublisher/internal/ports"
	"ShortsPublisher/pkg/atomicfile"
)

// JSONStore persists upload records as one human-readable JSON object on
// disk, keyed by source id. It is the sole owner of the persisted mapping;
// every mutation rewrites the file wholesale through an atomic rename.
type JSONStore struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

var _ ports.StateStore = (*JSONStore)(nil)

// NewJSONStore wires the state-file location.
func NewJSONStore(path string, logger *slog.Logger) *JSONStore {
	return &JSONStore{path: path, logger: logger}
}

// Load reads the persisted mapping. A missing, unreadable, or malformed file
// degrades to an empty mapping with a logged warning; it never fails.
func (s *JSONStore) Load() map[string]domain.UploadRecord {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]domain.UploadRecord{}
	}
	if err != nil {
		s.warn("state file unreadable, starting from empty state", err)
		return map[string]domain.UploadRecord{}
	}

	var records map[string]domain.UploadRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		s.warn("state file corrupt, starting from empty state", err)
		return map[string]domain.UploadRecord{}
	}
	if records == nil {
		records = map[string]domain.UploadRecord{}
	}
	return records
}

// Save overwrites the persisted mapping atomically.
func (s *JSONStore) Save(records map[string]domain.UploadRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Upsert merges fields into the record for id (creating it if absent) and
// persists the whole mapping.
func (s *JSONStore) Upsert(id string, mutate func(*domain.UploadRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.Load()
	record := records[id]
	record.SourceID = id
	if mutate != nil {
		mutate(&record)
	}
	records[id] = record

	return s.Save(records)
}

func (s *JSONStore) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "path", s.path, "error", err)
	}
}
