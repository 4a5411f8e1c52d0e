// Package history persists evaluation runs as JSON documents on disk,
// one file per record under the promptdeck data directory.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promptdeck/promptdeck/internal/model"
)

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("history record not found")

// Store reads and writes history records in a single directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// DefaultDir returns the history directory: $XDG_DATA_HOME/promptdeck/history,
// falling back to ~/.local/share/promptdeck/history.
func DefaultDir() string {
	if dataDir := os.Getenv("XDG_DATA_HOME"); dataDir != "" {
		return filepath.Join(dataDir, "promptdeck", "history")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "promptdeck", "history")
	}
	return filepath.Join(home, ".local", "share", "promptdeck", "history")
}

// Save writes the record to disk. A missing id gets a fresh UUID, a zero
// timestamp gets the current UTC time, and zero stats are backfilled from
// the raw results. Returns the record as stored.
func (s *Store) Save(record model.HistoryRecord) (model.HistoryRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if record.Stats == (model.RunStats{}) && len(record.Results.Results) > 0 {
		record.Stats = model.CalculateStats(record.Results.Results)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return record, fmt.Errorf("encoding record %s: %w", record.ID, err)
	}

	// Write-then-rename so a crash never leaves a truncated record behind.
	path := s.path(record.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return record, fmt.Errorf("writing record %s: %w", record.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return record, fmt.Errorf("writing record %s: %w", record.ID, err)
	}
	return record, nil
}

// Load reads one record by id.
func (s *Store) Load(id string) (model.HistoryRecord, error) {
	var record model.HistoryRecord
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return record, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return record, fmt.Errorf("reading record %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("decoding record %s: %w", id, err)
	}
	return record, nil
}

// List returns all records sorted newest-first. Unreadable files are
// skipped so one corrupt record doesn't hide the rest of the history.
func (s *Store) List() ([]model.HistoryRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading history dir %s: %w", s.dir, err)
	}

	var records []model.HistoryRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		record, err := s.Load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", name, err)
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// Delete removes one record by id.
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
