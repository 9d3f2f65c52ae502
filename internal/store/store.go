// Package store persists simulation results as JSON-keyed files, one per
// simulation type, merging new entries into whatever the file already
// holds.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/seenimoa/quantfolio/pkg/models"
)

// timestampLayout formats the last_updated field.
const timestampLayout = "2006-01-02 15:04:05"

// Entry is one named result set with its metadata.
type Entry struct {
	Data        []models.SimulationResult `json:"data"`
	LastUpdated string                    `json:"last_updated"`
	RunID       string                    `json:"run_id,omitempty"`
}

// Store reads and writes result files under a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// New returns a store rooted at dir. The directory is created on the
// first save.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// path maps a simulation type to its results file.
func (s *Store) path(simType models.SimulationType) string {
	return filepath.Join(s.dir, string(simType)+"_results.json")
}

// Save records results under name, merging into the existing file. An
// unreadable or invalid existing file starts over from an empty set;
// entries for other names are preserved.
func (s *Store) Save(name string, results []models.SimulationResult, simType models.SimulationType, runID string) error {
	path := s.path(simType)

	all := make(map[string]Entry)
	if raw, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(raw, &all); err != nil {
			all = make(map[string]Entry)
		}
	}

	all[name] = Entry{
		Data:        results,
		LastUpdated: s.now().Format(timestampLayout),
		RunID:       runID,
	}

	out, err := json.MarshalIndent(all, "", "    ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("store: create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	return nil
}

// Retrieve returns the entry saved under name. A missing file or name is
// a lookup miss, not an error; a file that is not valid JSON is.
func (s *Store) Retrieve(name string, simType models.SimulationType) (Entry, bool, error) {
	all, err := s.RetrieveAll(simType)
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := all[name]
	return e, ok, nil
}

// RetrieveAll returns every entry for the simulation type. A missing
// file yields an empty map.
func (s *Store) RetrieveAll(simType models.SimulationType) (map[string]Entry, error) {
	path := s.path(simType)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Entry{}, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	all := make(map[string]Entry)
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", path, err)
	}
	return all, nil
}
