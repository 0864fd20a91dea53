// Package checkpoint persists partial export progress to a local JSON
// file so a long run can resume after interruption without refetching
// already-processed records.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
)

// ErrCorrupt means the checkpoint file exists but cannot be trusted. The
// run fails fast and the operator deletes or fixes the file; silently
// restarting from zero would risk duplicate rows.
var ErrCorrupt = errors.New("checkpoint corrupt")

// State is one snapshot of export progress. Positions at or below
// LastIndex are never reprocessed on resume.
type State struct {
	RunID     string         `json:"run_id"`
	SavedAt   time.Time      `json:"saved_at"`
	Contacts  []contacts.Row `json:"contacts"`
	Columns   []string       `json:"columns"`
	LastIndex int            `json:"last_index"`
	Failed    []int          `json:"failed_positions,omitempty"`
}

// NewState returns a fresh state with a new run ID.
func NewState() *State {
	return &State{RunID: uuid.NewString()}
}

// Table rebuilds the accumulated table from the snapshot, including
// columns that no surviving row carries.
func (s *State) Table() *contacts.Table {
	table := contacts.NewTable()
	for _, name := range s.Columns {
		table.Columns.Add(name)
	}
	for _, row := range s.Contacts {
		table.Append(row)
	}
	return table
}

// Store reads and writes checkpoint snapshots at a fixed path. Each save
// rewrites the whole file through a temp-file rename so a crash mid-save
// never leaves a half-written checkpoint behind.
type Store struct {
	path string
}

// NewStore creates a store for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the checkpoint file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the last saved snapshot. A missing file returns (nil, nil);
// a file that exists but does not parse, or parses into nonsense, returns
// an error wrapping ErrCorrupt.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path) //#nosec G304 -- operator-configured checkpoint path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if st.LastIndex < 0 {
		return nil, fmt.Errorf("%w: %s: negative last_index %d", ErrCorrupt, s.path, st.LastIndex)
	}
	if len(st.Contacts) > 0 && len(st.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s: rows present but no columns recorded", ErrCorrupt, s.path)
	}
	return &st, nil
}

// Save overwrites the checkpoint with a new snapshot.
func (s *Store) Save(st *State) error {
	st.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("create checkpoint temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close checkpoint temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	return nil
}

// Clear removes the checkpoint file. Missing files are not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove checkpoint: %w", err)
	}
	return nil
}
