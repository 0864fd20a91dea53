package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "checkpoint.json"))
}

func TestStore_LoadMissingFile(t *testing.T) {
	st, err := tempStore(t).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st != nil {
		t.Errorf("expected nil state for missing file, got %+v", st)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := tempStore(t)

	st := NewState()
	st.Contacts = []contacts.Row{
		{"First Name": "Jane", "Work Email 1": "j@x.com"},
	}
	st.Columns = []string{"First Name", "Home Email 1", "Work Email 1"}
	st.LastIndex = 42
	st.Failed = []int{7, 19}

	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.RunID != st.RunID {
		t.Errorf("RunID = %q, want %q", loaded.RunID, st.RunID)
	}
	if loaded.LastIndex != 42 {
		t.Errorf("LastIndex = %d, want 42", loaded.LastIndex)
	}
	if len(loaded.Contacts) != 1 || loaded.Contacts[0]["First Name"] != "Jane" {
		t.Errorf("Contacts not round-tripped: %v", loaded.Contacts)
	}
	if len(loaded.Failed) != 2 {
		t.Errorf("Failed = %v, want [7 19]", loaded.Failed)
	}
	if loaded.SavedAt.IsZero() {
		t.Error("SavedAt not set by Save")
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := tempStore(t)

	st := NewState()
	st.LastIndex = 10
	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	st.LastIndex = 20
	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.LastIndex != 20 {
		t.Errorf("LastIndex = %d, want 20", loaded.LastIndex)
	}
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "checkpoint.json"))

	if err := store.Save(NewState()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "checkpoint.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("unexpected files after save: %v", names)
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	_, err := NewStore(path).Load()
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestStore_LoadNegativeIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	if err := os.WriteFile(path, []byte(`{"last_index": -3}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	_, err := NewStore(path).Load()
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestStore_Clear(t *testing.T) {
	store := tempStore(t)

	if err := store.Save(NewState()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	// Clearing an already-missing file is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}

	st, err := store.Load()
	if err != nil || st != nil {
		t.Errorf("after Clear, Load() = (%v, %v), want (nil, nil)", st, err)
	}
}

func TestState_TableRestoresUnusedColumns(t *testing.T) {
	st := &State{
		Columns:  []string{"First Name", "Home Email 1"},
		Contacts: []contacts.Row{{"First Name": "Bob"}},
	}

	table := st.Table()
	if table.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", table.Len())
	}
	// "Home Email 1" survives even though no restored row carries it.
	found := false
	for _, name := range table.Columns.Names() {
		if name == "Home Email 1" {
			found = true
		}
	}
	if !found {
		t.Error("column without rows lost in restore")
	}
}
