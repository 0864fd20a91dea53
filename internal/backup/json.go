package backup

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
)

// document is the JSON backup layout. Columns are stored alongside the
// rows so columns absent from every surviving row still round-trip.
type document struct {
	ExportedAt time.Time      `json:"exported_at"`
	Columns    []string       `json:"columns"`
	Contacts   []contacts.Row `json:"contacts"`
}

// JSONWriter writes the record-oriented JSON backup.
type JSONWriter struct {
	w *bufio.Writer
}

// NewJSONWriter creates a JSON backup writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(w)}
}

// Write serializes the table.
func (w *JSONWriter) Write(table *contacts.Table) error {
	doc := document{
		ExportedAt: time.Now().UTC(),
		Columns:    table.Columns.Names(),
		Contacts:   table.Rows,
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.w.Write(out); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// Load reads a JSON backup back into a table for re-upload.
func Load(path string) (*contacts.Table, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- operator-specified backup file
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse backup %s: %w", path, err)
	}

	table := contacts.NewTable()
	for _, name := range doc.Columns {
		table.Columns.Add(name)
	}
	for _, row := range doc.Contacts {
		table.Append(row)
	}
	return table, nil
}
