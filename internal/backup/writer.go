// Package backup serializes the flattened contact table to durable local
// artifacts. The JSON form is record-oriented and round-trips back into a
// table for re-upload; the CSV form is a plain tabular export.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
)

// Format represents backup format types.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// Writer serializes a table to one format.
type Writer interface {
	// Write outputs the full table.
	Write(table *contacts.Table) error
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(w), nil
	case FormatCSV:
		return NewCSVWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported backup format: %s", format)
	}
}

// WriteFiles writes the timestamped JSON and CSV backup pair under dir and
// returns both paths. The pair is written before any remote upload is
// attempted, so a sink failure never loses extracted data.
func WriteFiles(table *contacts.Table, dir string, now time.Time) (jsonPath, csvPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create backup dir: %w", err)
	}

	stamp := now.Format("20060102_150405")
	jsonPath = filepath.Join(dir, "contacts_"+stamp+".json")
	csvPath = filepath.Join(dir, "contacts_"+stamp+".csv")

	if err := writeFile(jsonPath, FormatJSON, table); err != nil {
		return "", "", err
	}
	if err := writeFile(csvPath, FormatCSV, table); err != nil {
		return "", "", err
	}
	return jsonPath, csvPath, nil
}

func writeFile(path string, format Format, table *contacts.Table) error {
	f, err := os.Create(path) //#nosec G304 -- backup path is operator-configured
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w, err := NewWriter(f, format)
	if err != nil {
		return err
	}
	if err := w.Write(table); err != nil {
		return fmt.Errorf("write %s backup: %w", format, err)
	}
	return nil
}
