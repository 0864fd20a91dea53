package backup

import (
	"bufio"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
)

// YAMLWriter writes the backup document as YAML.
type YAMLWriter struct {
	w *bufio.Writer
}

// NewYAMLWriter creates a YAML backup writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: bufio.NewWriter(w)}
}

// Write serializes the table.
func (w *YAMLWriter) Write(table *contacts.Table) error {
	doc := struct {
		ExportedAt time.Time      `yaml:"exported_at"`
		Columns    []string       `yaml:"columns"`
		Contacts   []contacts.Row `yaml:"contacts"`
	}{
		ExportedAt: time.Now().UTC(),
		Columns:    table.Columns.Names(),
		Contacts:   table.Rows,
	}

	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
