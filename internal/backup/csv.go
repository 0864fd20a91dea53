package backup

import (
	"encoding/csv"
	"io"

	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
)

// CSVWriter writes the tabular backup: header row first, one record per
// contact, all rows the same width.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter creates a CSV backup writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write serializes the table.
func (w *CSVWriter) Write(table *contacts.Table) error {
	cw := csv.NewWriter(w.w)
	if err := cw.WriteAll(table.Rectangle()); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
