package contacts

import (
	"sort"
	"strings"
)

// ColumnSet tracks every column name seen across processed rows. The set
// only grows: a column discovered once stays in the header even when later
// rows lack it, and those rows render "" for it.
type ColumnSet struct {
	seen map[string]struct{}
}

// NewColumnSet returns an empty column set.
func NewColumnSet() *ColumnSet {
	return &ColumnSet{seen: make(map[string]struct{})}
}

// Add records a single column name.
func (s *ColumnSet) Add(name string) {
	s.seen[name] = struct{}{}
}

// Merge records every column present in the row.
func (s *ColumnSet) Merge(row Row) {
	for name := range row {
		s.seen[name] = struct{}{}
	}
}

// Len returns the number of distinct columns seen.
func (s *ColumnSet) Len() int {
	return len(s.seen)
}

// Names returns the seen columns sorted, for serialization.
func (s *ColumnSet) Names() []string {
	names := make([]string, 0, len(s.seen))
	for name := range s.seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Header returns the deterministic output ordering: the fixed scalar block
// first, then the discovered Email, Phone/Fax and Address columns (each
// group sorted), then the trailing scalar columns, then the URL columns.
// A sheet always carries at least "URL 1" so re-imports see the column.
func (s *ColumnSet) Header() []string {
	fixed := make(map[string]struct{}, len(scalarColumns)+len(trailingColumns))
	for _, name := range scalarColumns {
		fixed[name] = struct{}{}
	}
	for _, name := range trailingColumns {
		fixed[name] = struct{}{}
	}

	var emails, phones, addresses, urls []string
	for name := range s.seen {
		if _, ok := fixed[name]; ok {
			continue
		}
		switch {
		case strings.Contains(name, "Email"):
			emails = append(emails, name)
		case strings.Contains(name, "Phone"), strings.Contains(name, "Fax"):
			phones = append(phones, name)
		case strings.Contains(name, "Address"):
			addresses = append(addresses, name)
		case strings.HasPrefix(name, "URL"):
			urls = append(urls, name)
		}
	}
	sort.Strings(emails)
	sort.Strings(phones)
	sort.Strings(addresses)
	sort.Strings(urls)
	if len(urls) == 0 {
		urls = []string{"URL 1"}
	}

	header := make([]string, 0, len(scalarColumns)+len(emails)+len(phones)+len(addresses)+len(trailingColumns)+len(urls))
	header = append(header, scalarColumns...)
	header = append(header, emails...)
	header = append(header, phones...)
	header = append(header, addresses...)
	header = append(header, trailingColumns...)
	header = append(header, urls...)
	return header
}

// Table accumulates flattened rows and their discovered columns.
type Table struct {
	Columns *ColumnSet
	Rows    []Row
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{Columns: NewColumnSet()}
}

// Append adds a row and merges its columns into the set.
func (t *Table) Append(row Row) {
	t.Columns.Merge(row)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Rectangle serializes the table as header + data rows. Every row has
// exactly len(header) cells; values missing from a row render as "".
func (t *Table) Rectangle() [][]string {
	header := t.Columns.Header()
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, header)
	for _, row := range t.Rows {
		cells := make([]string, len(header))
		for i, name := range header {
			cells[i] = row[name]
		}
		out = append(out, cells)
	}
	return out
}
