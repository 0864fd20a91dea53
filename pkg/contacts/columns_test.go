package contacts

import (
	"slices"
	"testing"
)

func TestColumnSet_MergeIsMonotone(t *testing.T) {
	s := NewColumnSet()
	s.Merge(Row{"Home Email 1": "a@x.com", "First Name": "Jane"})
	before := s.Len()

	// A later row lacking those columns must not shrink the set.
	s.Merge(Row{"First Name": "Bob"})

	if s.Len() != before {
		t.Errorf("column set shrank: %d -> %d", before, s.Len())
	}
	if !slices.Contains(s.Names(), "Home Email 1") {
		t.Error("column lost after merging a row without it")
	}
}

func TestColumnSet_HeaderOrdering(t *testing.T) {
	s := NewColumnSet()
	s.Merge(Row{
		"First Name":   "Jane",
		"Work Email 1": "c@x.com",
		"Home Email 1": "a@x.com",
		"Work Phone 1": "555-2",
		"Home Fax 1":   "555-9",
		"Work Address 1": "1 Main St",
		"URL 2":        "https://b.example",
		"URL 1":        "https://a.example",
	})

	header := s.Header()

	// Fixed scalar block opens the header in declared order.
	if header[0] != ColFirstName || header[1] != ColLastName {
		t.Errorf("header does not start with the scalar block: %v", header[:3])
	}

	idx := func(name string) int { return slices.Index(header, name) }

	// Groups in order: emails, phones/faxes, addresses, trailing, urls.
	if !(idx("Home Email 1") < idx("Work Email 1")) {
		t.Error("email group not sorted")
	}
	if !(idx("Work Email 1") < idx("Home Fax 1")) {
		t.Error("phone group should follow email group")
	}
	if !(idx("Work Phone 1") > idx("Home Fax 1")) {
		t.Error("phone/fax group not sorted lexicographically")
	}
	if !(idx("Work Phone 1") < idx("Work Address 1")) {
		t.Error("address group should follow phone group")
	}
	if !(idx("Work Address 1") < idx(ColNotes)) {
		t.Error("trailing block should follow address group")
	}
	if !(idx(ColNotes) < idx("URL 1") && idx("URL 1") < idx("URL 2")) {
		t.Error("URL group should close the header, sorted")
	}
}

func TestColumnSet_HeaderStable(t *testing.T) {
	s := NewColumnSet()
	s.Merge(Row{"Home Email 1": "a", "Work Phone 1": "b", "URL 1": "c"})

	first := s.Header()
	for i := 0; i < 5; i++ {
		if got := s.Header(); !slices.Equal(got, first) {
			t.Fatalf("header ordering unstable:\n got %v\nwant %v", got, first)
		}
	}
}

func TestColumnSet_DefaultURLColumn(t *testing.T) {
	s := NewColumnSet()
	s.Merge(Row{"First Name": "Jane"})

	header := s.Header()
	if header[len(header)-1] != "URL 1" {
		t.Errorf("header should end with default URL 1, got %q", header[len(header)-1])
	}
}

func TestTable_RectangleIsRectangular(t *testing.T) {
	table := NewTable()
	table.Append(Row{"First Name": "Jane", "Work Email 1": "j@x.com", "Home Email 1": "j@y.com"})
	table.Append(Row{"First Name": "Bob", "Mobile Phone 1": "555-1"})

	rect := table.Rectangle()

	if len(rect) != 3 {
		t.Fatalf("expected header + 2 rows, got %d rows", len(rect))
	}
	width := len(rect[0])
	for i, row := range rect {
		if len(row) != width {
			t.Errorf("row %d has %d cells, want %d", i, len(row), width)
		}
	}

	// Missing cells render as "", never absent.
	header := rect[0]
	janeMobile := rect[1][slices.Index(header, "Mobile Phone 1")]
	if janeMobile != "" {
		t.Errorf("Jane's Mobile Phone 1 = %q, want empty string", janeMobile)
	}
}

func TestTable_ScenarioThreePeople(t *testing.T) {
	people := []*Person{
		{
			FirstName: Some("Jane"),
			Emails: []LabeledValue{
				{Label: "Work", Value: "j@x.com"},
				{Label: "Home", Value: "j@y.com"},
			},
		},
		{}, // no meaningful data, dropped by policy
		{
			FirstName: Some("Bob"),
			Phones:    []LabeledValue{{Label: "iPhone", Value: "555-1"}},
		},
	}

	table := NewTable()
	for _, p := range people {
		if KeepContactData.Keep(p) {
			table.Append(Flatten(p))
		}
	}

	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}

	header := table.Columns.Header()
	for _, want := range []string{
		"First Name", "Last Name", "Organization",
		"Work Email 1", "Home Email 1", "Mobile Phone 1",
	} {
		if !slices.Contains(header, want) {
			t.Errorf("header missing %q: %v", want, header)
		}
	}

	rect := table.Rectangle()
	mobileIdx := slices.Index(header, "Mobile Phone 1")
	if rect[1][mobileIdx] != "" {
		t.Errorf("Jane's Mobile Phone 1 = %q, want empty", rect[1][mobileIdx])
	}
	if rect[2][mobileIdx] != "555-1" {
		t.Errorf("Bob's Mobile Phone 1 = %q, want 555-1", rect[2][mobileIdx])
	}
}
