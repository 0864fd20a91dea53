package contacts

import (
	"reflect"
	"testing"
)

func TestFlatten_CounterAssignment(t *testing.T) {
	p := &Person{
		FirstName: Some("Jane"),
		Emails: []LabeledValue{
			{Label: "Home", Value: "a@x.com"},
			{Label: "Home", Value: "b@x.com"},
			{Label: "Work", Value: "c@x.com"},
		},
	}

	row := Flatten(p)

	want := map[string]string{
		"Home Email 1": "a@x.com",
		"Home Email 2": "b@x.com",
		"Work Email 1": "c@x.com",
	}
	for col, val := range want {
		if row[col] != val {
			t.Errorf("row[%q] = %q, want %q", col, row[col], val)
		}
	}
}

func TestFlatten_Deterministic(t *testing.T) {
	p := &Person{
		FirstName: Some("Jane"),
		Emails: []LabeledValue{
			{Label: "Home", Value: "a@x.com"},
			{Label: "Work", Value: "c@x.com"},
		},
		Phones: []LabeledValue{
			{Label: "iPhone", Value: "555-1"},
		},
	}

	first := Flatten(p)
	for i := 0; i < 5; i++ {
		if got := Flatten(p); !reflect.DeepEqual(got, first) {
			t.Fatalf("Flatten not deterministic:\n got %v\nwant %v", got, first)
		}
	}
}

func TestFlatten_CountersPerCategory(t *testing.T) {
	p := &Person{
		FirstName: Some("Bob"),
		Phones: []LabeledValue{
			{Label: "iPhone", Value: "555-1"},
			{Label: "Work", Value: "555-2"},
			{Label: "Mobile", Value: "555-3"},
			{Label: "Work FAX", Value: "555-4"},
		},
	}

	row := Flatten(p)

	want := map[string]string{
		"Mobile Phone 1": "555-1",
		"Work Phone 1":   "555-2",
		"Mobile Phone 2": "555-3",
		"Work Fax 1":     "555-4",
	}
	for col, val := range want {
		if row[col] != val {
			t.Errorf("row[%q] = %q, want %q", col, row[col], val)
		}
	}
}

func TestFlatten_SplitsSemicolonValues(t *testing.T) {
	p := &Person{
		FirstName: Some("Jane"),
		Emails: []LabeledValue{
			{Label: "Work", Value: "a@x.com; b@x.com"},
		},
	}

	row := Flatten(p)

	if row["Work Email 1"] != "a@x.com" || row["Work Email 2"] != "b@x.com" {
		t.Errorf("semicolon values not split: %v", row)
	}
}

func TestFlatten_ScalarsAndBirthday(t *testing.T) {
	p := &Person{
		FirstName:    Some("Jane"),
		LastName:     Some("Doe"),
		Organization: Some("Acme"),
		Birthday:     &Birthday{Month: 3, Day: 14, Year: 1980},
		Note:         Some("met at conference"),
	}

	row := Flatten(p)

	if row[ColFirstName] != "Jane" || row[ColLastName] != "Doe" {
		t.Errorf("name columns wrong: %v", row)
	}
	if row[ColBirthday] != "3/14/1980" {
		t.Errorf("row[Birthday] = %q, want 3/14/1980", row[ColBirthday])
	}
	if row[ColNotes] != "met at conference" {
		t.Errorf("row[Notes] = %q", row[ColNotes])
	}

	// Absent scalar renders as empty string, not missing.
	if v, ok := row[ColMiddleName]; !ok || v != "" {
		t.Errorf("absent middle name should render as %q, got %q (present=%v)", "", v, ok)
	}
}

func TestFlatten_BirthdayWithoutYear(t *testing.T) {
	b := Birthday{Month: 7, Day: 4}
	if got := b.Format(); got != "7/4" {
		t.Errorf("Format() = %q, want 7/4", got)
	}
}

func TestFlatten_URLColumns(t *testing.T) {
	p := &Person{
		FirstName: Some("Jane"),
		URLs: []LabeledValue{
			{Label: "HomePage", Value: "https://a.example"},
			{Label: "", Value: "https://b.example"},
		},
	}

	row := Flatten(p)

	if row["URL 1"] != "https://a.example" || row["URL 2"] != "https://b.example" {
		t.Errorf("URL columns wrong: %v", row)
	}
}

func TestFlatten_JoinedColumns(t *testing.T) {
	p := &Person{
		FirstName: Some("Jane"),
		SocialProfiles: []LabeledValue{
			{Label: "Twitter", Value: "@jane"},
			{Label: "LinkedIn", Value: "jane-doe"},
		},
		RelatedNames: []LabeledValue{
			{Label: "spouse", Value: "Sam Doe"},
		},
	}

	row := Flatten(p)

	if row[ColSocialProfiles] != "Twitter: @jane; LinkedIn: jane-doe" {
		t.Errorf("row[Social Profiles] = %q", row[ColSocialProfiles])
	}
	if row[ColRelatedNames] != "spouse: Sam Doe" {
		t.Errorf("row[Related Names] = %q", row[ColRelatedNames])
	}
}

func TestKeepPolicy_ContactData(t *testing.T) {
	empty := &Person{}
	noteOnly := &Person{Note: Some("just a note")}
	phoneOnly := &Person{Phones: []LabeledValue{{Label: "iPhone", Value: "555-1"}}}
	named := &Person{FirstName: Some("Jane")}

	if KeepContactData.Keep(empty) {
		t.Error("empty person should be dropped")
	}
	if KeepContactData.Keep(noteOnly) {
		t.Error("note-only person should be dropped")
	}
	if !KeepContactData.Keep(phoneOnly) {
		t.Error("phone-only person should be kept")
	}
	if !KeepContactData.Keep(named) {
		t.Error("named person should be kept")
	}
}

func TestKeepPolicy_NameOrOrg(t *testing.T) {
	phoneOnly := &Person{Phones: []LabeledValue{{Label: "iPhone", Value: "555-1"}}}
	orgOnly := &Person{Organization: Some("Acme")}

	if KeepNameOrOrg.Keep(phoneOnly) {
		t.Error("phone-only person should be dropped under name-or-org")
	}
	if !KeepNameOrOrg.Keep(orgOnly) {
		t.Error("org-only person should be kept under name-or-org")
	}
}

func TestKeepPolicy_AnyField(t *testing.T) {
	noteOnly := &Person{Note: Some("just a note")}
	empty := &Person{}
	blankField := &Person{FirstName: Some("  ")}

	if !KeepAnyField.Keep(noteOnly) {
		t.Error("note-only person should be kept under any-field")
	}
	if KeepAnyField.Keep(empty) {
		t.Error("empty person should be dropped under any-field")
	}
	if KeepAnyField.Keep(blankField) {
		t.Error("whitespace-only field is not meaningful data")
	}
}

func TestParseKeepPolicy(t *testing.T) {
	if _, err := ParseKeepPolicy("contact-data"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseKeepPolicy("everything"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
