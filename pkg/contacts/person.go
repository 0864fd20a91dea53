// Package contacts defines the domain model for address-book records and
// the normalization logic that turns them into flat tabular rows.
package contacts

import (
	"fmt"
	"strings"
)

// Field holds an optional scalar attribute. Absence stays distinct from an
// empty string until the value is serialized, where both render as "".
type Field struct {
	Value   string
	Present bool
}

// Some returns a present Field.
func Some(v string) Field {
	return Field{Value: v, Present: true}
}

// Absent is the zero Field.
var Absent = Field{}

// String renders the field for output. Absent fields render as "".
func (f Field) String() string {
	if !f.Present {
		return ""
	}
	return f.Value
}

// Empty reports whether the field is absent or blank.
func (f Field) Empty() bool {
	return !f.Present || strings.TrimSpace(f.Value) == ""
}

// Birthday is a calendar date from the source. Year is 0 when the source
// stores only month and day.
type Birthday struct {
	Month int
	Day   int
	Year  int
}

// Format renders the birthday as M/D/YYYY, or M/D without a year.
func (b Birthday) Format() string {
	if b.Year == 0 {
		return fmt.Sprintf("%d/%d", b.Month, b.Day)
	}
	return fmt.Sprintf("%d/%d/%d", b.Month, b.Day, b.Year)
}

// LabeledValue is one entry of a multi-valued attribute: a free-form label
// from the source paired with the value it labels.
type LabeledValue struct {
	Label string
	Value string
}

// Person is one contact record read from the source, addressed by its
// 1-based ordinal position. Every scalar attribute is independently
// optional; multi-valued attributes keep source order.
type Person struct {
	FirstName  Field
	LastName   Field
	MiddleName Field
	Nickname   Field
	NamePrefix Field
	NameSuffix Field

	Organization Field
	JobTitle     Field
	Department   Field

	Birthday *Birthday
	Note     Field

	Emails    []LabeledValue
	Phones    []LabeledValue
	Addresses []LabeledValue
	URLs      []LabeledValue

	IMHandles      []LabeledValue
	SocialProfiles []LabeledValue
	RelatedNames   []LabeledValue
}

// Row is the flattened tabular representation of one person: column name
// to cell value. Columns a person lacks are simply missing from the map
// and render as "" when the table is serialized.
type Row map[string]string
