package contacts

import (
	"fmt"
	"strconv"
	"strings"
)

// Fixed scalar column names, in header order.
const (
	ColFirstName    = "First Name"
	ColLastName     = "Last Name"
	ColMiddleName   = "Middle Name"
	ColNickname     = "Nickname"
	ColNamePrefix   = "Name Prefix"
	ColNameSuffix   = "Name Suffix"
	ColOrganization = "Organization"
	ColJobTitle     = "Job Title"
	ColDepartment   = "Department"
	ColBirthday     = "Birthday"

	ColNotes          = "Notes"
	ColIMHandles      = "IM Handles"
	ColSocialProfiles = "Social Profiles"
	ColRelatedNames   = "Related Names"
)

// scalarColumns is the fixed block that opens every header.
var scalarColumns = []string{
	ColFirstName, ColLastName, ColMiddleName, ColNickname,
	ColNamePrefix, ColNameSuffix,
	ColOrganization, ColJobTitle, ColDepartment,
	ColBirthday,
}

// trailingColumns sit between the address block and the URL block.
var trailingColumns = []string{
	ColNotes, ColIMHandles, ColSocialProfiles, ColRelatedNames,
}

// Flatten converts a person into a tabular row. Multi-valued attributes
// fan out into numbered columns: each entry is classified by label and a
// per-(person, category) counter produces names like "Home Email 2". The
// counter assignment depends only on the person's own entry order, never
// on other records in the batch. Semicolon-joined email and phone values
// are split into separate entries, a quirk of how some source records
// store multiple values in one field.
func Flatten(p *Person) Row {
	row := Row{
		ColFirstName:    p.FirstName.String(),
		ColLastName:     p.LastName.String(),
		ColMiddleName:   p.MiddleName.String(),
		ColNickname:     p.Nickname.String(),
		ColNamePrefix:   p.NamePrefix.String(),
		ColNameSuffix:   p.NameSuffix.String(),
		ColOrganization: p.Organization.String(),
		ColJobTitle:     p.JobTitle.String(),
		ColDepartment:   p.Department.String(),
		ColNotes:        p.Note.String(),
	}

	if p.Birthday != nil {
		row[ColBirthday] = p.Birthday.Format()
	} else {
		row[ColBirthday] = ""
	}

	counters := make(map[string]int)
	fanOut(row, counters, KindEmail, p.Emails, true)
	fanOut(row, counters, KindPhone, p.Phones, true)
	fanOut(row, counters, KindAddress, p.Addresses, false)

	for i, u := range p.URLs {
		if v := strings.TrimSpace(u.Value); v != "" {
			row["URL "+strconv.Itoa(i+1)] = v
		}
	}

	if v := joinLabeled(p.IMHandles); v != "" {
		row[ColIMHandles] = v
	}
	if v := joinLabeled(p.SocialProfiles); v != "" {
		row[ColSocialProfiles] = v
	}
	if v := joinLabeled(p.RelatedNames); v != "" {
		row[ColRelatedNames] = v
	}

	return row
}

// fanOut emits numbered columns for one multi-valued attribute.
func fanOut(row Row, counters map[string]int, kind Kind, entries []LabeledValue, splitValues bool) {
	for _, e := range entries {
		values := []string{e.Value}
		if splitValues && strings.Contains(e.Value, ";") {
			values = strings.Split(e.Value, ";")
		}
		prefix := columnPrefix(kind, Classify(kind, e.Label))
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			counters[prefix]++
			row[prefix+" "+strconv.Itoa(counters[prefix])] = v
		}
	}
}

// joinLabeled renders entries that never get numbered fan-out as one
// "label: value; label: value" cell.
func joinLabeled(entries []LabeledValue) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		v := strings.TrimSpace(e.Value)
		if v == "" {
			continue
		}
		if label := strings.TrimSpace(e.Label); label != "" {
			parts = append(parts, label+": "+v)
		} else {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "; ")
}

// KeepPolicy decides whether a flattened person carries enough meaningful
// data to be worth a row in the output table.
type KeepPolicy string

const (
	// KeepContactData keeps a person with a name, an organization, or at
	// least one email or phone entry.
	KeepContactData KeepPolicy = "contact-data"

	// KeepNameOrOrg keeps only people with a name or an organization.
	KeepNameOrOrg KeepPolicy = "name-or-org"

	// KeepAnyField keeps a person with any non-empty attribute at all.
	KeepAnyField KeepPolicy = "any-field"
)

// ParseKeepPolicy validates a policy name from configuration.
func ParseKeepPolicy(s string) (KeepPolicy, error) {
	switch KeepPolicy(s) {
	case KeepContactData, KeepNameOrOrg, KeepAnyField:
		return KeepPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown keep policy %q (use %q, %q or %q)",
			s, KeepContactData, KeepNameOrOrg, KeepAnyField)
	}
}

// Keep applies the policy to a person.
func (k KeepPolicy) Keep(p *Person) bool {
	named := !p.FirstName.Empty() || !p.LastName.Empty() || !p.Organization.Empty()
	switch k {
	case KeepNameOrOrg:
		return named
	case KeepAnyField:
		return named || anyValue(p.Emails) || anyValue(p.Phones) ||
			anyValue(p.Addresses) || anyValue(p.URLs) ||
			anyValue(p.IMHandles) || anyValue(p.SocialProfiles) || anyValue(p.RelatedNames) ||
			!p.MiddleName.Empty() || !p.Nickname.Empty() ||
			!p.NamePrefix.Empty() || !p.NameSuffix.Empty() ||
			!p.JobTitle.Empty() || !p.Department.Empty() ||
			!p.Note.Empty() || p.Birthday != nil
	default:
		return named || anyValue(p.Emails) || anyValue(p.Phones)
	}
}

func anyValue(entries []LabeledValue) bool {
	for _, e := range entries {
		if strings.TrimSpace(e.Value) != "" {
			return true
		}
	}
	return false
}
