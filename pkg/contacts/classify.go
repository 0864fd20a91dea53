package contacts

import "strings"

// Kind identifies which multi-valued attribute a labeled value belongs to.
type Kind string

const (
	KindEmail   Kind = "email"
	KindPhone   Kind = "phone"
	KindAddress Kind = "address"
	KindURL     Kind = "url"
)

// Category is the normalized classification of a raw source label.
type Category string

const (
	CategoryHome    Category = "home"
	CategoryWork    Category = "work"
	CategoryMobile  Category = "mobile"
	CategoryOther   Category = "other"
	CategoryWorkFax Category = "work_fax"
	CategoryHomeFax Category = "home_fax"
)

// Classify maps a raw source label to a Category using substring matching.
// Source labels are free-form and often carry vendor-internal markers like
// "_$!<Work>!$_"; anything unrecognized (including the empty label) falls
// back to CategoryOther. For phones, fax detection runs before the generic
// work/home match so "Work FAX" classifies as CategoryWorkFax, not
// CategoryWork.
func Classify(kind Kind, label string) Category {
	if kind == KindPhone {
		switch {
		case strings.Contains(label, "Mobile"), strings.Contains(label, "iPhone"):
			return CategoryMobile
		case strings.Contains(label, "Work") && strings.Contains(label, "FAX"):
			return CategoryWorkFax
		case strings.Contains(label, "Home") && strings.Contains(label, "FAX"):
			return CategoryHomeFax
		case strings.Contains(label, "Work"):
			return CategoryWork
		case strings.Contains(label, "Home"):
			return CategoryHome
		case strings.Contains(label, "Main"):
			// Main numbers are business lines.
			return CategoryWork
		default:
			return CategoryOther
		}
	}

	switch {
	case strings.Contains(label, "Work"):
		return CategoryWork
	case strings.Contains(label, "Home"):
		return CategoryHome
	default:
		return CategoryOther
	}
}

// columnPrefix returns the synthesized column prefix for a (kind, category)
// pair. Numbered columns append a 1-based per-person counter, e.g.
// "Home Email 2" or "Work Fax 1".
func columnPrefix(kind Kind, cat Category) string {
	switch kind {
	case KindEmail:
		switch cat {
		case CategoryHome:
			return "Home Email"
		case CategoryWork:
			return "Work Email"
		default:
			return "Other Email"
		}
	case KindPhone:
		switch cat {
		case CategoryMobile:
			return "Mobile Phone"
		case CategoryHome:
			return "Home Phone"
		case CategoryWork:
			return "Work Phone"
		case CategoryWorkFax:
			return "Work Fax"
		case CategoryHomeFax:
			return "Home Fax"
		default:
			return "Other Phone"
		}
	case KindAddress:
		switch cat {
		case CategoryHome:
			return "Home Address"
		case CategoryWork:
			return "Work Address"
		default:
			return "Other Address"
		}
	default:
		return "URL"
	}
}
