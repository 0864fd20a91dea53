// Package source defines where contact records come from. A Source hands
// back person records by 1-based ordinal position; implementations own
// their own liveness and per-call time budgets.
package source

import (
	"context"
	"errors"

	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
)

// ErrSourceUnavailable means the source itself cannot be reached: the
// record count query failed or the scripting bridge is missing. Fatal to
// a run.
var ErrSourceUnavailable = errors.New("contact source unavailable")

// ErrAbsent means a single position could not be read: the lookup timed
// out, errored, or returned a malformed record. Non-fatal; the caller
// records the position as failed and moves on.
var ErrAbsent = errors.New("contact absent")

// Source is an ordered collection of person records.
type Source interface {
	// Count returns the number of available records. A failure here is
	// ErrSourceUnavailable.
	Count(ctx context.Context) (int, error)

	// Person returns the record at the 1-based position. Missing
	// sub-fields are tolerated independently; a record that cannot be
	// read at all returns an error wrapping ErrAbsent.
	Person(ctx context.Context, position int) (*contacts.Person, error)
}
