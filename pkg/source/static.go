package source

import (
	"context"
	"fmt"

	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
)

// Static serves a fixed slice of people from memory. Used in tests and
// dry runs where no scripting bridge exists.
type Static struct {
	people []*contacts.Person

	// FailAt maps 1-based positions to errors, simulating flaky lookups.
	FailAt map[int]error
}

// NewStatic creates an in-memory source.
func NewStatic(people ...*contacts.Person) *Static {
	return &Static{people: people}
}

// Count implements Source.
func (s *Static) Count(ctx context.Context) (int, error) {
	return len(s.people), nil
}

// Person implements Source.
func (s *Static) Person(ctx context.Context, position int) (*contacts.Person, error) {
	if err, ok := s.FailAt[position]; ok {
		return nil, fmt.Errorf("%w: position %d: %v", ErrAbsent, position, err)
	}
	if position < 1 || position > len(s.people) {
		return nil, fmt.Errorf("%w: position %d out of range [1, %d]", ErrAbsent, position, len(s.people))
	}
	return s.people[position-1], nil
}
