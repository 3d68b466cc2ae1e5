package model

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// ID is a 128-bit entity identifier, rendered in the canonical 8-4-4-4-12
// form at the boundary. IDs are totally ordered by their raw byte value,
// which is the ordering the AVL index relies on.
type ID uuid.UUID

// NewID generates a fresh random identifier.
func NewID() ID {
	return ID(uuid.New())
}

// ParseID parses the canonical textual form of an ID.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("parse id %q: %w", s, err)
	}
	return ID(u), nil
}

// String renders the ID in canonical 8-4-4-4-12 form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Compare returns -1, 0, or 1 depending on whether id is less than, equal
// to, or greater than other, by raw byte value. This is the ordering the
// AVL index keys on.
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// IsZero reports whether id is the zero-value identifier.
func (id ID) IsZero() bool {
	return id == ID{}
}

// MarshalText implements encoding.TextMarshaler so ID can be used as a JSON
// string and as a map key.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
