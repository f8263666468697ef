// Package id provides the UUIDv7 identifiers used for accounts and parties.
package id

import (
	"github.com/google/uuid"
)

// ID identifies accounts, parties and sessions.
type ID = uuid.UUID

// New returns a time-ordered UUIDv7, falling back to v4 if the clock read fails.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse converts string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// IsNil reports whether v is the zero UUID.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
