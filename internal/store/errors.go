package store

import "errors"

// Sentinel errors shared by every store implementation.
var (
	// ErrNotFound is returned when no record matches, including the case
	// where a record exists but is not owned by the requesting user.
	// Ownership checks never reveal existence.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a uniqueness constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")
)
