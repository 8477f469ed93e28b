package db

import "errors"

var (
	// ErrNotFound is returned when no document matches a lookup or a
	// conditional write.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate document")
)
