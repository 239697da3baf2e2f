package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a snapshot or statement is not found.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateReference is returned when a batch holds the same
	// reference URI twice. A snapshot stores each reference URI once.
	ErrDuplicateReference = errors.New("duplicate reference uri")

	// ErrEmptyReference is returned for a record without a reference URI.
	ErrEmptyReference = errors.New("empty reference uri")
)
