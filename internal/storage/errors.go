package storage

import "errors"

var (
	// ErrNotFound is returned when an operation targets a habit or setting
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for bad caller input, e.g. an empty habit
	// name or a malformed date. Not retryable.
	ErrValidation = errors.New("validation failed")

	// ErrNotLoaded is returned when an operation runs before Init/Load.
	ErrNotLoaded = errors.New("storage not loaded")
)
