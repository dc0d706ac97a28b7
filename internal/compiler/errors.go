package compiler

import "errors"

var (
	// ErrInvalidVersion is returned when a version is not MAJOR.MINOR.PATCH.
	ErrInvalidVersion = errors.New("compiler version must be MAJOR.MINOR.PATCH")
	// ErrNoSources is returned when a standard-JSON input would be empty.
	ErrNoSources = errors.New("at least one source is required")
)
