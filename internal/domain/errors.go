package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned by repositories on a unique constraint violation.
	ErrConflict = errors.New("record already exists")
)
