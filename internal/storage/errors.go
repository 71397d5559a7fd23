package storage

import "errors"

// Sentinel errors shared by the staging and feature stores. Every
// backend maps its driver-level failures onto these so callers can
// branch with errors.Is regardless of which store is wired in.
var (
	// ErrNotFound reports that no record matches the requested key.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey reports an insert that collides with an existing
	// record. Staged matches and exported feature rows are written once
	// and never rewritten, so a collision means the data is already there.
	ErrDuplicateKey = errors.New("duplicate key: record already stored")

	// ErrInvalidInput reports a record that fails validation before any
	// write is attempted.
	ErrInvalidInput = errors.New("invalid input")
)
