package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Absence is an expected steady-state condition: delete and query
	// against unknown sources report zero-count results instead.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input
	// (bad chunk size, overlap out of range, non-positive dimensions).
	// Invalid input is rejected before any state is touched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoContent indicates a document contained no indexable content
	// (empty or whitespace-only after windowing).
	ErrNoContent = errors.New("no indexable content")

	// ErrStorage indicates the chunk store failed (transaction abort,
	// connectivity loss). Front ends use this to distinguish "the
	// system is unavailable" from "your input was wrong". The core
	// never retries silently.
	ErrStorage = errors.New("storage failure")
)
