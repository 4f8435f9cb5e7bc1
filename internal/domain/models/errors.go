package models

import "errors"

// Sentinel errors for the inventory domain. Check with errors.Is.
var (
	// ErrNotFound indicates no item exists for the given id and owner.
	ErrNotFound = errors.New("item not found")

	// ErrForbidden indicates the item exists but belongs to another owner.
	// The HTTP layer renders this exactly like ErrNotFound so the existence
	// of other users' records never leaks.
	ErrForbidden = errors.New("item not owned by caller")

	// ErrInvalidArgument indicates a malformed request, such as an empty
	// search query.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict indicates a display identifier collision on insert. With
	// atomic allocation this should be unreachable; seeing it means the
	// allocator is broken, not that the caller should retry.
	ErrConflict = errors.New("display identifier conflict")

	// ErrServiceUnavailable indicates the store could not be reached in
	// time. Retryable by the caller with backoff.
	ErrServiceUnavailable = errors.New("storage unavailable")
)

// ValidationError carries per-field messages for a rejected create or update.
// Detected before any mutation; a rejected submission never consumes a
// sequence number.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
