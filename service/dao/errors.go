package dao

import "errors"

// Sentinel errors returned by every store; callers match them with errors.Is.
var (
	// ErrNotFound is returned when no request, record or actor has the key.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID is returned for an empty key.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when a nil entity is saved.
	ErrNilEntity = errors.New("dao: nil entity")

	// ErrConflict is returned by CompareAndSave when the stored request no
	// longer has the expected status.
	ErrConflict = errors.New("dao: conflict")
)
