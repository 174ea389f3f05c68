// Package idgen generates vacation request identifiers. Ids are time ordered
// UUIDs so stores listing by id keep roughly submission order.
package idgen

import "github.com/google/uuid"

// NewFunc is replaced in tests that need stable ids.
var NewFunc = func() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// New returns a new request id.
func New() string { return NewFunc() }
