// Package dao holds the storage contracts shared by request, allowance and
// directory stores.
package dao

import (
	"context"
)

// Service is the basic keyed store of T.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	// Load returns ErrNotFound for an unknown key.
	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	// List returns entities matching parameters; unknown parameters are ignored.
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
