// Package directory resolves actor ids to authenticated identities.
package directory

import (
	"context"

	"github.com/viant/vacation/model"
)

// Service looks up actors. Unknown ids yield dao.ErrNotFound.
type Service interface {
	Lookup(ctx context.Context, actorID string) (*model.Actor, error)
}
