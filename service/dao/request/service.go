// Package request defines the persistence contract of vacation requests.
package request

import (
	"context"

	"github.com/viant/vacation/ledger"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/dao"
)

// Service is the authoritative store of vacation requests.
//
// Save, Load, Delete and List are plain DAO operations (Load returns
// dao.ErrNotFound for unknown ids). CompareAndSave is the only way a
// transition is persisted: it stores req only when the stored status still
// equals expected, applies the allowance deltas in the same atomic unit, and
// returns dao.ErrConflict otherwise.
type Service interface {
	dao.Service[string, model.Request]

	CompareAndSave(ctx context.Context, req *model.Request, expected model.Status, deltas ...ledger.Delta) error

	// ListApprovedOverlapping returns APPROVED requests of teamID sharing at least one day with rng.
	ListApprovedOverlapping(ctx context.Context, teamID string, rng model.Range) ([]*model.Request, error)

	// TeamRosterSize returns the number of members of teamID.
	TeamRosterSize(ctx context.Context, teamID string) (int, error)
}
