// Package allowance defines the persistence contract of allowance records.
// Records are a rebuildable projection; request stores apply transition
// deltas to them atomically through request.Service.CompareAndSave.
package allowance

import (
	"context"

	"github.com/viant/vacation/ledger"
)

// Service stores allowance records.
//
// Load never returns dao.ErrNotFound: a missing record is reported with the
// store's default total and nothing consumed.
type Service interface {
	Load(ctx context.Context, key ledger.Key) (*ledger.Record, error)

	// Adjust adds days (possibly negative) to the consumed balance.
	Adjust(ctx context.Context, delta ledger.Delta) error

	// SetTotal overrides the annual quota.
	SetTotal(ctx context.Context, key ledger.Key, total int) error

	// Reset overwrites the consumed balance, used when rebuilding from a replay.
	Reset(ctx context.Context, key ledger.Key, consumed int) error
}
