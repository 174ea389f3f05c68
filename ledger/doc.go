// Package ledger derives per-user, per-year vacation allowance balances.
//
// A Record is a projection over APPROVED requests: Replay is the canonical
// definition of Consumed, and the incremental Deltas produced on approval and
// cancellation must always agree with it.
package ledger
