// Package transition executes vacation request transitions: it loads the
// request, resolves the actor, evaluates the policy and persists the new
// status together with the allowance deltas as one atomic unit.
//
// Approvals run under a per-team advisory lock so that the occupancy snapshot
// used for the threshold check cannot be invalidated by a concurrent approval
// of the same team. Every transition re-validates the prior status at persist
// time; losing a race yields a fault.Conflict error and changes nothing.
//
// The package never logs: every failure is returned as a *fault.Error.
package transition
