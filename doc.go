// Package vacation provides the vacation request lifecycle and approval
// policy engine.
//
// Requests move from SUBMITTED to APPROVED or REJECTED, and from SUBMITTED
// or APPROVED to CANCELLED. Every transition is authorized against the acting
// user, checked against the team occupancy threshold and persisted together
// with the allowance ledger delta as one atomic unit.
//
// The Service facade wires the engine with its stores and exposes it to host
// applications:
//
//	srv, _ := vacation.New(vacation.WithLogger(logger))
//	req, _ := srv.Submit(ctx, "alice", model.NewRange(start, end))
//	req, err := srv.Approve(ctx, req.ID, "hr-bob", false)
//	if fault.Is(err, fault.ThresholdExceeded) {
//		peak, _ := fault.PeakOf(err)
//		...
//	}
//
// Engine packages (ledger, occupancy, policy, service/transition) never log;
// the facade logs and measures every operation outcome.
package vacation
