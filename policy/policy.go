package policy

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/viant/vacation/fault"
	"github.com/viant/vacation/ledger"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/occupancy"
)

// Operation names used in fault.Error.Op.
const (
	OpApprove = "approve"
	OpReject  = "reject"
	OpCancel  = "cancel"
)

// Policy carries the organisation rules applied to every transition.
//
//   - Threshold is the team occupancy limit in percent (0..100).
//   - Holidays are days that are not charged against the allowance.
type Policy struct {
	Threshold int
	Holidays  model.Calendar
}

// New builds a policy from organisation settings.
func New(settings *model.Settings) *Policy {
	if settings == nil {
		settings = model.DefaultSettings()
	}
	return &Policy{
		Threshold: settings.TeamOccupancyThreshold,
		Holidays:  model.NewCalendar(settings.Holidays...),
	}
}

// Decision is the outcome of a legal transition.
type Decision struct {
	// Request is an updated copy; the input request is never mutated.
	Request *model.Request
	// Prior is the status the store must still hold when persisting.
	Prior  model.Status
	Deltas []ledger.Delta
	// Occupancy is set for approvals.
	Occupancy *occupancy.Snapshot
}

// Approval holds the approve-specific inputs.
type Approval struct {
	Acknowledge bool
	// Approved are the other APPROVED requests of the team overlapping the candidate.
	Approved   []*model.Request
	RosterSize int
	At         time.Time
}

// Approve moves a SUBMITTED request to APPROVED. The candidate is simulated as
// approved; a peak strictly above the threshold fails with ThresholdExceeded
// unless acknowledged.
func (p *Policy) Approve(req *model.Request, actor *model.Actor, in Approval) (*Decision, error) {
	if err := AuthorizeDecision(OpApprove, req, actor); err != nil {
		return nil, err
	}
	if err := expectStatus(OpApprove, req, model.StatusSubmitted); err != nil {
		return nil, err
	}
	snapshot := occupancy.Compute(occupancy.Input{
		TeamID:     req.TeamID,
		Range:      req.Range(),
		Candidate:  req,
		Approved:   in.Approved,
		RosterSize: in.RosterSize,
	})
	if snapshot.Exceeds(p.Threshold) && !in.Acknowledge {
		return nil, fault.Threshold(OpApprove, snapshot.Peak, p.Threshold)
	}
	charged := ledger.Charge(req.Range(), p.Holidays)
	updated := req.Clone()
	updated.Status = model.StatusApproved
	at := in.At
	updated.DecidedAt = &at
	updated.DecidedBy = actor.ID
	updated.Charged = charged
	return &Decision{
		Request:   updated,
		Prior:     req.Status,
		Deltas:    ledger.Consume(req.UserID, charged),
		Occupancy: snapshot,
	}, nil
}

// Reject moves a SUBMITTED request to REJECTED with a non-empty reason of at
// most model.MaxReasonLength characters.
func (p *Policy) Reject(req *model.Request, actor *model.Actor, reason string, at time.Time) (*Decision, error) {
	if err := AuthorizeDecision(OpReject, req, actor); err != nil {
		return nil, err
	}
	if err := expectStatus(OpReject, req, model.StatusSubmitted); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fault.New(fault.Validation, OpReject, "rejection reason is required")
	}
	if n := utf8.RuneCountInString(reason); n > model.MaxReasonLength {
		return nil, fault.New(fault.Validation, OpReject, "rejection reason has %d characters, limit is %d", n, model.MaxReasonLength)
	}
	updated := req.Clone()
	updated.Status = model.StatusRejected
	updated.DecidedAt = &at
	updated.DecidedBy = actor.ID
	updated.RejectionReason = reason
	return &Decision{Request: updated, Prior: req.Status}, nil
}

// Cancel moves a SUBMITTED or APPROVED request to CANCELLED. Only the owner may
// cancel and only before the vacation starts; cancelling an approved request
// releases exactly the days charged on approval.
func (p *Policy) Cancel(req *model.Request, actor *model.Actor, today model.Date, at time.Time) (*Decision, error) {
	if err := AuthorizeCancel(req, actor); err != nil {
		return nil, err
	}
	if req.Status != model.StatusSubmitted && req.Status != model.StatusApproved {
		return nil, fault.New(fault.InvalidTransition, OpCancel, "request %v is %v", req.ID, req.Status)
	}
	if !req.Start.After(today) {
		return nil, fault.New(fault.InvalidTransition, OpCancel, "vacation %v already started on %v", req.ID, req.Start)
	}
	updated := req.Clone()
	updated.Status = model.StatusCancelled
	updated.CancelledAt = &at
	ret := &Decision{Request: updated, Prior: req.Status}
	if req.Status == model.StatusApproved {
		ret.Deltas = ledger.Release(req.UserID, req.Charged)
	}
	return ret, nil
}

// AuthorizeDecision checks that actor may approve or reject req: HR or
// ADMINISTRATOR, and never the request owner.
func AuthorizeDecision(op string, req *model.Request, actor *model.Actor) error {
	if actor == nil || actor.ID == "" {
		return fault.New(fault.Unauthenticated, op, "actor is required")
	}
	if !actor.Role.CanDecide() {
		return fault.New(fault.Forbidden, op, "role %v may not decide requests", actor.Role)
	}
	if actor.ID == req.UserID {
		return fault.New(fault.Forbidden, op, "self-approval is not allowed")
	}
	return nil
}

// AuthorizeCancel checks that actor owns req.
func AuthorizeCancel(req *model.Request, actor *model.Actor) error {
	if actor == nil || actor.ID == "" {
		return fault.New(fault.Unauthenticated, OpCancel, "actor is required")
	}
	if actor.ID != req.UserID {
		return fault.New(fault.Forbidden, OpCancel, "only the owner may cancel request %v", req.ID)
	}
	return nil
}

// DaysUntil returns the number of days from today to start; 0 when start is
// today, negative when it has passed.
func DaysUntil(start, today model.Date) int {
	return start.DaysSince(today)
}

func expectStatus(op string, req *model.Request, expected model.Status) error {
	if req.Status != expected {
		return fault.New(fault.InvalidTransition, op, "request %v is %v, expected %v", req.ID, req.Status, expected)
	}
	return nil
}
