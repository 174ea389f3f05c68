package model

import (
	"sort"
	"time"
)

// Status represents a vacation request lifecycle state.
type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// MaxReasonLength caps the rejection reason, in characters.
const MaxReasonLength = 500

// IsValid reports whether s is one of the four lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// CanTransition reports whether the state machine has an edge from s to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusSubmitted:
		return next == StatusApproved || next == StatusRejected || next == StatusCancelled
	case StatusApproved:
		return next == StatusCancelled
	}
	return false
}

// Request represents a vacation request
type Request struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	TeamID          string     `json:"teamId"`
	Start           Date       `json:"start"`
	End             Date       `json:"end"`
	Status          Status     `json:"status"`
	SubmittedAt     time.Time  `json:"submittedAt"`
	DecidedAt       *time.Time `json:"decidedAt,omitempty"`
	DecidedBy       string     `json:"decidedBy,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	// Charged holds the allowance days booked per calendar year on approval;
	// cancellation reverses exactly these amounts.
	Charged map[int]int `json:"charged,omitempty"`
}

// Range returns the inclusive span of the request.
func (r *Request) Range() Range { return Range{Start: r.Start, End: r.End} }

// Days returns the inclusive number of calendar days requested.
func (r *Request) Days() int { return r.Range().Days() }

// Clone returns a deep copy.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	ret := *r
	if r.DecidedAt != nil {
		t := *r.DecidedAt
		ret.DecidedAt = &t
	}
	if r.CancelledAt != nil {
		t := *r.CancelledAt
		ret.CancelledAt = &t
	}
	if r.Charged != nil {
		ret.Charged = make(map[int]int, len(r.Charged))
		for k, v := range r.Charged {
			ret.Charged[k] = v
		}
	}
	return &ret
}

// ChargedYears returns the years of Charged in ascending order.
func (r *Request) ChargedYears() []int {
	years := make([]int, 0, len(r.Charged))
	for year := range r.Charged {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// Filter narrows request listings; empty fields match everything.
type Filter struct {
	UserID   string
	TeamID   string
	Statuses []Status
	Overlaps *Range
}

// Matches reports whether r satisfies the filter.
func (f *Filter) Matches(r *Request) bool {
	if f == nil {
		return true
	}
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.TeamID != "" && r.TeamID != f.TeamID {
		return false
	}
	if len(f.Statuses) > 0 {
		matched := false
		for _, s := range f.Statuses {
			if r.Status == s {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if f.Overlaps != nil && !r.Range().Overlaps(*f.Overlaps) {
		return false
	}
	return true
}

// SortRequests orders requests by start date, then id.
func SortRequests(requests []*Request) {
	sort.Slice(requests, func(i, j int) bool {
		a, b := requests[i], requests[j]
		if a.Start != b.Start {
			return a.Start.Before(b.Start)
		}
		return a.ID < b.ID
	})
}
