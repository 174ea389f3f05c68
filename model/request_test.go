package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransition(t *testing.T) {
	all := []Status{StatusSubmitted, StatusApproved, StatusRejected, StatusCancelled}
	allowed := map[Status][]Status{
		StatusSubmitted: {StatusApproved, StatusRejected, StatusCancelled},
		StatusApproved:  {StatusCancelled},
	}
	for _, from := range all {
		assert.True(t, from.IsValid())
		assert.Equal(t, from == StatusRejected || from == StatusCancelled, from.IsTerminal(), from)
		for _, to := range all {
			assert.Equal(t, contains(allowed[from], to), from.CanTransition(to), "%v -> %v", from, to)
		}
	}
	assert.False(t, Status("PENDING").IsValid())
}

func contains(statuses []Status, s Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func TestRequest_Clone(t *testing.T) {
	at := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	original := &Request{ID: "r1", Status: StatusApproved, DecidedAt: &at, Charged: map[int]int{2026: 5}}
	clone := original.Clone()
	assert.Equal(t, original, clone)

	clone.Charged[2026] = 1
	*clone.DecidedAt = at.Add(time.Hour)
	assert.Equal(t, 5, original.Charged[2026])
	assert.Equal(t, at, *original.DecidedAt)
	assert.Nil(t, (*Request)(nil).Clone())
}

func TestFilter_Matches(t *testing.T) {
	req := &Request{ID: "r1", UserID: "e1", TeamID: "eng", Status: StatusApproved,
		Start: MustDate("2026-03-01"), End: MustDate("2026-03-05")}
	march := NewRange(MustDate("2026-03-05"), MustDate("2026-03-10"))
	april := NewRange(MustDate("2026-04-01"), MustDate("2026-04-10"))
	var testCases = []struct {
		name     string
		filter   *Filter
		expected bool
	}{
		{name: "nil", filter: nil, expected: true},
		{name: "empty", filter: &Filter{}, expected: true},
		{name: "user", filter: &Filter{UserID: "e1"}, expected: true},
		{name: "other user", filter: &Filter{UserID: "e2"}, expected: false},
		{name: "team and status", filter: &Filter{TeamID: "eng", Statuses: []Status{StatusSubmitted, StatusApproved}}, expected: true},
		{name: "status mismatch", filter: &Filter{Statuses: []Status{StatusRejected}}, expected: false},
		{name: "overlapping", filter: &Filter{Overlaps: &march}, expected: true},
		{name: "disjoint", filter: &Filter{Overlaps: &april}, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filter.Matches(req))
		})
	}
}

func TestSortRequests(t *testing.T) {
	requests := []*Request{
		{ID: "b", Start: MustDate("2026-03-01")},
		{ID: "c", Start: MustDate("2026-01-01")},
		{ID: "a", Start: MustDate("2026-03-01")},
	}
	SortRequests(requests)
	assert.Equal(t, "c", requests[0].ID)
	assert.Equal(t, "a", requests[1].ID)
	assert.Equal(t, "b", requests[2].ID)
}

func TestSettings_Validate(t *testing.T) {
	var testCases = []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(s *Settings) {}},
		{name: "zero days", mutate: func(s *Settings) { s.DefaultVacationDays = 0 }, wantErr: true},
		{name: "too many days", mutate: func(s *Settings) { s.DefaultVacationDays = 366 }, wantErr: true},
		{name: "threshold bounds", mutate: func(s *Settings) { s.TeamOccupancyThreshold = 100 }},
		{name: "threshold above 100", mutate: func(s *Settings) { s.TeamOccupancyThreshold = 101 }, wantErr: true},
		{name: "negative notice", mutate: func(s *Settings) { s.MinRequestAdvanceNoticeDays = -1 }, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(s)
			assert.Equal(t, tc.wantErr, s.Validate() != nil)
		})
	}
	var nilSettings *Settings
	assert.Error(t, nilSettings.Validate())

	calendar := NewCalendar(MustDate("2026-01-01"))
	assert.True(t, calendar.IsHoliday(MustDate("2026-01-01")))
	assert.False(t, Calendar(nil).IsHoliday(MustDate("2026-01-01")))
}

func TestRole(t *testing.T) {
	assert.True(t, RoleHR.CanDecide())
	assert.True(t, RoleAdministrator.CanDecide())
	assert.False(t, RoleEmployee.CanDecide())
	assert.False(t, Role("MANAGER").IsValid())
}
