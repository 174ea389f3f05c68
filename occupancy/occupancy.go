// Package occupancy computes how much of a team is simultaneously on approved
// leave over a date range. It is a pure function of its input: the "what-if"
// candidate is passed explicitly and never written anywhere.
package occupancy

import (
	"github.com/viant/vacation/model"
)

// Input describes one occupancy computation.
type Input struct {
	TeamID string
	Range  model.Range
	// Candidate, when set, is counted as approved on every day of Range.
	Candidate *model.Request
	// Approved are the other APPROVED requests of the team; entries that are
	// not approved, belong to another team, or are the candidate itself are ignored.
	Approved   []*model.Request
	RosterSize int
}

// Day is the occupancy of a single day.
type Day struct {
	Date  model.Date `json:"date"`
	Count int        `json:"count"`
	Ratio float64    `json:"ratio"`
}

// Snapshot is the transient result of a computation; it is never persisted.
type Snapshot struct {
	TeamID    string      `json:"teamId"`
	Range     model.Range `json:"range"`
	Roster    int         `json:"roster"`
	Days      []Day       `json:"days"`
	PeakCount int         `json:"peakCount"`
	Peak      float64     `json:"peak"`
	PeakDate  model.Date  `json:"peakDate"`
}

// Exceeds reports whether the peak is strictly above threshold percent.
// Integer arithmetic keeps the equality case exact.
func (s *Snapshot) Exceeds(threshold int) bool {
	if s == nil || s.Roster == 0 {
		return false
	}
	return s.PeakCount*100 > threshold*s.Roster
}

// Compute returns per-day and peak occupancy over in.Range. Each member is
// counted at most once per day. When the roster is smaller than the number of
// members seen on leave on some day, the roster is raised to that number.
func Compute(in Input) *Snapshot {
	ret := &Snapshot{TeamID: in.TeamID, Range: in.Range, Roster: in.RosterSize}
	if in.Range.Validate() != nil {
		return ret
	}
	relevant := make([]*model.Request, 0, len(in.Approved))
	for _, r := range in.Approved {
		if r == nil || r.Status != model.StatusApproved {
			continue
		}
		if in.TeamID != "" && r.TeamID != in.TeamID {
			continue
		}
		if in.Candidate != nil && r.ID == in.Candidate.ID {
			continue
		}
		if !r.Range().Overlaps(in.Range) {
			continue
		}
		relevant = append(relevant, r)
	}

	counts := make([]int, 0, in.Range.Days())
	for d := in.Range.Start; !d.After(in.Range.End); d = d.AddDays(1) {
		members := map[string]bool{}
		if in.Candidate != nil {
			members[in.Candidate.UserID] = true
		}
		for _, r := range relevant {
			if r.Range().Contains(d) {
				members[r.UserID] = true
			}
		}
		count := len(members)
		counts = append(counts, count)
		if count > ret.Roster {
			ret.Roster = count
		}
	}

	d := in.Range.Start
	for i, count := range counts {
		day := Day{Date: d, Count: count, Ratio: ratio(count, ret.Roster)}
		ret.Days = append(ret.Days, day)
		if i == 0 || count > ret.PeakCount {
			ret.PeakCount = count
			ret.PeakDate = d
		}
		d = d.AddDays(1)
	}
	ret.Peak = ratio(ret.PeakCount, ret.Roster)
	return ret
}

func ratio(count, roster int) float64 {
	if roster <= 0 {
		return 0
	}
	return float64(count) / float64(roster)
}
