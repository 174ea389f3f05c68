package ledger

import (
	"sort"

	"github.com/viant/vacation/model"
)

// Key identifies an allowance record.
type Key struct {
	UserID string `json:"userId"`
	Year   int    `json:"year"`
}

// Record is the allowance of a user for a calendar year.
type Record struct {
	UserID   string `json:"userId"`
	Year     int    `json:"year"`
	Total    int    `json:"total"`
	Consumed int    `json:"consumed"`
}

// Key returns the record key.
func (r *Record) Key() Key { return Key{UserID: r.UserID, Year: r.Year} }

// Remaining returns Total - Consumed; it can be negative.
func (r *Record) Remaining() int { return r.Total - r.Consumed }

// Delta is a signed change of consumed days for one user and year.
type Delta struct {
	UserID string `json:"userId"`
	Year   int    `json:"year"`
	Days   int    `json:"days"`
}

// Charge returns the chargeable days of rng per calendar year, skipping
// holidays. Years with nothing chargeable are omitted.
func Charge(rng model.Range, holidays model.Calendar) map[int]int {
	ret := map[int]int{}
	if rng.Validate() != nil {
		return ret
	}
	if len(holidays) == 0 {
		for year, days := range rng.SplitByYear() {
			if days > 0 {
				ret[year] = days
			}
		}
		return ret
	}
	for d := rng.Start; !d.After(rng.End); d = d.AddDays(1) {
		if holidays.IsHoliday(d) {
			continue
		}
		ret[d.Year]++
	}
	return ret
}

// Consume returns the deltas booking charged days against userID.
func Consume(userID string, charged map[int]int) []Delta {
	return deltas(userID, charged, 1)
}

// Release returns the deltas reversing a prior Consume of the same charges.
func Release(userID string, charged map[int]int) []Delta {
	return deltas(userID, charged, -1)
}

func deltas(userID string, charged map[int]int, sign int) []Delta {
	years := make([]int, 0, len(charged))
	for year, days := range charged {
		if days != 0 {
			years = append(years, year)
		}
	}
	sort.Ints(years)
	ret := make([]Delta, 0, len(years))
	for _, year := range years {
		ret = append(ret, Delta{UserID: userID, Year: year, Days: sign * charged[year]})
	}
	return ret
}

// Apply adds the deltas matching the record's key to Consumed.
func (r *Record) Apply(deltas ...Delta) {
	for _, d := range deltas {
		if d.UserID == r.UserID && d.Year == r.Year {
			r.Consumed += d.Days
		}
	}
}

// Replay recomputes consumed days for userID and year from the approved
// requests. Requests in other states, of other users, or without a charge for
// the year contribute nothing.
func Replay(userID string, year int, requests []*model.Request) int {
	consumed := 0
	for _, r := range requests {
		if r == nil || r.UserID != userID || r.Status != model.StatusApproved {
			continue
		}
		consumed += r.Charged[year]
	}
	return consumed
}

// Verify reports whether the record agrees with a full replay, returning the
// replayed value.
func Verify(record *Record, requests []*model.Request) (int, bool) {
	expected := Replay(record.UserID, record.Year, requests)
	return expected, expected == record.Consumed
}
