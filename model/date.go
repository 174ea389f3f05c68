package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day without time of day or zone. The zero value is not a
// valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns a normalised date, so NewDate(2025, 12, 32) is 2026-01-01.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// DateIn returns the calendar day of t observed in loc.
func DateIn(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(t.In(loc))
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustDate parses YYYY-MM-DD and panics on error; meant for fixtures.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

const secondsPerDay = 24 * 60 * 60

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DaysSince returns the number of days from o to d (negative when d is before o).
func (d Date) DaysSince(o Date) int {
	return int((d.Time().Unix() - o.Time().Unix()) / secondsPerDay)
}

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

func (d Date) After(o Date) bool { return d.Time().After(o.Time()) }

func (d Date) String() string { return d.Time().Format(DateLayout) }

func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Range is an inclusive span of days.
type Range struct {
	Start Date `json:"start" yaml:"start"`
	End   Date `json:"end" yaml:"end"`
}

// NewRange returns a range; it does not validate ordering.
func NewRange(start, end Date) Range { return Range{Start: start, End: end} }

// Validate checks both ends are set and Start <= End.
func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("range start and end are required")
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("range end %v is before start %v", r.End, r.Start)
	}
	return nil
}

// Days returns the inclusive number of days in the range, 0 when inverted.
func (r Range) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return r.End.DaysSince(r.Start) + 1
}

// Overlaps reports whether the two inclusive ranges share at least one day.
func (r Range) Overlaps(o Range) bool {
	return !r.End.Before(o.Start) && !o.End.Before(r.Start)
}

// Contains reports whether d falls within the range.
func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Intersect returns the shared sub-range and false when ranges do not overlap.
func (r Range) Intersect(o Range) (Range, bool) {
	if !r.Overlaps(o) {
		return Range{}, false
	}
	ret := r
	if o.Start.After(ret.Start) {
		ret.Start = o.Start
	}
	if o.End.Before(ret.End) {
		ret.End = o.End
	}
	return ret, true
}

// SplitByYear returns the number of days of the range falling into each
// calendar year.
func (r Range) SplitByYear() map[int]int {
	ret := map[int]int{}
	if r.End.Before(r.Start) {
		return ret
	}
	for year := r.Start.Year; year <= r.End.Year; year++ {
		part, ok := r.Intersect(Range{Start: NewDate(year, time.January, 1), End: NewDate(year, time.December, 31)})
		if ok {
			ret[year] = part.Days()
		}
	}
	return ret
}

func (r Range) String() string { return r.Start.String() + ".." + r.End.String() }
