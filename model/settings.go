package model

import "fmt"

// Settings holds the organisation-wide vacation rules.
type Settings struct {
	DefaultVacationDays         int `json:"defaultVacationDays" yaml:"defaultVacationDays"`
	TeamOccupancyThreshold      int `json:"teamOccupancyThreshold" yaml:"teamOccupancyThreshold"`
	MinRequestAdvanceNoticeDays int `json:"minRequestAdvanceNoticeDays" yaml:"minRequestAdvanceNoticeDays"`
	// Holidays are days that never consume allowance.
	Holidays []Date `json:"holidays,omitempty" yaml:"holidays,omitempty"`
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() *Settings {
	return &Settings{
		DefaultVacationDays:         28,
		TeamOccupancyThreshold:      50,
		MinRequestAdvanceNoticeDays: 14,
	}
}

// Validate returns an error describing the first out-of-range setting.
func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("settings were nil")
	}
	if s.DefaultVacationDays < 1 || s.DefaultVacationDays > 365 {
		return fmt.Errorf("defaultVacationDays must be within 1..365, got %d", s.DefaultVacationDays)
	}
	if s.TeamOccupancyThreshold < 0 || s.TeamOccupancyThreshold > 100 {
		return fmt.Errorf("teamOccupancyThreshold must be within 0..100, got %d", s.TeamOccupancyThreshold)
	}
	if s.MinRequestAdvanceNoticeDays < 0 {
		return fmt.Errorf("minRequestAdvanceNoticeDays must be >= 0, got %d", s.MinRequestAdvanceNoticeDays)
	}
	return nil
}

// Calendar is a set of non-chargeable days.
type Calendar map[Date]bool

// NewCalendar builds a calendar from a list of days.
func NewCalendar(days ...Date) Calendar {
	ret := make(Calendar, len(days))
	for _, d := range days {
		ret[d] = true
	}
	return ret
}

// IsHoliday reports whether d is non-chargeable. A nil calendar has no holidays.
func (c Calendar) IsHoliday(d Date) bool { return c[d] }
