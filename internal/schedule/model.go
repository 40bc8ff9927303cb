package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is the lowercase day name used as the working-hours rule key.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists all valid weekdays in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf maps a calendar date to its rule key.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(strings.ToLower(date.Weekday().String()))
}

// Valid reports whether w names a real weekday.
func (w Weekday) Valid() bool {
	for _, d := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// WorkingHoursRule configures bookable hours for one day of the week.
// At most one rule exists per weekday.
type WorkingHoursRule struct {
	ID              string    `json:"id"`
	DayOfWeek       Weekday   `json:"day_of_week"`
	OpeningTime     string    `json:"opening_time"` // "09:00", empty when closed
	ClosingTime     string    `json:"closing_time"` // "18:00", empty when closed
	IsClosed        bool      `json:"is_closed"`
	IntervalMinutes int       `json:"appointment_interval_minutes"`
	MaxPerSlot      int       `json:"max_appointments_per_slot"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpsertRuleRequest is the staff-facing payload for creating or replacing
// the rule of a single weekday.
type UpsertRuleRequest struct {
	DayOfWeek       Weekday `json:"day_of_week"`
	OpeningTime     string  `json:"opening_time"`
	ClosingTime     string  `json:"closing_time"`
	IsClosed        bool    `json:"is_closed"`
	IntervalMinutes int     `json:"appointment_interval_minutes"`
	MaxPerSlot      int     `json:"max_appointments_per_slot"`
}

// Validate checks rule invariants before any write.
func (r *UpsertRuleRequest) Validate() error {
	if !r.DayOfWeek.Valid() {
		return fmt.Errorf("%w: unknown day_of_week %q", ErrInvalidRule, r.DayOfWeek)
	}
	if r.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: appointment_interval_minutes must be positive", ErrInvalidRule)
	}
	if r.MaxPerSlot < 1 {
		return fmt.Errorf("%w: max_appointments_per_slot must be at least 1", ErrInvalidRule)
	}
	if r.IsClosed {
		return nil
	}
	open, err := ParseClock(r.OpeningTime)
	if err != nil {
		return fmt.Errorf("%w: opening_time: %v", ErrInvalidRule, err)
	}
	close, err := ParseClock(r.ClosingTime)
	if err != nil {
		return fmt.Errorf("%w: closing_time: %v", ErrInvalidRule, err)
	}
	if close <= open {
		return fmt.Errorf("%w: opening_time must be before closing_time", ErrInvalidRule)
	}
	return nil
}

// Slot is a derived (time, occupancy) pair for a single date. Never persisted.
type Slot struct {
	Time      string `json:"time"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Available bool   `json:"available"`
}

// ParseClock converts "HH:MM" (seconds tolerated and dropped) to minutes
// since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a calendar date in "YYYY-MM-DD" form.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}
