package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/atelierbeauty/salon-platform/pkg/logging"
)

// OccupancyCounter reports how many non-cancelled appointments already occupy
// an exact (date, time) slot. Implemented by the appointments repository.
type OccupancyCounter interface {
	CountActiveAtSlot(ctx context.Context, date, clock string) (int, error)
}

// Calendar answers slot availability questions from working-hours rules and
// current occupancy. It holds no state of its own: every answer is computed
// fresh because bookings can land between calls.
type Calendar struct {
	rules  RuleRepository
	counts OccupancyCounter
	logger *logging.Logger
}

// NewCalendar creates a slot calendar.
func NewCalendar(rules RuleRepository, counts OccupancyCounter, logger *logging.Logger) *Calendar {
	if logger == nil {
		logger = logging.Default()
	}
	return &Calendar{rules: rules, counts: counts, logger: logger}
}

// IsSlotAvailable reports whether (date, clock) can take one more appointment.
// It fails closed: any rule miss, off-grid time, out-of-hours time or
// exhausted capacity yields false.
func (c *Calendar) IsSlotAvailable(ctx context.Context, date, clock string, durationMinutes int) (bool, error) {
	day, err := ParseDate(date)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSlotQuery, err)
	}
	start, err := ParseClock(clock)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSlotQuery, err)
	}

	rule, err := c.rules.GetByWeekday(ctx, WeekdayOf(day))
	if err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			// A day without a rule is fully closed.
			return false, nil
		}
		return false, err
	}
	if rule.IsClosed {
		return false, nil
	}

	open, close, err := ruleBounds(rule)
	if err != nil {
		c.logger.Error("working hours rule has unparseable times", "day", rule.DayOfWeek, "error", err)
		return false, err
	}

	if start < open || start >= close {
		return false, nil
	}
	// Reject times that do not sit on the interval grid instead of rounding.
	if (start-open)%rule.IntervalMinutes != 0 {
		return false, nil
	}
	if durationMinutes > 0 && start+durationMinutes > close {
		return false, nil
	}

	booked, err := c.counts.CountActiveAtSlot(ctx, day.Format("2006-01-02"), FormatClock(start))
	if err != nil {
		return false, err
	}
	return booked < rule.MaxPerSlot, nil
}

// ListSlots enumerates the full slot grid for a date with current occupancy.
// The sequence is empty when the day is closed or has no rule.
func (c *Calendar) ListSlots(ctx context.Context, date string) ([]Slot, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlotQuery, err)
	}

	rule, err := c.rules.GetByWeekday(ctx, WeekdayOf(day))
	if err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			return []Slot{}, nil
		}
		return nil, err
	}
	if rule.IsClosed {
		return []Slot{}, nil
	}

	open, close, err := ruleBounds(rule)
	if err != nil {
		c.logger.Error("working hours rule has unparseable times", "day", rule.DayOfWeek, "error", err)
		return nil, err
	}

	dateStr := day.Format("2006-01-02")
	var slots []Slot
	for at := open; at < close; at += rule.IntervalMinutes {
		clock := FormatClock(at)
		booked, err := c.counts.CountActiveAtSlot(ctx, dateStr, clock)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{
			Time:      clock,
			Capacity:  rule.MaxPerSlot,
			Booked:    booked,
			Available: booked < rule.MaxPerSlot,
		})
	}
	if slots == nil {
		slots = []Slot{}
	}
	return slots, nil
}

func ruleBounds(rule *WorkingHoursRule) (open, close int, err error) {
	open, err = ParseClock(rule.OpeningTime)
	if err != nil {
		return 0, 0, fmt.Errorf("schedule: rule %s has bad opening_time: %w", rule.DayOfWeek, err)
	}
	close, err = ParseClock(rule.ClosingTime)
	if err != nil {
		return 0, 0, fmt.Errorf("schedule: rule %s has bad closing_time: %w", rule.DayOfWeek, err)
	}
	return open, close, nil
}
