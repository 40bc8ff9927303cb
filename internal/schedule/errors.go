package schedule

import "errors"

var (
	// ErrInvalidRule is returned when a working-hours rule fails validation.
	ErrInvalidRule = errors.New("invalid working hours rule")

	// ErrRuleNotFound is returned when no rule exists for the weekday.
	ErrRuleNotFound = errors.New("working hours rule not found")

	// ErrDuplicateRule is returned when a second rule targets the same weekday.
	ErrDuplicateRule = errors.New("working hours rule already exists for weekday")

	// ErrInvalidSlotQuery is returned when a slot lookup carries a malformed
	// date or time.
	ErrInvalidSlotQuery = errors.New("invalid slot query")
)
