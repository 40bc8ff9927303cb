package appointments

import "errors"

var (
	// ErrValidation is returned when a request carries missing or malformed
	// fields. Always caller-fixable, never retried here.
	ErrValidation = errors.New("validation error")

	// ErrSlotUnavailable is returned when the requested slot is outside
	// working hours or its capacity is exhausted.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrNotFound is returned when no appointment has the given id.
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidTransition is returned when a status change is not permitted
	// by the lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrStaffRequired is returned when a staff-only operation is attempted
	// without a staff identity.
	ErrStaffRequired = errors.New("staff access required")
)
