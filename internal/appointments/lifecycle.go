package appointments

import "fmt"

// transitions lists every permitted status change. Customers only ever create
// appointments in pending; all of these are staff-triggered.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	// completed, cancelled and no_show are terminal.
}

// CanTransition reports whether moving from one status to another is a
// permitted change.
// Re-entering the current status is not a transition; callers treat it as a
// no-op success before consulting this.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leads out of s.
func Terminal(s Status) bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CheckTransition validates the requested status change, returning
// ErrInvalidTransition with both states named when it is not permitted.
func CheckTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
