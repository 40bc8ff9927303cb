package appointments

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
		{StatusConfirmed, StatusNoShow}:    true,
	}

	statuses := []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}
	for _, from := range statuses {
		for _, to := range statuses {
			if from == to {
				continue
			}
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		if !Terminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusConfirmed} {
		if Terminal(s) {
			t.Errorf("expected %s to not be terminal", s)
		}
	}
	if Terminal("bogus") {
		t.Errorf("expected invalid status to not be terminal")
	}
}

func TestCheckTransitionSameStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow} {
		if err := CheckTransition(s, s); err != nil {
			t.Errorf("expected same-status %s to be a no-op, got %v", s, err)
		}
	}
}

func TestCheckTransitionInvalid(t *testing.T) {
	cases := [][2]Status{
		{StatusPending, StatusCompleted},
		{StatusPending, StatusNoShow},
		{StatusCompleted, StatusPending},
		{StatusCompleted, StatusConfirmed},
		{StatusCancelled, StatusConfirmed},
		{StatusNoShow, StatusConfirmed},
		{StatusConfirmed, StatusPending},
	}
	for _, c := range cases {
		if err := CheckTransition(c[0], c[1]); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("CheckTransition(%s, %s): expected ErrInvalidTransition, got %v", c[0], c[1], err)
		}
	}
}

func TestCheckTransitionUnknownTarget(t *testing.T) {
	if err := CheckTransition(StatusPending, "archived"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}
}
