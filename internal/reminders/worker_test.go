package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atelierbeauty/salon-platform/internal/appointments"
)

type fakeStore struct {
	due    []*appointments.Appointment
	marked []string
	err    error
}

func (s *fakeStore) ListDueReminders(ctx context.Context, from, to time.Time, limit int) ([]*appointments.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.due) > limit {
		return s.due[:limit], nil
	}
	return s.due, nil
}

func (s *fakeStore) MarkReminderSent(ctx context.Context, id string) error {
	s.marked = append(s.marked, id)
	return nil
}

type fakeSender struct {
	sent   []string
	failID string
}

func (s *fakeSender) SendReminder(ctx context.Context, appt *appointments.Appointment) error {
	if appt.ID == s.failID {
		return errors.New("send failed")
	}
	s.sent = append(s.sent, appt.ID)
	return nil
}

func confirmedAppt(id string) *appointments.Appointment {
	return &appointments.Appointment{
		ID:              id,
		FullName:        "Ayşe Yılmaz",
		Email:           "ayse@example.com",
		ServiceName:     "Manicure",
		AppointmentDate: "2025-06-03",
		AppointmentTime: "10:00",
		Status:          appointments.StatusConfirmed,
	}
}

func TestDrainSendsAndMarks(t *testing.T) {
	store := &fakeStore{due: []*appointments.Appointment{confirmedAppt("a1"), confirmedAppt("a2")}}
	sender := &fakeSender{}

	w := NewWorker(store, sender, nil, nil)
	w.drain(context.Background())

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 reminders sent, got %d", len(sender.sent))
	}
	if len(store.marked) != 2 {
		t.Fatalf("expected 2 appointments marked, got %d", len(store.marked))
	}
}

func TestDrainFailedSendNotMarked(t *testing.T) {
	store := &fakeStore{due: []*appointments.Appointment{confirmedAppt("a1"), confirmedAppt("a2")}}
	sender := &fakeSender{failID: "a1"}

	w := NewWorker(store, sender, nil, nil)
	w.drain(context.Background())

	if len(sender.sent) != 1 || sender.sent[0] != "a2" {
		t.Fatalf("expected only a2 sent, got %v", sender.sent)
	}
	// a1 stays unmarked so the next tick retries it.
	if len(store.marked) != 1 || store.marked[0] != "a2" {
		t.Fatalf("expected only a2 marked, got %v", store.marked)
	}
}

func TestDrainStoreErrorIsNonFatal(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	sender := &fakeSender{}

	w := NewWorker(store, sender, nil, nil)
	w.drain(context.Background())

	if len(sender.sent) != 0 {
		t.Fatalf("expected no sends on store error, got %d", len(sender.sent))
	}
}

func TestDrainRespectsBatchSize(t *testing.T) {
	store := &fakeStore{due: []*appointments.Appointment{confirmedAppt("a1"), confirmedAppt("a2"), confirmedAppt("a3")}}
	sender := &fakeSender{}

	w := NewWorker(store, sender, nil, nil).WithBatchSize(2)
	w.drain(context.Background())

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 reminders with batch size 2, got %d", len(sender.sent))
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}

	w := NewWorker(store, sender, nil, nil).WithInterval(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}
