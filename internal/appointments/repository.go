package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelierbeauty/salon-platform/internal/schedule"
)

// Repository defines the interface for appointment storage. Submit and
// UpdateStatus are where the concurrency contract lives: Submit must make the
// capacity check and the insert atomic with respect to other submissions for
// the same slot, and UpdateStatus must serialize per appointment id so the
// transition check always sees the last committed status.
type Repository interface {
	Submit(ctx context.Context, req *SubmitRequest) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]*Appointment, error)
	// UpdateStatus returns the updated appointment and the status it held
	// before the change. A same-status update succeeds without modifying
	// the record.
	UpdateStatus(ctx context.Context, id string, newStatus Status, cancellationReason string) (*Appointment, Status, error)
	Delete(ctx context.Context, id string) error

	// CountActiveAtSlot satisfies schedule.OccupancyCounter.
	CountActiveAtSlot(ctx context.Context, date, clock string) (int, error)

	// ListDueReminders returns confirmed, un-reminded appointments starting
	// inside [from, to).
	ListDueReminders(ctx context.Context, from, to time.Time, limit int) ([]*Appointment, error)
	MarkReminderSent(ctx context.Context, id string) error
}

// InMemoryRepository implements Repository with a mutex guarding every
// check-then-write, which gives the same no-overbooking guarantee the
// Postgres implementation gets from transactions.
type InMemoryRepository struct {
	mu           sync.Mutex
	rules        schedule.RuleRepository
	appointments map[string]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository. The rule
// repository is consulted for the write-time availability check.
func NewInMemoryRepository(rules schedule.RuleRepository) *InMemoryRepository {
	return &InMemoryRepository{
		rules:        rules,
		appointments: make(map[string]*Appointment),
	}
}

// Submit validates the request, re-checks slot availability under the lock
// and inserts the appointment as pending.
func (r *InMemoryRepository) Submit(ctx context.Context, req *SubmitRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	// Times are stored normalized to HH:MM so slot counting can compare
	// values directly.
	if mins, err := schedule.ParseClock(req.Time); err == nil {
		req.Time = schedule.FormatClock(mins)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ok, err := r.slotOpenLocked(ctx, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrSlotUnavailable, req.Date, req.Time)
	}

	now := time.Now().UTC()
	appt := &Appointment{
		ID:              uuid.NewString(),
		FullName:        req.FullName,
		Phone:           req.Phone,
		Email:           req.Email,
		ServiceID:       req.ServiceID,
		ServiceName:     req.ServiceName,
		AppointmentDate: req.Date,
		AppointmentTime: req.Time,
		Notes:           req.Notes,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.appointments[appt.ID] = appt

	out := *appt
	return &out, nil
}

// slotOpenLocked applies the slot calendar rules against current occupancy.
// Caller holds r.mu.
func (r *InMemoryRepository) slotOpenLocked(ctx context.Context, date, clock string) (bool, error) {
	day, err := schedule.ParseDate(date)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	start, err := schedule.ParseClock(clock)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	rule, err := r.rules.GetByWeekday(ctx, schedule.WeekdayOf(day))
	if err != nil {
		if errors.Is(err, schedule.ErrRuleNotFound) {
			return false, nil
		}
		return false, err
	}
	if rule.IsClosed {
		return false, nil
	}
	open, err := schedule.ParseClock(rule.OpeningTime)
	if err != nil {
		return false, err
	}
	close, err := schedule.ParseClock(rule.ClosingTime)
	if err != nil {
		return false, err
	}
	if start < open || start >= close || (start-open)%rule.IntervalMinutes != 0 {
		return false, nil
	}

	booked := 0
	normalized := schedule.FormatClock(start)
	for _, a := range r.appointments {
		if a.AppointmentDate == date && a.AppointmentTime == normalized && a.Status != StatusCancelled {
			booked++
		}
	}
	return booked < rule.MaxPerSlot, nil
}

// GetByID retrieves an appointment by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *appt
	return &out, nil
}

// List returns appointments matching the filter, newest appointment first.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Appointment
	for _, a := range r.appointments {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.DateFrom != "" && a.AppointmentDate < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && a.AppointmentDate > filter.DateTo {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate > out[j].AppointmentDate
		}
		return out[i].AppointmentTime > out[j].AppointmentTime
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []*Appointment{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	if out == nil {
		out = []*Appointment{}
	}
	return out, nil
}

// UpdateStatus applies a lifecycle transition under the lock.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, newStatus Status, cancellationReason string) (*Appointment, Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, "", ErrNotFound
	}
	prev := appt.Status
	if err := CheckTransition(prev, newStatus); err != nil {
		return nil, prev, err
	}
	if prev != newStatus {
		appt.Status = newStatus
		if newStatus == StatusCancelled {
			appt.CancellationReason = cancellationReason
		}
		appt.UpdatedAt = time.Now().UTC()
	}
	out := *appt
	return &out, prev, nil
}

// Delete removes an appointment permanently.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

// CountActiveAtSlot counts non-cancelled appointments at the exact slot.
func (r *InMemoryRepository) CountActiveAtSlot(ctx context.Context, date, clock string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, a := range r.appointments {
		if a.AppointmentDate == date && a.AppointmentTime == clock && a.Status != StatusCancelled {
			count++
		}
	}
	return count, nil
}

// ListDueReminders returns confirmed, un-reminded appointments in the window.
func (r *InMemoryRepository) ListDueReminders(ctx context.Context, from, to time.Time, limit int) ([]*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Appointment
	for _, a := range r.appointments {
		if a.Status != StatusConfirmed || a.ReminderSent {
			continue
		}
		starts, err := a.StartsAt(time.UTC)
		if err != nil {
			continue
		}
		if starts.Before(from) || !starts.Before(to) {
			continue
		}
		cp := *a
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// MarkReminderSent flips the reminder flag.
func (r *InMemoryRepository) MarkReminderSent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.appointments[id]
	if !ok {
		return ErrNotFound
	}
	appt.ReminderSent = true
	appt.UpdatedAt = time.Now().UTC()
	return nil
}
