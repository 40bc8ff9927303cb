package appointments

import (
	"context"
	"errors"

	"github.com/atelierbeauty/salon-platform/internal/identity"
	"github.com/atelierbeauty/salon-platform/internal/observability/metrics"
	"github.com/atelierbeauty/salon-platform/pkg/logging"
)

// Notifier is the hook invoked after a successful status change. Submission
// counts as a transition into pending with from="". Implementations run
// synchronously but their failures never surface to the caller.
type Notifier interface {
	NotifyTransition(ctx context.Context, appt *Appointment, from, to Status) error
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) NotifyTransition(context.Context, *Appointment, Status, Status) error {
	return nil
}

// Service wraps the repository with authorization checks, the notification
// hook and metrics. All staff-only operations require a staff actor in ctx.
type Service struct {
	repo     Repository
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewService creates an appointment service.
func NewService(repo Repository, notifier Notifier, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Submit records a customer booking request in pending state.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*Appointment, error) {
	appt, err := s.repo.Submit(ctx, req)
	if err != nil {
		s.metrics.ObserveSubmission(submissionResult(err))
		return nil, err
	}

	s.metrics.ObserveSubmission("accepted")
	s.notify(ctx, appt, "", StatusPending)
	return appt, nil
}

// Get returns one appointment. Staff only.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns appointments matching the filter. Staff only.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus applies a lifecycle transition. Staff only. A same-status
// repeat succeeds without firing the notification hook.
func (s *Service) UpdateStatus(ctx context.Context, id string, newStatus Status, cancellationReason string) (*Appointment, error) {
	if err := requireStaff(ctx); err != nil {
		return nil, err
	}

	appt, prev, err := s.repo.UpdateStatus(ctx, id, newStatus, cancellationReason)
	if err != nil {
		return nil, err
	}
	if prev != newStatus {
		s.metrics.ObserveTransition(string(prev), string(newStatus))
		s.notify(ctx, appt, prev, newStatus)
	}
	return appt, nil
}

// Delete removes an appointment permanently. Staff only.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := requireStaff(ctx); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// notify runs the hook and swallows its failure. The transition has already
// committed; a broken email integration must not undo it.
func (s *Service) notify(ctx context.Context, appt *Appointment, from, to Status) {
	if err := s.notifier.NotifyTransition(ctx, appt, from, to); err != nil {
		s.logger.Error("notification hook failed",
			"error", err,
			"appointment_id", appt.ID,
			"from", string(from),
			"to", string(to),
		)
	}
}

func requireStaff(ctx context.Context) error {
	actor, ok := identity.ActorFromContext(ctx)
	if !ok || !actor.IsStaff() {
		return ErrStaffRequired
	}
	return nil
}

func submissionResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	default:
		return "error"
	}
}
