package reminders

import (
	"context"
	"time"

	"github.com/atelierbeauty/salon-platform/internal/appointments"
	"github.com/atelierbeauty/salon-platform/internal/observability/metrics"
	"github.com/atelierbeauty/salon-platform/pkg/logging"
)

type reminderStore interface {
	ListDueReminders(ctx context.Context, from, to time.Time, limit int) ([]*appointments.Appointment, error)
	MarkReminderSent(ctx context.Context, id string) error
}

type reminderSender interface {
	SendReminder(ctx context.Context, appt *appointments.Appointment) error
}

// Worker periodically reminds customers about upcoming confirmed
// appointments. Each appointment is reminded at most once; the flag is only
// set after a successful send, so a failed send retries on the next tick.
type Worker struct {
	store     reminderStore
	sender    reminderSender
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	interval  time.Duration
	window    time.Duration
	batchSize int
	now       func() time.Time
}

// NewWorker creates a reminder worker.
func NewWorker(store reminderStore, sender reminderSender, m *metrics.BookingMetrics, logger *logging.Logger) *Worker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Worker{
		store:     store,
		sender:    sender,
		metrics:   m,
		logger:    logger,
		interval:  15 * time.Minute,
		window:    24 * time.Hour,
		batchSize: 50,
		now:       time.Now,
	}
}

func (w *Worker) WithInterval(d time.Duration) *Worker {
	if d > 0 {
		w.interval = d
	}
	return w
}

// WithWindow sets how far ahead of the appointment start reminders go out.
func (w *Worker) WithWindow(d time.Duration) *Worker {
	if d > 0 {
		w.window = d
	}
	return w
}

func (w *Worker) WithBatchSize(n int) *Worker {
	if n > 0 {
		w.batchSize = n
	}
	return w
}

// Run blocks until ctx is cancelled, draining due reminders every interval.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	if w.store == nil || w.sender == nil {
		return
	}
	now := w.now().UTC()
	due, err := w.store.ListDueReminders(ctx, now, now.Add(w.window), w.batchSize)
	if err != nil {
		w.logger.Error("reminder fetch failed", "error", err)
		return
	}
	for _, appt := range due {
		if err := w.sender.SendReminder(ctx, appt); err != nil {
			w.metrics.ObserveReminder("failed")
			w.logger.Error("reminder send failed", "error", err, "appointment_id", appt.ID)
			continue
		}
		if err := w.store.MarkReminderSent(ctx, appt.ID); err != nil {
			w.logger.Error("mark reminder sent failed", "error", err, "appointment_id", appt.ID)
			continue
		}
		w.metrics.ObserveReminder("sent")
		w.logger.Info("reminder sent",
			"appointment_id", appt.ID,
			"date", appt.AppointmentDate,
			"time", appt.AppointmentTime,
		)
	}
}
