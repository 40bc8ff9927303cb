package notify

import (
	"context"
	"fmt"

	"github.com/atelierbeauty/salon-platform/internal/appointments"
	"github.com/atelierbeauty/salon-platform/pkg/logging"
)

// AppointmentNotifier emails staff about new booking requests and customers
// about confirmations, cancellations and reminders. It satisfies
// appointments.Notifier; the service swallows any error it returns.
type AppointmentNotifier struct {
	email      EmailSender
	staffEmail string
	salonName  string
	logger     *logging.Logger
}

// NewAppointmentNotifier creates a notifier. A nil email sender disables all
// delivery while keeping the hook wired.
func NewAppointmentNotifier(email EmailSender, staffEmail, salonName string, logger *logging.Logger) *AppointmentNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	if salonName == "" {
		salonName = "Atelier Beauty"
	}
	return &AppointmentNotifier{
		email:      email,
		staffEmail: staffEmail,
		salonName:  salonName,
		logger:     logger,
	}
}

// NotifyTransition sends the email matching the transition, if any.
func (n *AppointmentNotifier) NotifyTransition(ctx context.Context, appt *appointments.Appointment, from, to appointments.Status) error {
	if n.email == nil {
		return nil
	}

	switch {
	case from == "" && to == appointments.StatusPending:
		return n.notifyStaffNewRequest(ctx, appt)
	case to == appointments.StatusConfirmed:
		return n.notifyCustomer(ctx, appt,
			"Your appointment is confirmed",
			fmt.Sprintf("Hello %s,\n\nYour %s appointment on %s at %s is confirmed.\n\nSee you soon,\n%s",
				appt.FullName, appt.ServiceName, appt.AppointmentDate, appt.AppointmentTime, n.salonName))
	case to == appointments.StatusCancelled:
		body := fmt.Sprintf("Hello %s,\n\nYour %s appointment on %s at %s has been cancelled.",
			appt.FullName, appt.ServiceName, appt.AppointmentDate, appt.AppointmentTime)
		if appt.CancellationReason != "" {
			body += "\nReason: " + appt.CancellationReason
		}
		body += fmt.Sprintf("\n\n%s", n.salonName)
		return n.notifyCustomer(ctx, appt, "Your appointment was cancelled", body)
	default:
		// completed and no_show generate no customer mail.
		return nil
	}
}

// SendReminder emails the customer ahead of a confirmed appointment.
func (n *AppointmentNotifier) SendReminder(ctx context.Context, appt *appointments.Appointment) error {
	if n.email == nil {
		return nil
	}
	return n.notifyCustomer(ctx, appt,
		"Appointment reminder",
		fmt.Sprintf("Hello %s,\n\nThis is a reminder for your %s appointment on %s at %s.\n\n%s",
			appt.FullName, appt.ServiceName, appt.AppointmentDate, appt.AppointmentTime, n.salonName))
}

func (n *AppointmentNotifier) notifyStaffNewRequest(ctx context.Context, appt *appointments.Appointment) error {
	if n.staffEmail == "" {
		n.logger.Debug("no staff email configured, skipping new request notification")
		return nil
	}
	body := fmt.Sprintf("New appointment request:\n\nCustomer: %s\nPhone: %s\nService: %s\nDate: %s\nTime: %s",
		appt.FullName, appt.Phone, appt.ServiceName, appt.AppointmentDate, appt.AppointmentTime)
	if appt.Email != "" {
		body += "\nEmail: " + appt.Email
	}
	if appt.Notes != "" {
		body += "\nNotes: " + appt.Notes
	}
	return n.email.Send(ctx, EmailMessage{
		To:      n.staffEmail,
		ToName:  n.salonName,
		Subject: fmt.Sprintf("New appointment request from %s", appt.FullName),
		Body:    body,
	})
}

func (n *AppointmentNotifier) notifyCustomer(ctx context.Context, appt *appointments.Appointment, subject, body string) error {
	if appt.Email == "" {
		n.logger.Debug("appointment has no customer email, skipping notification", "appointment_id", appt.ID)
		return nil
	}
	return n.email.Send(ctx, EmailMessage{
		To:      appt.Email,
		ToName:  appt.FullName,
		Subject: subject,
		Body:    body,
	})
}

var _ appointments.Notifier = (*AppointmentNotifier)(nil)
