package appointments

import (
	"fmt"
	"strings"
	"time"

	"github.com/atelierbeauty/salon-platform/internal/schedule"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment represents one booking request from a customer.
type Appointment struct {
	ID                 string    `json:"id"`
	FullName           string    `json:"full_name"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email,omitempty"`
	ServiceID          string    `json:"service_id,omitempty"`
	ServiceName        string    `json:"service_name"`
	AppointmentDate    string    `json:"appointment_date"` // "2006-01-02"
	AppointmentTime    string    `json:"appointment_time"` // "15:04"
	Notes              string    `json:"notes,omitempty"`
	Status             Status    `json:"status"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	ReminderSent       bool      `json:"reminder_sent"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// StartsAt combines date and time into a single instant in the given location.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02 15:04", a.AppointmentDate+" "+a.AppointmentTime, loc)
}

// SubmitRequest represents the booking form payload.
type SubmitRequest struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	ServiceID   string `json:"service_id,omitempty"`
	ServiceName string `json:"service_name"`
	Date        string `json:"appointment_date"`
	Time        string `json:"appointment_time"`
	Notes       string `json:"notes,omitempty"`
}

// Validate checks required fields and formats. Unknown-field rejection happens
// at the decode boundary in the handler.
func (r *SubmitRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if strings.TrimSpace(r.ServiceName) == "" {
		return fmt.Errorf("%w: service_name is required", ErrValidation)
	}
	if _, err := schedule.ParseDate(r.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := schedule.ParseClock(r.Time); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// ListFilter narrows and pages List results.
type ListFilter struct {
	Status   Status
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}
