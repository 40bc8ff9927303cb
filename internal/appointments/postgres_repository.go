package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierbeauty/salon-platform/internal/schedule"
)

// PgxPool is the subset of pgxpool.Pool the repository needs. Satisfied by
// pgxmock in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithPool allows injecting mocks for tests.
func NewPostgresRepositoryWithPool(db PgxPool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const apptColumns = `id, full_name, phone, email, service_id, service_name, appointment_date, appointment_time, notes, status, cancellation_reason, reminder_sent, created_at, updated_at`

// Submit inserts a pending appointment. The availability check and the insert
// run in one transaction with the weekday's rule row locked, so two
// submissions racing for the last capacity unit serialize and the loser sees
// the winner's insert.
func (r *PostgresRepository) Submit(ctx context.Context, req *SubmitRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	day, _ := schedule.ParseDate(req.Date)
	start, _ := schedule.ParseClock(req.Time)
	req.Time = schedule.FormatClock(start)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("appointments: begin submit: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		openingTime string
		closingTime string
		isClosed    bool
		interval    int
		maxPerSlot  int
	)
	err = tx.QueryRow(ctx, `
		SELECT opening_time, closing_time, is_closed, appointment_interval_minutes, max_appointments_per_slot
		FROM working_hours
		WHERE day_of_week = $1
		FOR UPDATE
	`, string(schedule.WeekdayOf(day))).Scan(&openingTime, &closingTime, &isClosed, &interval, &maxPerSlot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no working hours for %s", ErrSlotUnavailable, schedule.WeekdayOf(day))
		}
		return nil, fmt.Errorf("appointments: load working hours: %w", err)
	}
	if isClosed {
		return nil, fmt.Errorf("%w: closed on %s", ErrSlotUnavailable, schedule.WeekdayOf(day))
	}
	open, err := schedule.ParseClock(openingTime)
	if err != nil {
		return nil, fmt.Errorf("appointments: bad opening_time: %w", err)
	}
	close, err := schedule.ParseClock(closingTime)
	if err != nil {
		return nil, fmt.Errorf("appointments: bad closing_time: %w", err)
	}
	if start < open || start >= close || (start-open)%interval != 0 {
		return nil, fmt.Errorf("%w: %s is outside bookable hours", ErrSlotUnavailable, req.Time)
	}

	var booked int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE appointment_date = $1 AND appointment_time = $2 AND status <> 'cancelled'
	`, req.Date, req.Time).Scan(&booked)
	if err != nil {
		return nil, fmt.Errorf("appointments: count slot occupancy: %w", err)
	}
	if booked >= maxPerSlot {
		return nil, fmt.Errorf("%w: slot %s %s is fully booked", ErrSlotUnavailable, req.Date, req.Time)
	}

	id := uuid.New()
	var createdAt, updatedAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO appointments (id, full_name, phone, email, service_id, service_name, appointment_date, appointment_time, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending')
		RETURNING created_at, updated_at
	`, id, req.FullName, req.Phone, nullable(req.Email), nullable(req.ServiceID), req.ServiceName, req.Date, req.Time, nullable(req.Notes)).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("appointments: commit submit: %w", err)
	}

	return &Appointment{
		ID:              id.String(),
		FullName:        req.FullName,
		Phone:           req.Phone,
		Email:           req.Email,
		ServiceID:       req.ServiceID,
		ServiceName:     req.ServiceName,
		AppointmentDate: req.Date,
		AppointmentTime: req.Time,
		Notes:           req.Notes,
		Status:          StatusPending,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}

// GetByID fetches one appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+apptColumns+` FROM appointments WHERE id = $1`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return appt, nil
}

// List returns appointments matching the filter, appointment date descending.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	query := `SELECT ` + apptColumns + ` FROM appointments`
	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		conds = append(conds, fmt.Sprintf("appointment_date >= $%d", len(args)))
	}
	if filter.DateTo != "" {
		args = append(args, filter.DateTo)
		conds = append(conds, fmt.Sprintf("appointment_date <= $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY appointment_date DESC, appointment_time DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Appointment{}
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	return out, nil
}

// UpdateStatus applies a lifecycle transition. The row is locked for the
// duration of the transaction so a concurrent update on the same id decides
// against the committed status, not a stale read.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, newStatus Status, cancellationReason string) (*Appointment, Status, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("appointments: begin update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `SELECT `+apptColumns+` FROM appointments WHERE id = $1 FOR UPDATE`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("appointments: select for update: %w", err)
	}

	prev := appt.Status
	if err := CheckTransition(prev, newStatus); err != nil {
		return nil, prev, err
	}
	if prev == newStatus {
		// No-op repeat, nothing to write.
		if err := tx.Commit(ctx); err != nil {
			return nil, prev, fmt.Errorf("appointments: commit update: %w", err)
		}
		return appt, prev, nil
	}

	var reason any
	if newStatus == StatusCancelled {
		reason = nullable(cancellationReason)
	} else {
		reason = nullable(appt.CancellationReason)
	}
	var updatedAt time.Time
	err = tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2, cancellation_reason = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, id, string(newStatus), reason).Scan(&updatedAt)
	if err != nil {
		return nil, prev, fmt.Errorf("appointments: update status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, prev, fmt.Errorf("appointments: commit update: %w", err)
	}

	appt.Status = newStatus
	if newStatus == StatusCancelled {
		appt.CancellationReason = cancellationReason
	}
	appt.UpdatedAt = updatedAt
	return appt, prev, nil
}

// Delete removes an appointment permanently.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveAtSlot counts non-cancelled appointments at the exact slot.
func (r *PostgresRepository) CountActiveAtSlot(ctx context.Context, date, clock string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE appointment_date = $1 AND appointment_time = $2 AND status <> 'cancelled'
	`, date, clock).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("appointments: count slot occupancy: %w", err)
	}
	return count, nil
}

// ListDueReminders returns confirmed, un-reminded appointments starting
// inside [from, to).
func (r *PostgresRepository) ListDueReminders(ctx context.Context, from, to time.Time, limit int) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+apptColumns+` FROM appointments
		WHERE status = 'confirmed' AND reminder_sent = false
		  AND (appointment_date || ' ' || appointment_time)::timestamp >= $1
		  AND (appointment_date || ' ' || appointment_time)::timestamp < $2
		ORDER BY appointment_date, appointment_time
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("appointments: list due reminders: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan reminder: %w", err)
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list due reminders: %w", err)
	}
	return out, nil
}

// MarkReminderSent flips the reminder flag.
func (r *PostgresRepository) MarkReminderSent(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE appointments SET reminder_sent = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	var email, serviceID, notes, reason *string
	var status string
	if err := row.Scan(
		&appt.ID,
		&appt.FullName,
		&appt.Phone,
		&email,
		&serviceID,
		&appt.ServiceName,
		&appt.AppointmentDate,
		&appt.AppointmentTime,
		&notes,
		&status,
		&reason,
		&appt.ReminderSent,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	appt.Status = Status(status)
	appt.Email = deref(email)
	appt.ServiceID = deref(serviceID)
	appt.Notes = deref(notes)
	appt.CancellationReason = deref(reason)
	return &appt, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
