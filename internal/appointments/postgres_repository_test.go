package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var apptCols = []string{"id", "full_name", "phone", "email", "service_id", "service_name", "appointment_date", "appointment_time", "notes", "status", "cancellation_reason", "reminder_sent", "created_at", "updated_at"}

var workingHoursCols = []string{"opening_time", "closing_time", "is_closed", "appointment_interval_minutes", "max_appointments_per_slot"}

func apptRow(id string, status Status) *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows(apptCols).
		AddRow(id, "Ayşe Yılmaz", "+905551112233", nil, nil, "Manicure", testDate, "10:00", nil, string(status), nil, false, now, now)
}

func TestPostgresSubmit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT opening_time, closing_time").
		WithArgs("tuesday").
		WillReturnRows(pgxmock.NewRows(workingHoursCols).AddRow("09:00", "18:00", false, 30, 2))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(testDate, "10:00").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "Ayşe Yılmaz", "+905551112233", nil, nil, "Manicure", testDate, "10:00", nil).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	repo := NewPostgresRepositoryWithPool(mock)
	appt, err := repo.Submit(context.Background(), submitReq("10:00"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if appt.Status != StatusPending || appt.AppointmentTime != "10:00" {
		t.Errorf("unexpected appointment: %+v", appt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSubmitFullSlot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT opening_time, closing_time").
		WithArgs("tuesday").
		WillReturnRows(pgxmock.NewRows(workingHoursCols).AddRow("09:00", "18:00", false, 30, 2))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(testDate, "10:00").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	repo := NewPostgresRepositoryWithPool(mock)
	if _, err := repo.Submit(context.Background(), submitReq("10:00")); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestPostgresSubmitNoWorkingHours(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT opening_time, closing_time").
		WithArgs("tuesday").
		WillReturnRows(pgxmock.NewRows(workingHoursCols))
	mock.ExpectRollback()

	repo := NewPostgresRepositoryWithPool(mock)
	if _, err := repo.Submit(context.Background(), submitReq("10:00")); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestPostgresSubmitClosedDay(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT opening_time, closing_time").
		WithArgs("tuesday").
		WillReturnRows(pgxmock.NewRows(workingHoursCols).AddRow("", "", true, 30, 2))
	mock.ExpectRollback()

	repo := NewPostgresRepositoryWithPool(mock)
	if _, err := repo.Submit(context.Background(), submitReq("10:00")); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(apptCols))

	repo := NewPostgresRepositoryWithPool(mock)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE id (.+) FOR UPDATE").
		WithArgs("appt-1").
		WillReturnRows(apptRow("appt-1", StatusPending))
	mock.ExpectQuery("UPDATE appointments").
		WithArgs("appt-1", "confirmed", nil).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectCommit()

	repo := NewPostgresRepositoryWithPool(mock)
	appt, prev, err := repo.UpdateStatus(context.Background(), "appt-1", StatusConfirmed, "")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if prev != StatusPending || appt.Status != StatusConfirmed {
		t.Errorf("unexpected result: prev=%s status=%s", prev, appt.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateStatusSameStatusNoWrite(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE id (.+) FOR UPDATE").
		WithArgs("appt-1").
		WillReturnRows(apptRow("appt-1", StatusConfirmed))
	mock.ExpectCommit()

	repo := NewPostgresRepositoryWithPool(mock)
	appt, prev, err := repo.UpdateStatus(context.Background(), "appt-1", StatusConfirmed, "")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if prev != StatusConfirmed || appt.Status != StatusConfirmed {
		t.Errorf("unexpected result: prev=%s status=%s", prev, appt.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateStatusInvalidTransition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE id (.+) FOR UPDATE").
		WithArgs("appt-1").
		WillReturnRows(apptRow("appt-1", StatusCompleted))
	mock.ExpectRollback()

	repo := NewPostgresRepositoryWithPool(mock)
	if _, _, err := repo.UpdateStatus(context.Background(), "appt-1", StatusCancelled, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestPostgresDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("DELETE FROM appointments").
		WithArgs("appt-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewPostgresRepositoryWithPool(mock)
	if err := repo.Delete(context.Background(), "appt-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestPostgresDeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("DELETE FROM appointments").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepositoryWithPool(mock)
	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresCountActiveAtSlot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(testDate, "10:00").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	repo := NewPostgresRepositoryWithPool(mock)
	count, err := repo.CountActiveAtSlot(context.Background(), testDate, "10:00")
	if err != nil {
		t.Fatalf("CountActiveAtSlot: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2, got %d", count)
	}
}

func TestPostgresListDueReminders(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	from := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(from, to, 50).
		WillReturnRows(apptRow("appt-1", StatusConfirmed))

	repo := NewPostgresRepositoryWithPool(mock)
	due, err := repo.ListDueReminders(context.Background(), from, to, 50)
	if err != nil {
		t.Fatalf("ListDueReminders: %v", err)
	}
	if len(due) != 1 || due[0].ID != "appt-1" {
		t.Errorf("unexpected reminders: %+v", due)
	}
}

func TestPostgresMarkReminderSent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec("UPDATE appointments SET reminder_sent").
		WithArgs("appt-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewPostgresRepositoryWithPool(mock)
	if err := repo.MarkReminderSent(context.Background(), "appt-1"); err != nil {
		t.Fatalf("MarkReminderSent: %v", err)
	}
}
