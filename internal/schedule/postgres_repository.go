package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxQuerier is the subset of pgxpool.Pool the repository needs. Satisfied by
// pgxmock in tests.
type PgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRuleRepository stores working-hours rules in the relational database.
type PostgresRuleRepository struct {
	db PgxQuerier
}

// NewPostgresRuleRepository initializes a repo backed by pgxpool.
func NewPostgresRuleRepository(pool *pgxpool.Pool) *PostgresRuleRepository {
	if pool == nil {
		panic("schedule: pgx pool required")
	}
	return &PostgresRuleRepository{db: pool}
}

// NewPostgresRuleRepositoryWithQuerier allows injecting mocks for tests.
func NewPostgresRuleRepositoryWithQuerier(db PgxQuerier) *PostgresRuleRepository {
	return &PostgresRuleRepository{db: db}
}

const ruleColumns = `id, day_of_week, opening_time, closing_time, is_closed, appointment_interval_minutes, max_appointments_per_slot, created_at, updated_at`

// Upsert writes the rule for the request's weekday. The unique constraint on
// day_of_week makes a second concurrent insert fold into an update rather
// than producing a duplicate rule.
func (r *PostgresRuleRepository) Upsert(ctx context.Context, req *UpsertRuleRequest) (*WorkingHoursRule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO working_hours (id, day_of_week, opening_time, closing_time, is_closed, appointment_interval_minutes, max_appointments_per_slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (day_of_week) DO UPDATE SET
			opening_time = EXCLUDED.opening_time,
			closing_time = EXCLUDED.closing_time,
			is_closed = EXCLUDED.is_closed,
			appointment_interval_minutes = EXCLUDED.appointment_interval_minutes,
			max_appointments_per_slot = EXCLUDED.max_appointments_per_slot,
			updated_at = now()
		RETURNING ` + ruleColumns
	row := r.db.QueryRow(ctx, query,
		uuid.New(),
		string(req.DayOfWeek),
		req.OpeningTime,
		req.ClosingTime,
		req.IsClosed,
		req.IntervalMinutes,
		req.MaxPerSlot,
	)
	rule, err := scanRule(row)
	if err != nil {
		return nil, fmt.Errorf("schedule: upsert rule: %w", err)
	}
	return rule, nil
}

// GetByWeekday fetches the rule for one weekday.
func (r *PostgresRuleRepository) GetByWeekday(ctx context.Context, day Weekday) (*WorkingHoursRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM working_hours WHERE day_of_week = $1`
	rule, err := scanRule(r.db.QueryRow(ctx, query, string(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("schedule: select rule: %w", err)
	}
	return rule, nil
}

// List returns every configured rule ordered by weekday.
func (r *PostgresRuleRepository) List(ctx context.Context) ([]*WorkingHoursRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM working_hours
		ORDER BY array_position(ARRAY['monday','tuesday','wednesday','thursday','friday','saturday','sunday'], day_of_week)`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("schedule: list rules: %w", err)
	}
	defer rows.Close()

	var out []*WorkingHoursRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("schedule: scan rule: %w", err)
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedule: list rules: %w", err)
	}
	return out, nil
}

// Delete removes the rule for a weekday.
func (r *PostgresRuleRepository) Delete(ctx context.Context, day Weekday) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM working_hours WHERE day_of_week = $1`, string(day))
	if err != nil {
		return fmt.Errorf("schedule: delete rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func scanRule(row pgx.Row) (*WorkingHoursRule, error) {
	var rule WorkingHoursRule
	var day string
	if err := row.Scan(
		&rule.ID,
		&day,
		&rule.OpeningTime,
		&rule.ClosingTime,
		&rule.IsClosed,
		&rule.IntervalMinutes,
		&rule.MaxPerSlot,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rule.DayOfWeek = Weekday(day)
	return &rule, nil
}
