package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxQuerier is the subset of pgxpool.Pool the repository needs.
type PgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores the service catalog in the relational database.
type PostgresRepository struct {
	db PgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithQuerier allows injecting mocks for tests.
func NewPostgresRepositoryWithQuerier(db PgxQuerier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const serviceColumns = `id, title, slug, description, short_description, price_cents, duration_minutes, category, is_active, display_order, created_at, updated_at`

// Create inserts a new service row.
func (r *PostgresRepository) Create(ctx context.Context, req *UpsertServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO services (id, title, slug, description, short_description, price_cents, duration_minutes, category, is_active, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + serviceColumns
	svc, err := scanService(r.db.QueryRow(ctx, query,
		uuid.New(),
		req.Title,
		req.Slug,
		req.Description,
		req.ShortDescription,
		req.PriceCents,
		req.DurationMinutes,
		req.Category,
		req.IsActive,
		req.DisplayOrder,
	))
	if err != nil {
		return nil, fmt.Errorf("catalog: insert failed: %w", err)
	}
	return svc, nil
}

// Update replaces the stored fields of an existing service.
func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpsertServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE services
		SET title = $2, slug = $3, description = $4, short_description = $5, price_cents = $6,
			duration_minutes = $7, category = $8, is_active = $9, display_order = $10, updated_at = now()
		WHERE id = $1
		RETURNING ` + serviceColumns
	svc, err := scanService(r.db.QueryRow(ctx, query,
		id,
		req.Title,
		req.Slug,
		req.Description,
		req.ShortDescription,
		req.PriceCents,
		req.DurationMinutes,
		req.Category,
		req.IsActive,
		req.DisplayOrder,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: update failed: %w", err)
	}
	return svc, nil
}

// GetByID fetches one service.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Service, error) {
	svc, err := scanService(r.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: select failed: %w", err)
	}
	return svc, nil
}

// List returns services in display order, optionally active only.
func (r *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY display_order, title`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Service{}
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan failed: %w", err)
		}
		out = append(out, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list failed: %w", err)
	}
	return out, nil
}

// Delete removes a service row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func scanService(row pgx.Row) (*Service, error) {
	var svc Service
	if err := row.Scan(
		&svc.ID,
		&svc.Title,
		&svc.Slug,
		&svc.Description,
		&svc.ShortDescription,
		&svc.PriceCents,
		&svc.DurationMinutes,
		&svc.Category,
		&svc.IsActive,
		&svc.DisplayOrder,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &svc, nil
}
