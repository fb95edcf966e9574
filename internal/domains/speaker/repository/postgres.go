package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"conference-backend/internal/domains/speaker"
	"conference-backend/internal/domains/speaker/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns the Postgres-backed speaker repository.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, s *model.Speaker) error {
	query := `
		INSERT INTO speakers (id, display_name, main_email, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, s.ID, s.DisplayName, s.MainEmail, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert speaker: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Speaker, error) {
	query := `
		SELECT id, display_name, main_email, created_at
		FROM speakers
		WHERE id = $1
	`

	var s model.Speaker
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.DisplayName,
		&s.MainEmail,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, speaker.ErrSpeakerNotFound
		}
		return nil, fmt.Errorf("select speaker: %w", err)
	}

	return &s, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM speakers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check speaker exists: %w", err)
	}
	return exists, nil
}
