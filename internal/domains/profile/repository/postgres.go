package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"conference-backend/internal/domains/profile"
	"conference-backend/internal/domains/profile/model"
	"conference-backend/pkg/cache"
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository returns the Postgres-backed profile repository
// with cache-aside reads.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func (r *postgresRepository) CreateOrGet(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	query := `
		INSERT INTO profiles (id, display_name, main_email, tee_shirt_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.DisplayName, p.MainEmail, p.TeeShirtSize, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	return r.getByID(ctx, p.ID)
}

// FindByID with cache-aside. Cache key convention: "entity:id".
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	cacheKey := fmt.Sprintf("profile:%s", id.String())

	var cached model.Profile
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return &cached, nil
	}

	p, err := r.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Best-effort cache fill, reads must not fail on cache errors
	_ = r.cache.Set(ctx, cacheKey, p, 10*time.Minute)

	return p, nil
}

func (r *postgresRepository) getByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `
		SELECT id, display_name, main_email, tee_shirt_size, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p model.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.DisplayName,
		&p.MainEmail,
		&p.TeeShirtSize,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("select profile: %w", err)
	}

	return &p, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, tee_shirt_size = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, p.ID, p.DisplayName, p.TeeShirtSize, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}

	// Invalidate cached copy
	_ = r.cache.Delete(ctx, fmt.Sprintf("profile:%s", p.ID.String()))

	return nil
}

// ========================================
// WISHLIST
// ========================================

func (r *postgresRepository) AddToWishlist(ctx context.Context, profileID, sessionID uuid.UUID) error {
	query := `
		INSERT INTO session_wishlist (profile_id, session_id, added_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, profileID, sessionID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return profile.ErrAlreadyInWishlist
		}
		return fmt.Errorf("insert wishlist entry: %w", err)
	}
	return nil
}

// RemoveFromWishlist reports whether an entry was actually removed.
// Removing an absent entry is not an error.
func (r *postgresRepository) RemoveFromWishlist(ctx context.Context, profileID, sessionID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM session_wishlist WHERE profile_id = $1 AND session_id = $2`,
		profileID, sessionID)
	if err != nil {
		return false, fmt.Errorf("delete wishlist entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) ListWishlist(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT session_id FROM session_wishlist WHERE profile_id = $1 ORDER BY added_at`,
		profileID)
	if err != nil {
		return nil, fmt.Errorf("select wishlist: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan wishlist entry: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist: %w", err)
	}

	return ids, nil
}
