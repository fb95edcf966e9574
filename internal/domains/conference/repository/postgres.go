package repository

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

	"conference-backend/internal/domains/conference"
	"conference-backend/internal/domains/conference/model"
	"conference-backend/internal/domains/conference/query"
	"conference-backend/pkg/cache"
	"conference-backend/pkg/database"
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository returns the Postgres-backed conference
// repository with cache-aside reads on single conferences.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const conferenceColumns = `
	id, organizer_id, name, description, topics, city,
	start_date, end_date, month, max_attendees, seats_available,
	created_at, updated_at`

func scanConference(row pgx.Row) (*model.Conference, error) {
	var c model.Conference
	err := row.Scan(
		&c.ID,
		&c.OrganizerID,
		&c.Name,
		&c.Description,
		&c.Topics,
		&c.City,
		&c.StartDate,
		&c.EndDate,
		&c.Month,
		&c.MaxAttendees,
		&c.SeatsAvailable,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func conferenceCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("conference:%s", id.String())
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Conference) error {
	query := `
		INSERT INTO conferences (
			id, organizer_id, name, description, topics, city,
			start_date, end_date, month, max_attendees, seats_available,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.OrganizerID, c.Name, c.Description, c.Topics, c.City,
		c.StartDate, c.EndDate, c.Month, c.MaxAttendees, c.SeatsAvailable,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conference: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Conference, error) {
	cacheKey := conferenceCacheKey(id)

	var cached model.Conference
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return &cached, nil
	}

	q := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1`
	c, err := scanConference(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, conference.ErrConferenceNotFound
		}
		return nil, fmt.Errorf("select conference: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, c, 10*time.Minute)

	return c, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *model.Conference) error {
	query := `
		UPDATE conferences
		SET name = $2, description = $3, topics = $4, city = $5,
		    start_date = $6, end_date = $7, month = $8,
		    max_attendees = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Description, c.Topics, c.City,
		c.StartDate, c.EndDate, c.Month, c.MaxAttendees, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update conference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return conference.ErrConferenceNotFound
	}

	_ = r.cache.Delete(ctx, conferenceCacheKey(c.ID))

	return nil
}

func (r *postgresRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]model.Conference, error) {
	q := `SELECT ` + conferenceColumns + ` FROM conferences WHERE organizer_id = $1 ORDER BY name`
	return r.list(ctx, q, organizerID)
}

func (r *postgresRepository) ListAttending(ctx context.Context, profileID uuid.UUID) ([]model.Conference, error) {
	q := `
		SELECT ` + conferenceColumns + `
		FROM conferences c
		JOIN conference_registrations reg ON reg.conference_id = c.id
		WHERE reg.profile_id = $1
		ORDER BY c.name`
	return r.list(ctx, q, profileID)
}

// Query runs a search built by the query package.
func (r *postgresRepository) Query(ctx context.Context, q *query.Query) ([]model.Conference, error) {
	sql := `SELECT ` + conferenceColumns + ` FROM conferences`
	if len(q.Where) > 0 {
		sql += " WHERE " + strings.Join(q.Where, " AND ")
	}
	sql += " ORDER BY " + strings.Join(q.OrderBy, ", ")

	return r.list(ctx, sql, q.Args...)
}

func (r *postgresRepository) ListNearlySoldOut(ctx context.Context, maxSeats int) ([]model.Conference, error) {
	q := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE seats_available > 0 AND seats_available <= $1
		ORDER BY name`
	return r.list(ctx, q, maxSeats)
}

func (r *postgresRepository) list(ctx context.Context, sql string, args ...interface{}) ([]model.Conference, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select conferences: %w", err)
	}
	defer rows.Close()

	conferences := []model.Conference{}
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conference: %w", err)
		}
		conferences = append(conferences, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conferences: %w", err)
	}

	return conferences, nil
}

// ========================================
// REGISTRATION TRANSACTION PRIMITIVES
// ========================================

func (r *postgresRepository) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return database.WithRetryableTransaction(ctx, r.pool, fn)
}

// GetForUpdateTx locks the conference row for the rest of the
// transaction so the seat check and the seat write are atomic.
func (r *postgresRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Conference, error) {
	q := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1 FOR UPDATE`
	c, err := scanConference(tx.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, conference.ErrConferenceNotFound
		}
		return nil, fmt.Errorf("select conference for update: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) IsRegisteredTx(ctx context.Context, tx pgx.Tx, profileID, conferenceID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM conference_registrations WHERE profile_id = $1 AND conference_id = $2)`,
		profileID, conferenceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) AddRegistrationTx(ctx context.Context, tx pgx.Tx, profileID, conferenceID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO conference_registrations (profile_id, conference_id, registered_at) VALUES ($1, $2, $3)`,
		profileID, conferenceID, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return conference.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *postgresRepository) RemoveRegistrationTx(ctx context.Context, tx pgx.Tx, profileID, conferenceID uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx,
		`DELETE FROM conference_registrations WHERE profile_id = $1 AND conference_id = $2`,
		profileID, conferenceID)
	if err != nil {
		return false, fmt.Errorf("delete registration: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) UpdateSeatsTx(ctx context.Context, tx pgx.Tx, conferenceID uuid.UUID, seats int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE conferences SET seats_available = $2, updated_at = $3 WHERE id = $1`,
		conferenceID, seats, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update seats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return conference.ErrConferenceNotFound
	}

	// The cached copy still carries the old seat count until the
	// caller commits and calls InvalidateCached.
	return nil
}

func (r *postgresRepository) InvalidateCached(ctx context.Context, id uuid.UUID) error {
	return r.cache.Delete(ctx, conferenceCacheKey(id))
}
