package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"conference-backend/internal/domains/session"
	"conference-backend/internal/domains/session/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns the Postgres-backed session repository.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const sessionColumns = `
	id, conference_id, speaker_id, session_name, highlights,
	duration, type_of_session, date, start_time, created_at`

// pgTimeFrom converts a wall-clock time into the TIME column encoding,
// microseconds since midnight.
func pgTimeFrom(t *time.Time) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	micros := int64(t.Hour())*3600_000_000 +
		int64(t.Minute())*60_000_000 +
		int64(t.Second())*1_000_000
	return pgtype.Time{Microseconds: micros, Valid: true}
}

func timeFromPg(pt pgtype.Time) *time.Time {
	if !pt.Valid {
		return nil
	}
	total := pt.Microseconds
	h := int(total / 3600_000_000)
	m := int(total % 3600_000_000 / 60_000_000)
	s := int(total % 60_000_000 / 1_000_000)
	t := time.Date(0, time.January, 1, h, m, s, 0, time.UTC)
	return &t
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var s model.Session
	var startTime pgtype.Time
	err := row.Scan(
		&s.ID,
		&s.ConferenceID,
		&s.SpeakerID,
		&s.SessionName,
		&s.Highlights,
		&s.Duration,
		&s.TypeOfSession,
		&s.Date,
		&startTime,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.StartTime = timeFromPg(startTime)
	return &s, nil
}

func (r *postgresRepository) Create(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO sessions (
			id, conference_id, speaker_id, session_name, highlights,
			duration, type_of_session, date, start_time, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.ConferenceID,
		s.SpeakerID,
		s.SessionName,
		s.Highlights,
		s.Duration,
		s.TypeOfSession,
		s.Date,
		pgTimeFrom(s.StartTime),
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Session, error) {
	if len(ids) == 0 {
		return []model.Session{}, nil
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ANY($1) ORDER BY session_name`
	return r.list(ctx, query, ids)
}

func (r *postgresRepository) ListByConference(ctx context.Context, conferenceID uuid.UUID) ([]model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 ORDER BY session_name`
	return r.list(ctx, query, conferenceID)
}

func (r *postgresRepository) ListByConferenceAndType(ctx context.Context, conferenceID uuid.UUID, sessionType model.SessionType) ([]model.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1 AND type_of_session = $2
		ORDER BY session_name`
	return r.list(ctx, query, conferenceID, sessionType)
}

func (r *postgresRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerID uuid.UUID) ([]model.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE conference_id = $1 AND speaker_id = $2
		ORDER BY created_at`
	return r.list(ctx, query, conferenceID, speakerID)
}

func (r *postgresRepository) ListLongerThan(ctx context.Context, minutes int) ([]model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE duration > $1 ORDER BY duration DESC`
	return r.list(ctx, query, minutes)
}

// ListNonWorkshopBefore returns non-workshop sessions starting strictly
// before the cutoff ("HH:MM"), earliest first. Sessions with no start
// time are excluded.
func (r *postgresRepository) ListNonWorkshopBefore(ctx context.Context, cutoff string) ([]model.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE type_of_session <> 'WORKSHOP'
		  AND start_time IS NOT NULL
		  AND start_time < $1::time
		ORDER BY start_time`
	return r.list(ctx, query, cutoff)
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}
