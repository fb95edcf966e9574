package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"conference-backend/internal/domains/conference/model"
	"conference-backend/internal/domains/conference/query"
)

// Repository is the persistence contract for conferences and their
// registrations. The Tx methods run against an explicit transaction so
// the service can hold a row lock across the seat check and the
// registration write.
type Repository interface {
	Create(ctx context.Context, c *model.Conference) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Conference, error)
	Update(ctx context.Context, c *model.Conference) error

	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]model.Conference, error)
	ListAttending(ctx context.Context, profileID uuid.UUID) ([]model.Conference, error)
	Query(ctx context.Context, q *query.Query) ([]model.Conference, error)

	// ListNearlySoldOut returns conferences with 1..maxSeats seats left.
	ListNearlySoldOut(ctx context.Context, maxSeats int) ([]model.Conference, error)

	// InTx runs fn inside a transaction, retrying a bounded number of
	// times when the database aborts it with a serialization failure
	// or deadlock. fn must go through the Tx methods below.
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error

	// Registration transaction primitives
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Conference, error)
	IsRegisteredTx(ctx context.Context, tx pgx.Tx, profileID, conferenceID uuid.UUID) (bool, error)
	AddRegistrationTx(ctx context.Context, tx pgx.Tx, profileID, conferenceID uuid.UUID) error
	RemoveRegistrationTx(ctx context.Context, tx pgx.Tx, profileID, conferenceID uuid.UUID) (bool, error)
	UpdateSeatsTx(ctx context.Context, tx pgx.Tx, conferenceID uuid.UUID, seats int) error

	// InvalidateCached drops the cached copy of a conference. Callers
	// that change seats inside InTx invalidate after the commit, so a
	// concurrent read cannot re-cache the old count.
	InvalidateCached(ctx context.Context, id uuid.UUID) error
}
