package repository

import (
	"context"

	"github.com/google/uuid"

	"conference-backend/internal/domains/session/model"
)

// Repository is the persistence contract for sessions.
type Repository interface {
	Create(ctx context.Context, s *model.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Session, error)

	ListByConference(ctx context.Context, conferenceID uuid.UUID) ([]model.Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID uuid.UUID, sessionType model.SessionType) ([]model.Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerID uuid.UUID) ([]model.Session, error)

	// Cross-conference queries
	ListLongerThan(ctx context.Context, minutes int) ([]model.Session, error)
	ListNonWorkshopBefore(ctx context.Context, cutoff string) ([]model.Session, error)
}
