package repository

import (
	"context"

	"github.com/google/uuid"

	"conference-backend/internal/domains/speaker/model"
)

// Repository is the persistence contract for speakers.
type Repository interface {
	Create(ctx context.Context, s *model.Speaker) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Speaker, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
