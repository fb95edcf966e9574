package repository

import (
	"context"

	"github.com/google/uuid"

	"conference-backend/internal/domains/profile/model"
)

// Repository is the persistence contract for profiles and their wishlist.
type Repository interface {
	// CreateOrGet inserts the profile if it does not exist yet and
	// returns the stored row either way.
	CreateOrGet(ctx context.Context, p *model.Profile) (*model.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error

	// Wishlist
	AddToWishlist(ctx context.Context, profileID, sessionID uuid.UUID) error
	RemoveFromWishlist(ctx context.Context, profileID, sessionID uuid.UUID) (bool, error)
	ListWishlist(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error)
}
