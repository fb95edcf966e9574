package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"conference-backend/internal/domains/profile"
	"conference-backend/internal/domains/profile/model"
	"conference-backend/internal/domains/profile/repository"
	sessionmodel "conference-backend/internal/domains/session/model"
	sessionrepo "conference-backend/internal/domains/session/repository"
	"conference-backend/pkg/logger"
)

// Identity is the caller identity extracted from the verified token.
type Identity struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
}

// Service is the business contract for profiles and their wishlist.
type Service interface {
	GetProfile(ctx context.Context, ident Identity) (*model.ProfileResponse, error)
	SaveProfile(ctx context.Context, ident Identity, form model.ProfileForm) (*model.ProfileResponse, error)

	AddSessionToWishlist(ctx context.Context, ident Identity, sessionID uuid.UUID) error
	RemoveSessionFromWishlist(ctx context.Context, ident Identity, sessionID uuid.UUID) (bool, error)
	GetSessionsInWishlist(ctx context.Context, ident Identity) ([]sessionmodel.SessionResponse, error)
}

type profileService struct {
	repo        repository.Repository
	sessionRepo sessionrepo.Repository
}

func NewProfileService(repo repository.Repository, sessionRepo sessionrepo.Repository) Service {
	return &profileService{
		repo:        repo,
		sessionRepo: sessionRepo,
	}
}

// ensureProfile creates the profile row on first access, seeded from
// the token claims.
func (s *profileService) ensureProfile(ctx context.Context, ident Identity) (*model.Profile, error) {
	displayName := ident.DisplayName
	if displayName == "" {
		// Fall back to the email local part, same as a nickname
		displayName, _, _ = strings.Cut(ident.Email, "@")
	}

	now := time.Now().UTC()
	return s.repo.CreateOrGet(ctx, &model.Profile{
		ID:           ident.ID,
		DisplayName:  displayName,
		MainEmail:    ident.Email,
		TeeShirtSize: model.TeeShirtNotSpecified,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *profileService) GetProfile(ctx context.Context, ident Identity) (*model.ProfileResponse, error) {
	p, err := s.ensureProfile(ctx, ident)
	if err != nil {
		return nil, err
	}

	resp := p.ToResponse()
	return &resp, nil
}

func (s *profileService) SaveProfile(ctx context.Context, ident Identity, form model.ProfileForm) (*model.ProfileResponse, error) {
	// Step 1: Load (or lazily create) the stored profile
	p, err := s.ensureProfile(ctx, ident)
	if err != nil {
		return nil, err
	}

	// Step 2: Apply only the fields the caller provided
	if form.DisplayName != "" {
		p.DisplayName = form.DisplayName
	}
	if form.TeeShirtSize != "" {
		if !model.IsValidTeeShirtSize(form.TeeShirtSize) {
			return nil, profile.ErrInvalidTeeShirtSize
		}
		p.TeeShirtSize = model.TeeShirtSize(form.TeeShirtSize)
	}

	// Step 3: Persist
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	logger.Info("Profile saved", map[string]interface{}{
		"profile_id": p.ID,
	})

	resp := p.ToResponse()
	return &resp, nil
}

// ========================================
// WISHLIST
// ========================================

// AddSessionToWishlist adds any existing session to the caller's
// wishlist. Attendees are not limited to conferences they registered
// for.
func (s *profileService) AddSessionToWishlist(ctx context.Context, ident Identity, sessionID uuid.UUID) error {
	if _, err := s.ensureProfile(ctx, ident); err != nil {
		return err
	}

	// The session must exist before it can be wished for
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return err
	}

	return s.repo.AddToWishlist(ctx, ident.ID, sessionID)
}

// RemoveSessionFromWishlist reports whether an entry was removed.
// Removing a session that was never added is not an error.
func (s *profileService) RemoveSessionFromWishlist(ctx context.Context, ident Identity, sessionID uuid.UUID) (bool, error) {
	if _, err := s.ensureProfile(ctx, ident); err != nil {
		return false, err
	}

	return s.repo.RemoveFromWishlist(ctx, ident.ID, sessionID)
}

func (s *profileService) GetSessionsInWishlist(ctx context.Context, ident Identity) ([]sessionmodel.SessionResponse, error) {
	if _, err := s.ensureProfile(ctx, ident); err != nil {
		return nil, err
	}

	ids, err := s.repo.ListWishlist(ctx, ident.ID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return sessionmodel.ToResponses(sessions), nil
}
