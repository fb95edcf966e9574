package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"conference-backend/internal/domains/speaker"
	"conference-backend/internal/domains/speaker/model"
	"conference-backend/internal/domains/speaker/repository"
	"conference-backend/pkg/logger"
)

// Service is the business contract for speakers.
type Service interface {
	CreateSpeaker(ctx context.Context, form model.SpeakerForm) (*model.SpeakerResponse, error)
	GetSpeaker(ctx context.Context, id uuid.UUID) (*model.SpeakerResponse, error)
}

type speakerService struct {
	repo repository.Repository
}

func NewSpeakerService(repo repository.Repository) Service {
	return &speakerService{repo: repo}
}

func (s *speakerService) CreateSpeaker(ctx context.Context, form model.SpeakerForm) (*model.SpeakerResponse, error) {
	// Step 1: Validate input
	if form.DisplayName == "" {
		return nil, speaker.ErrDisplayNameRequired
	}
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", speaker.ErrDisplayNameRequired, err)
	}

	// Step 2: Build and persist the entity
	entity := model.FromForm(form)
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	logger.Info("Speaker created", map[string]interface{}{
		"speaker_id":   entity.ID,
		"display_name": entity.DisplayName,
	})

	resp := entity.ToResponse()
	return &resp, nil
}

func (s *speakerService) GetSpeaker(ctx context.Context, id uuid.UUID) (*model.SpeakerResponse, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := entity.ToResponse()
	return &resp, nil
}
