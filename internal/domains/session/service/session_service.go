package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	conferencemodel "conference-backend/internal/domains/conference/model"
	conferencerepo "conference-backend/internal/domains/conference/repository"
	profilerepo "conference-backend/internal/domains/profile/repository"
	"conference-backend/internal/domains/session"
	"conference-backend/internal/domains/session/model"
	"conference-backend/internal/domains/session/repository"
	"conference-backend/internal/domains/speaker"
	speakerrepo "conference-backend/internal/domains/speaker/repository"
	"conference-backend/internal/shared"
	"conference-backend/internal/shared/keys"
	"conference-backend/internal/shared/utils"
	"conference-backend/pkg/cache"
	"conference-backend/pkg/logger"
)

// FeaturedSpeakerCacheKey is the shared slot the featured-speaker job
// writes and GetFeaturedSpeaker reads.
const FeaturedSpeakerCacheKey = "featured_speaker"

const (
	longSessionMinutes = 60
	eveningCutoff      = "19:00"
)

// TaskEnqueuer is the slice of the asynq client the service needs.
// *asynq.Client satisfies it.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service is the business contract for sessions.
type Service interface {
	CreateSession(ctx context.Context, callerID, conferenceID uuid.UUID, form model.SessionForm) (*model.SessionResponse, error)

	GetConferenceSessions(ctx context.Context, conferenceID uuid.UUID) ([]model.SessionResponse, error)
	GetConferenceSessionsByType(ctx context.Context, conferenceID uuid.UUID, typeName string) ([]model.SessionResponse, error)
	GetConferenceSessionsBySpeaker(ctx context.Context, conferenceID, speakerID uuid.UUID) ([]model.SessionResponse, error)

	QueryLongSessions(ctx context.Context) ([]model.SessionResponse, error)
	QueryEarlyNonWorkshopSessions(ctx context.Context) ([]model.SessionResponse, error)

	GetConferenceBySession(ctx context.Context, sessionID uuid.UUID) (*conferencemodel.ConferenceResponse, error)
	GetFeaturedSpeaker(ctx context.Context) (string, error)
}

type sessionService struct {
	repo           repository.Repository
	conferenceRepo conferencerepo.Repository
	speakerRepo    speakerrepo.Repository
	profileRepo    profilerepo.Repository
	cache          cache.Cache
	asynqClient    TaskEnqueuer
}

func NewSessionService(
	repo repository.Repository,
	conferenceRepo conferencerepo.Repository,
	speakerRepo speakerrepo.Repository,
	profileRepo profilerepo.Repository,
	cache cache.Cache,
	asynqClient TaskEnqueuer,
) Service {
	return &sessionService{
		repo:           repo,
		conferenceRepo: conferenceRepo,
		speakerRepo:    speakerRepo,
		profileRepo:    profileRepo,
		cache:          cache,
		asynqClient:    asynqClient,
	}
}

// CreateSession adds a session to a conference. Only the conference
// organizer may do this.
func (s *sessionService) CreateSession(ctx context.Context, callerID, conferenceID uuid.UUID, form model.SessionForm) (*model.SessionResponse, error) {
	// Step 1: Validate input
	if form.SessionName == "" {
		return nil, session.ErrSessionNameRequired
	}
	if form.SpeakerKey == "" {
		return nil, session.ErrSpeakerRequired
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Resolve and verify the speaker
	speakerID, err := keys.DecodeKind(form.SpeakerKey, keys.KindSpeaker)
	if err != nil {
		return nil, err
	}
	exists, err := s.speakerRepo.Exists(ctx, speakerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, speaker.ErrSpeakerNotFound
	}

	// Step 3: Ownership check
	conf, err := s.conferenceRepo.GetByID(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	if conf.OrganizerID != callerID {
		return nil, session.ErrNotConferenceOwner
	}

	// Step 4: Build and persist
	entity, err := model.FromForm(form, conferenceID, speakerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	logger.Info("Session created", map[string]interface{}{
		"session_id":    entity.ID,
		"conference_id": conferenceID,
		"speaker_id":    speakerID,
	})

	// Step 5: The featured-speaker slot may change now
	s.enqueueRecomputeFeaturedSpeaker(conferenceID, speakerID)

	resp := entity.ToResponse()
	return &resp, nil
}

func (s *sessionService) GetConferenceSessions(ctx context.Context, conferenceID uuid.UUID) ([]model.SessionResponse, error) {
	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		return nil, err
	}

	sessions, err := s.repo.ListByConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	return model.ToResponses(sessions), nil
}

func (s *sessionService) GetConferenceSessionsByType(ctx context.Context, conferenceID uuid.UUID, typeName string) ([]model.SessionResponse, error) {
	sessionType, err := model.ParseSessionType(typeName)
	if err != nil {
		return nil, err
	}

	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		return nil, err
	}

	sessions, err := s.repo.ListByConferenceAndType(ctx, conferenceID, sessionType)
	if err != nil {
		return nil, err
	}
	return model.ToResponses(sessions), nil
}

func (s *sessionService) GetConferenceSessionsBySpeaker(ctx context.Context, conferenceID, speakerID uuid.UUID) ([]model.SessionResponse, error) {
	if _, err := s.conferenceRepo.GetByID(ctx, conferenceID); err != nil {
		return nil, err
	}
	if _, err := s.speakerRepo.GetByID(ctx, speakerID); err != nil {
		return nil, err
	}

	sessions, err := s.repo.ListByConferenceAndSpeaker(ctx, conferenceID, speakerID)
	if err != nil {
		return nil, err
	}
	return model.ToResponses(sessions), nil
}

// QueryLongSessions returns every session longer than an hour, across
// all conferences.
func (s *sessionService) QueryLongSessions(ctx context.Context) ([]model.SessionResponse, error) {
	sessions, err := s.repo.ListLongerThan(ctx, longSessionMinutes)
	if err != nil {
		return nil, err
	}
	return model.ToResponses(sessions), nil
}

// QueryEarlyNonWorkshopSessions returns non-workshop sessions starting
// before 7pm, earliest first.
func (s *sessionService) QueryEarlyNonWorkshopSessions(ctx context.Context) ([]model.SessionResponse, error) {
	sessions, err := s.repo.ListNonWorkshopBefore(ctx, eveningCutoff)
	if err != nil {
		return nil, err
	}
	return model.ToResponses(sessions), nil
}

func (s *sessionService) GetConferenceBySession(ctx context.Context, sessionID uuid.UUID) (*conferencemodel.ConferenceResponse, error) {
	entity, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	conf, err := s.conferenceRepo.GetByID(ctx, entity.ConferenceID)
	if err != nil {
		return nil, err
	}

	organizerName := ""
	if p, err := s.profileRepo.GetByID(ctx, conf.OrganizerID); err == nil {
		organizerName = p.DisplayName
	}

	resp := conf.ToResponse(organizerName)
	return &resp, nil
}

// GetFeaturedSpeaker returns the cached featured-speaker announcement,
// or "" when none is set.
func (s *sessionService) GetFeaturedSpeaker(ctx context.Context) (string, error) {
	featured, found, err := s.cache.GetString(ctx, FeaturedSpeakerCacheKey)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	return featured, nil
}

func (s *sessionService) enqueueRecomputeFeaturedSpeaker(conferenceID, speakerID uuid.UUID) {
	payload := shared.RecomputeFeaturedSpeakerPayload{
		ConferenceKey: keys.Encode(keys.KindConference, conferenceID),
		SpeakerKey:    keys.Encode(keys.KindSpeaker, speakerID),
	}

	task, err := utils.MarshalTask(shared.TypeRecomputeFeaturedSpeaker, payload)
	if err != nil {
		logger.Error("Failed to marshal featured speaker task", err)
		return
	}

	_, err = s.asynqClient.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		logger.Error("Failed to enqueue featured speaker task", err)
	}
}
