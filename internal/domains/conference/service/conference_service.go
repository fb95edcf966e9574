package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	"conference-backend/internal/domains/conference"
	"conference-backend/internal/domains/conference/model"
	"conference-backend/internal/domains/conference/query"
	"conference-backend/internal/domains/conference/repository"
	profilemodel "conference-backend/internal/domains/profile/model"
	profilerepo "conference-backend/internal/domains/profile/repository"
	"conference-backend/internal/shared"
	"conference-backend/internal/shared/utils"
	"conference-backend/pkg/cache"
	"conference-backend/pkg/logger"
)

// AnnouncementCacheKey is the shared slot the announcement job writes
// and GetAnnouncement reads.
const AnnouncementCacheKey = "announcement:recent"

// Caller is the authenticated identity the handlers extract from the
// verified token claims.
type Caller struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
}

// Service is the business contract for conferences.
type Service interface {
	CreateConference(ctx context.Context, caller Caller, form model.ConferenceForm) (*model.ConferenceResponse, error)
	UpdateConference(ctx context.Context, callerID, conferenceID uuid.UUID, form model.ConferenceForm) (*model.ConferenceResponse, error)
	GetConference(ctx context.Context, id uuid.UUID) (*model.ConferenceResponse, error)
	GetConferencesCreated(ctx context.Context, organizerID uuid.UUID) ([]model.ConferenceResponse, error)
	GetConferencesToAttend(ctx context.Context, profileID uuid.UUID) ([]model.ConferenceResponse, error)
	QueryConferences(ctx context.Context, filters []query.Filter) ([]model.ConferenceResponse, error)

	Register(ctx context.Context, caller Caller, conferenceID uuid.UUID) error
	Unregister(ctx context.Context, caller Caller, conferenceID uuid.UUID) (bool, error)

	GetAnnouncement(ctx context.Context) (string, error)
}

// TaskEnqueuer is the slice of the asynq client the service needs.
// *asynq.Client satisfies it.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type conferenceService struct {
	repo        repository.Repository
	profileRepo profilerepo.Repository
	cache       cache.Cache
	asynqClient TaskEnqueuer
}

func NewConferenceService(
	repo repository.Repository,
	profileRepo profilerepo.Repository,
	cache cache.Cache,
	asynqClient TaskEnqueuer,
) Service {
	return &conferenceService{
		repo:        repo,
		profileRepo: profileRepo,
		cache:       cache,
		asynqClient: asynqClient,
	}
}

// ensureProfile provisions the caller's profile row on first
// authenticated access, same as the profile domain does. Conferences
// and registrations reference profiles, so the row must exist before
// either insert.
func (s *conferenceService) ensureProfile(ctx context.Context, caller Caller) error {
	displayName := caller.DisplayName
	if displayName == "" {
		displayName, _, _ = strings.Cut(caller.Email, "@")
	}

	now := time.Now().UTC()
	_, err := s.profileRepo.CreateOrGet(ctx, &profilemodel.Profile{
		ID:           caller.ID,
		DisplayName:  displayName,
		MainEmail:    caller.Email,
		TeeShirtSize: profilemodel.TeeShirtNotSpecified,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return err
}

func (s *conferenceService) CreateConference(ctx context.Context, caller Caller, form model.ConferenceForm) (*model.ConferenceResponse, error) {
	// Step 1: Validate input
	if form.Name == "" {
		return nil, conference.ErrNameRequired
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Make sure the organizer profile exists
	if err := s.ensureProfile(ctx, caller); err != nil {
		return nil, err
	}

	// Step 3: Build the entity with defaults and derived fields
	entity, err := model.FromForm(form, caller.ID)
	if err != nil {
		return nil, err
	}

	// Step 4: Persist
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	logger.Info("Conference created", map[string]interface{}{
		"conference_id": entity.ID,
		"organizer_id":  caller.ID,
		"name":          entity.Name,
	})

	// Step 5: Confirmation email goes through the queue
	s.enqueueConfirmationEmail(caller.Email, entity)

	return s.respond(ctx, entity), nil
}

func (s *conferenceService) UpdateConference(ctx context.Context, callerID, conferenceID uuid.UUID, form model.ConferenceForm) (*model.ConferenceResponse, error) {
	// Step 1: Load and check ownership
	entity, err := s.repo.GetByID(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	if entity.OrganizerID != callerID {
		return nil, conference.ErrNotOwner
	}

	// Step 2: Apply only the provided fields
	if err := entity.ApplyUpdate(form); err != nil {
		return nil, err
	}

	// Capacity can shrink, but never below the seats still open
	if entity.MaxAttendees < entity.SeatsAvailable {
		return nil, conference.ErrCapacityBelowSeats
	}

	// Step 3: Persist
	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}

	return s.respond(ctx, entity), nil
}

func (s *conferenceService) GetConference(ctx context.Context, id uuid.UUID) (*model.ConferenceResponse, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, entity), nil
}

func (s *conferenceService) GetConferencesCreated(ctx context.Context, organizerID uuid.UUID) ([]model.ConferenceResponse, error) {
	conferences, err := s.repo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	return s.respondMany(ctx, conferences), nil
}

func (s *conferenceService) GetConferencesToAttend(ctx context.Context, profileID uuid.UUID) ([]model.ConferenceResponse, error) {
	conferences, err := s.repo.ListAttending(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return s.respondMany(ctx, conferences), nil
}

func (s *conferenceService) QueryConferences(ctx context.Context, filters []query.Filter) ([]model.ConferenceResponse, error) {
	q, err := query.Build(filters)
	if err != nil {
		return nil, err
	}

	conferences, err := s.repo.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.respondMany(ctx, conferences), nil
}

// ========================================
// REGISTRATION
// ========================================

// Register reserves a seat. The seat check and the registration write
// run under a row lock so two callers cannot take the last seat;
// aborted transactions are retried inside repo.InTx.
func (s *conferenceService) Register(ctx context.Context, caller Caller, conferenceID uuid.UUID) error {
	if err := s.ensureProfile(ctx, caller); err != nil {
		return err
	}

	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		entity, err := s.repo.GetForUpdateTx(ctx, tx, conferenceID)
		if err != nil {
			return err
		}

		registered, err := s.repo.IsRegisteredTx(ctx, tx, caller.ID, conferenceID)
		if err != nil {
			return err
		}
		if registered {
			return conference.ErrAlreadyRegistered
		}

		if entity.SeatsAvailable <= 0 {
			return conference.ErrNoSeatsAvailable
		}

		if err := s.repo.AddRegistrationTx(ctx, tx, caller.ID, conferenceID); err != nil {
			return err
		}
		return s.repo.UpdateSeatsTx(ctx, tx, conferenceID, entity.SeatsAvailable-1)
	})
	if err != nil {
		return err
	}

	if err := s.repo.InvalidateCached(ctx, conferenceID); err != nil {
		logger.Error("Invalidate conference cache failed", err)
	}

	s.enqueueRecomputeAnnouncement()
	return nil
}

// Unregister frees a seat. Unregistering from a conference the caller
// never registered for reports false, not an error.
func (s *conferenceService) Unregister(ctx context.Context, caller Caller, conferenceID uuid.UUID) (bool, error) {
	if err := s.ensureProfile(ctx, caller); err != nil {
		return false, err
	}

	var removed bool
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		entity, err := s.repo.GetForUpdateTx(ctx, tx, conferenceID)
		if err != nil {
			return err
		}

		removed, err = s.repo.RemoveRegistrationTx(ctx, tx, caller.ID, conferenceID)
		if err != nil {
			return err
		}
		if !removed {
			// Nothing to undo, the absence is the result
			return nil
		}

		return s.repo.UpdateSeatsTx(ctx, tx, conferenceID, entity.SeatsAvailable+1)
	})
	if err != nil {
		return false, err
	}

	if removed {
		if err := s.repo.InvalidateCached(ctx, conferenceID); err != nil {
			logger.Error("Invalidate conference cache failed", err)
		}
		s.enqueueRecomputeAnnouncement()
	}
	return removed, nil
}

// GetAnnouncement returns the cached sold-out announcement, or "" when
// no conference is nearly sold out.
func (s *conferenceService) GetAnnouncement(ctx context.Context) (string, error) {
	announcement, found, err := s.cache.GetString(ctx, AnnouncementCacheKey)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	return announcement, nil
}

// ========================================
// HELPERS
// ========================================

// respond renders the wire shape, resolving the organizer display name.
// A missing organizer profile degrades to an empty name instead of
// failing the read.
func (s *conferenceService) respond(ctx context.Context, c *model.Conference) *model.ConferenceResponse {
	organizerName := ""
	if p, err := s.profileRepo.GetByID(ctx, c.OrganizerID); err == nil {
		organizerName = p.DisplayName
	}
	resp := c.ToResponse(organizerName)
	return &resp
}

func (s *conferenceService) respondMany(ctx context.Context, conferences []model.Conference) []model.ConferenceResponse {
	// Organizer names resolve through the cached profile reads, so
	// repeated organizers cost one lookup each.
	out := make([]model.ConferenceResponse, 0, len(conferences))
	for i := range conferences {
		out = append(out, *s.respond(ctx, &conferences[i]))
	}
	return out
}

func (s *conferenceService) enqueueRecomputeAnnouncement() {
	task, err := utils.MarshalTask(shared.TypeRecomputeAnnouncement, struct{}{})
	if err != nil {
		logger.Error("Failed to marshal announcement task", err)
		return
	}

	_, err = s.asynqClient.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		logger.Error("Failed to enqueue announcement task", err)
	}
}

func (s *conferenceService) enqueueConfirmationEmail(email string, c *model.Conference) {
	if email == "" {
		return
	}

	payload := shared.ConfirmationEmailPayload{
		Email:          email,
		ConferenceName: c.Name,
		City:           c.City,
	}
	if c.StartDate != nil {
		payload.StartDate = c.StartDate.Format("2006-01-02")
	}

	task, err := utils.MarshalTask(shared.TypeSendConfirmationEmail, payload)
	if err != nil {
		logger.Error("Failed to marshal confirmation email task", err)
		return
	}

	_, err = s.asynqClient.Enqueue(task,
		asynq.Queue("low"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		logger.Error("Failed to enqueue confirmation email task", err)
	} else {
		logger.Info("Enqueued confirmation email", map[string]interface{}{
			"conference_id": c.ID,
		})
	}
}
