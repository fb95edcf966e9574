package job

import (
	"context"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"conference-backend/internal/domains/session/repository"
	"conference-backend/internal/domains/session/service"
	speakerrepo "conference-backend/internal/domains/speaker/repository"
	"conference-backend/internal/shared"
	"conference-backend/internal/shared/keys"
	"conference-backend/internal/shared/utils"
	"conference-backend/pkg/cache"
	"conference-backend/pkg/logger"
)

// RecomputeFeaturedSpeakerHandler rebuilds the featured-speaker slot
// after a session is added. A speaker with more than one session in the
// same conference becomes featured. Idempotent.
type RecomputeFeaturedSpeakerHandler struct {
	repo        repository.Repository
	speakerRepo speakerrepo.Repository
	cache       cache.Cache
}

func NewRecomputeFeaturedSpeakerHandler(
	repo repository.Repository,
	speakerRepo speakerrepo.Repository,
	cache cache.Cache,
) *RecomputeFeaturedSpeakerHandler {
	return &RecomputeFeaturedSpeakerHandler{
		repo:        repo,
		speakerRepo: speakerRepo,
		cache:       cache,
	}
}

func (h *RecomputeFeaturedSpeakerHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.RecomputeFeaturedSpeakerPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		logger.Error("Unmarshal featured speaker payload failed", err)
		return err
	}

	conferenceID, err := keys.DecodeKind(payload.ConferenceKey, keys.KindConference)
	if err != nil {
		logger.Error("Invalid conference key in featured speaker payload", err)
		return err
	}
	speakerID, err := keys.DecodeKind(payload.SpeakerKey, keys.KindSpeaker)
	if err != nil {
		logger.Error("Invalid speaker key in featured speaker payload", err)
		return err
	}

	sessions, err := h.repo.ListByConferenceAndSpeaker(ctx, conferenceID, speakerID)
	if err != nil {
		logger.Error("List sessions for featured speaker failed", err)
		return err
	}

	if len(sessions) <= 1 {
		// One session does not make a featured speaker
		if err := h.cache.Delete(ctx, service.FeaturedSpeakerCacheKey); err != nil {
			logger.Error("Clear featured speaker failed", err)
			return err
		}
		return nil
	}

	sp, err := h.speakerRepo.GetByID(ctx, speakerID)
	if err != nil {
		logger.Error("Load speaker for featured speaker failed", err)
		return err
	}

	names := make([]string, 0, len(sessions))
	for i := range sessions {
		names = append(names, sessions[i].SessionName)
	}
	featured := sp.DisplayName + " is featured speaker with session: " + strings.Join(names, ", ")

	if err := h.cache.SetString(ctx, service.FeaturedSpeakerCacheKey, featured); err != nil {
		logger.Error("Set featured speaker failed", err)
		return err
	}

	log.Info().
		Str("speaker", sp.DisplayName).
		Int("sessions", len(sessions)).
		Msg("Featured speaker recomputed")

	return nil
}
