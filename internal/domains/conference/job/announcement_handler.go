package job

import (
	"context"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"conference-backend/internal/domains/conference/repository"
	"conference-backend/internal/domains/conference/service"
	"conference-backend/pkg/cache"
	"conference-backend/pkg/logger"
)

// nearlySoldOutThreshold is the seat count at or below which a
// conference makes the announcement.
const nearlySoldOutThreshold = 5

const announcementPrefix = "Last chance to attend! The following conferences are nearly sold out: "

// RecomputeAnnouncementHandler rebuilds the shared announcement slot
// from the current seat counts. It runs after every registration change
// and on a schedule, and is idempotent.
type RecomputeAnnouncementHandler struct {
	repo  repository.Repository
	cache cache.Cache
}

func NewRecomputeAnnouncementHandler(repo repository.Repository, cache cache.Cache) *RecomputeAnnouncementHandler {
	return &RecomputeAnnouncementHandler{
		repo:  repo,
		cache: cache,
	}
}

func (h *RecomputeAnnouncementHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	conferences, err := h.repo.ListNearlySoldOut(ctx, nearlySoldOutThreshold)
	if err != nil {
		logger.Error("List nearly sold out conferences failed", err)
		return err
	}

	if len(conferences) == 0 {
		// No announcement to make, clear any stale one
		if err := h.cache.Delete(ctx, service.AnnouncementCacheKey); err != nil {
			logger.Error("Clear announcement failed", err)
			return err
		}
		log.Info().Msg("Announcement cleared, no conference nearly sold out")
		return nil
	}

	names := make([]string, 0, len(conferences))
	for i := range conferences {
		names = append(names, conferences[i].Name)
	}
	announcement := announcementPrefix + strings.Join(names, ", ")

	if err := h.cache.SetString(ctx, service.AnnouncementCacheKey, announcement); err != nil {
		logger.Error("Set announcement failed", err)
		return err
	}

	log.Info().
		Int("conferences", len(conferences)).
		Msg("Announcement recomputed")

	return nil
}
