package main

import (
	"github.com/hibiken/asynq"

	conferenceJob "conference-backend/internal/domains/conference/job"
	sessionJob "conference-backend/internal/domains/session/job"
	"conference-backend/internal/shared"
	"conference-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	recomputeAnnouncement    *conferenceJob.RecomputeAnnouncementHandler
	confirmationEmail        *conferenceJob.ConfirmationEmailHandler
	recomputeFeaturedSpeaker *sessionJob.RecomputeFeaturedSpeakerHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		recomputeAnnouncement: conferenceJob.NewRecomputeAnnouncementHandler(
			c.ConferenceRepo,
			c.Cache,
		),
		confirmationEmail: conferenceJob.NewConfirmationEmailHandler(c.EmailService),
		recomputeFeaturedSpeaker: sessionJob.NewRecomputeFeaturedSpeakerHandler(
			c.SessionRepo,
			c.SpeakerRepo,
			c.Cache,
		),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeRecomputeAnnouncement, h.recomputeAnnouncement.ProcessTask)
	mux.HandleFunc(shared.TypeSendConfirmationEmail, h.confirmationEmail.ProcessTask)
	mux.HandleFunc(shared.TypeRecomputeFeaturedSpeaker, h.recomputeFeaturedSpeaker.ProcessTask)
}
