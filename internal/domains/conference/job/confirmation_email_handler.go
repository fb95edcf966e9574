package job

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"conference-backend/internal/infrastructure/email"
	"conference-backend/internal/shared"
	"conference-backend/internal/shared/utils"
	"conference-backend/pkg/logger"
)

// ConfirmationEmailHandler sends the creation confirmation to the
// organizer. The payload carries everything needed, so the handler
// never reads the conference back.
type ConfirmationEmailHandler struct {
	emailService email.EmailService
}

func NewConfirmationEmailHandler(emailService email.EmailService) *ConfirmationEmailHandler {
	return &ConfirmationEmailHandler{emailService: emailService}
}

func (h *ConfirmationEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ConfirmationEmailPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		logger.Error("Unmarshal confirmation email payload failed", err)
		return err
	}

	err := h.emailService.SendConferenceConfirmation(ctx, email.ConfirmationEmailData{
		Email:          payload.Email,
		ConferenceName: payload.ConferenceName,
		City:           payload.City,
		StartDate:      payload.StartDate,
	})
	if err != nil {
		logger.Error("Send confirmation email failed", err)
		return err
	}

	log.Info().
		Str("to", payload.Email).
		Str("conference", payload.ConferenceName).
		Msg("Confirmation email sent")

	return nil
}
