package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"conference-backend/internal/domains/speaker"
	"conference-backend/internal/domains/speaker/model"
	"conference-backend/internal/domains/speaker/service"
	"conference-backend/internal/shared/keys"
	"conference-backend/internal/shared/response"
)

type SpeakerHandler struct {
	service service.Service
}

func NewSpeakerHandler(service service.Service) *SpeakerHandler {
	return &SpeakerHandler{service: service}
}

// CreateSpeaker handles POST /speakers
func (h *SpeakerHandler) CreateSpeaker(c *gin.Context) {
	var form model.SpeakerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.CreateSpeaker(c.Request.Context(), form)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// GetSpeaker handles GET /speakers/:key
func (h *SpeakerHandler) GetSpeaker(c *gin.Context) {
	id, err := keys.DecodeKind(c.Param("key"), keys.KindSpeaker)
	if err != nil {
		response.BadRequest(c, "Invalid speaker key")
		return
	}

	resp, err := h.service.GetSpeaker(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *SpeakerHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, speaker.ErrDisplayNameRequired):
		response.BadRequest(c, err.Error())
	case errors.Is(err, speaker.ErrSpeakerNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
