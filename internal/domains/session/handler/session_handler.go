package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"conference-backend/internal/domains/conference"
	"conference-backend/internal/domains/session"
	"conference-backend/internal/domains/session/model"
	"conference-backend/internal/domains/session/service"
	"conference-backend/internal/domains/speaker"
	"conference-backend/internal/shared/keys"
	"conference-backend/internal/shared/middleware"
	"conference-backend/internal/shared/response"
)

type SessionHandler struct {
	service service.Service
}

func NewSessionHandler(service service.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

// CreateSession handles POST /conferences/:key/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	conferenceID, err := keys.DecodeKind(c.Param("key"), keys.KindConference)
	if err != nil {
		response.BadRequest(c, "Invalid conference key")
		return
	}

	var form model.SessionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.CreateSession(c.Request.Context(), callerID, conferenceID, form)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// GetConferenceSessions handles GET /conferences/:key/sessions
func (h *SessionHandler) GetConferenceSessions(c *gin.Context) {
	conferenceID, err := keys.DecodeKind(c.Param("key"), keys.KindConference)
	if err != nil {
		response.BadRequest(c, "Invalid conference key")
		return
	}

	sessions, err := h.service.GetConferenceSessions(c.Request.Context(), conferenceID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sessions)
}

// GetConferenceSessionsByType handles GET /conferences/:key/sessions/type/:type
func (h *SessionHandler) GetConferenceSessionsByType(c *gin.Context) {
	conferenceID, err := keys.DecodeKind(c.Param("key"), keys.KindConference)
	if err != nil {
		response.BadRequest(c, "Invalid conference key")
		return
	}

	sessions, err := h.service.GetConferenceSessionsByType(c.Request.Context(), conferenceID, c.Param("type"))
	if err != nil {
		// An unknown type names a session kind that does not exist
		if errors.Is(err, session.ErrInvalidSessionType) {
			response.NotFound(c, err.Error())
			return
		}
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sessions)
}

// GetConferenceSessionsBySpeaker handles GET /conferences/:key/sessions/speaker/:speakerKey
func (h *SessionHandler) GetConferenceSessionsBySpeaker(c *gin.Context) {
	conferenceID, err := keys.DecodeKind(c.Param("key"), keys.KindConference)
	if err != nil {
		response.BadRequest(c, "Invalid conference key")
		return
	}

	speakerID, err := keys.DecodeKind(c.Param("speakerKey"), keys.KindSpeaker)
	if err != nil {
		response.BadRequest(c, "Invalid speaker key")
		return
	}

	sessions, err := h.service.GetConferenceSessionsBySpeaker(c.Request.Context(), conferenceID, speakerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sessions)
}

// QueryLongSessions handles GET /sessions/long
func (h *SessionHandler) QueryLongSessions(c *gin.Context) {
	sessions, err := h.service.QueryLongSessions(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sessions)
}

// QueryEarlyNonWorkshopSessions handles GET /sessions/early-non-workshop
func (h *SessionHandler) QueryEarlyNonWorkshopSessions(c *gin.Context) {
	sessions, err := h.service.QueryEarlyNonWorkshopSessions(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sessions)
}

// GetConferenceBySession handles GET /sessions/:key/conference
func (h *SessionHandler) GetConferenceBySession(c *gin.Context) {
	sessionID, err := keys.DecodeKind(c.Param("key"), keys.KindSession)
	if err != nil {
		response.BadRequest(c, "Invalid session key")
		return
	}

	resp, err := h.service.GetConferenceBySession(c.Request.Context(), sessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetFeaturedSpeaker handles GET /sessions/featured-speaker
func (h *SessionHandler) GetFeaturedSpeaker(c *gin.Context) {
	featured, err := h.service.GetFeaturedSpeaker(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"featuredSpeaker": featured})
}

func (h *SessionHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.BadRequest(c, validationErrs.Error())
		return
	}

	switch {
	case errors.Is(err, session.ErrSessionNameRequired),
		errors.Is(err, session.ErrSpeakerRequired),
		errors.Is(err, session.ErrInvalidSessionType),
		errors.Is(err, session.ErrInvalidDate),
		errors.Is(err, session.ErrInvalidStartTime),
		errors.Is(err, keys.ErrInvalidKey):
		response.BadRequest(c, err.Error())

	case errors.Is(err, session.ErrNotConferenceOwner):
		response.Forbidden(c, err.Error())

	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, conference.ErrConferenceNotFound),
		errors.Is(err, speaker.ErrSpeakerNotFound):
		response.NotFound(c, err.Error())

	default:
		response.InternalServerError(c, "Internal server error")
	}
}
