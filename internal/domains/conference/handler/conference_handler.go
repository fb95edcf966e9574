package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"conference-backend/internal/domains/conference"
	"conference-backend/internal/domains/conference/model"
	"conference-backend/internal/domains/conference/query"
	"conference-backend/internal/domains/conference/service"
	"conference-backend/internal/shared/keys"
	"conference-backend/internal/shared/middleware"
	"conference-backend/internal/shared/response"
)

type ConferenceHandler struct {
	service service.Service
}

func NewConferenceHandler(service service.Service) *ConferenceHandler {
	return &ConferenceHandler{service: service}
}

// caller assembles the authenticated identity from the claims the auth
// middleware put into the context.
func caller(c *gin.Context) (service.Caller, bool) {
	id, ok := middleware.CallerID(c)
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{
		ID:          id,
		Email:       c.GetString("email"),
		DisplayName: c.GetString("displayName"),
	}, true
}

// CreateConference handles POST /conferences
func (h *ConferenceHandler) CreateConference(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var form model.ConferenceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.CreateConference(c.Request.Context(), ident, form)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// UpdateConference handles PUT /conferences/:key
func (h *ConferenceHandler) UpdateConference(c *gin.Context) {
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

	var form model.ConferenceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.UpdateConference(c.Request.Context(), callerID, conferenceID, form)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetConference handles GET /conferences/:key
func (h *ConferenceHandler) GetConference(c *gin.Context) {
	conferenceID, err := keys.DecodeKind(c.Param("key"), keys.KindConference)
	if err != nil {
		response.BadRequest(c, "Invalid conference key")
		return
	}

	resp, err := h.service.GetConference(c.Request.Context(), conferenceID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetConferencesCreated handles GET /conferences/created
func (h *ConferenceHandler) GetConferencesCreated(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	conferences, err := h.service.GetConferencesCreated(c.Request.Context(), callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, conferences)
}

// GetConferencesToAttend handles GET /conferences/attending
func (h *ConferenceHandler) GetConferencesToAttend(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	conferences, err := h.service.GetConferencesToAttend(c.Request.Context(), callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, conferences)
}

// QueryConferences handles POST /conferences/query
func (h *ConferenceHandler) QueryConferences(c *gin.Context) {
	var req struct {
		Filters []query.Filter `json:"filters"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	conferences, err := h.service.QueryConferences(c.Request.Context(), req.Filters)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, conferences)
}

// Register handles POST /conferences/:key/register
func (h *ConferenceHandler) Register(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	conferenceID, err := keys.DecodeKind(c.Param("key"), keys.KindConference)
	if err != nil {
		response.BadRequest(c, "Invalid conference key")
		return
	}

	if err := h.service.Register(c.Request.Context(), ident, conferenceID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"registered": true})
}

// Unregister handles DELETE /conferences/:key/register
func (h *ConferenceHandler) Unregister(c *gin.Context) {
	ident, ok := caller(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	conferenceID, err := keys.DecodeKind(c.Param("key"), keys.KindConference)
	if err != nil {
		response.BadRequest(c, "Invalid conference key")
		return
	}

	removed, err := h.service.Unregister(c.Request.Context(), ident, conferenceID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unregistered": removed})
}

// GetAnnouncement handles GET /conferences/announcement
func (h *ConferenceHandler) GetAnnouncement(c *gin.Context) {
	announcement, err := h.service.GetAnnouncement(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"announcement": announcement})
}

func (h *ConferenceHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		response.BadRequest(c, validationErrs.Error())
		return
	}

	switch {
	case errors.Is(err, conference.ErrNameRequired),
		errors.Is(err, conference.ErrInvalidDate),
		errors.Is(err, query.ErrUnknownField),
		errors.Is(err, query.ErrUnknownOperator),
		errors.Is(err, query.ErrMultipleInequalityFilters),
		errors.Is(err, query.ErrInvalidNumericValue):
		response.BadRequest(c, err.Error())

	case errors.Is(err, conference.ErrNotOwner):
		response.Forbidden(c, err.Error())

	case errors.Is(err, conference.ErrConferenceNotFound):
		response.NotFound(c, err.Error())

	case errors.Is(err, conference.ErrAlreadyRegistered),
		errors.Is(err, conference.ErrNoSeatsAvailable),
		errors.Is(err, conference.ErrCapacityBelowSeats):
		response.Conflict(c, err.Error())

	default:
		response.InternalServerError(c, "Internal server error")
	}
}
