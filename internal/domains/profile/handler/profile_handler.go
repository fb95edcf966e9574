package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"conference-backend/internal/domains/profile"
	"conference-backend/internal/domains/profile/model"
	"conference-backend/internal/domains/profile/service"
	"conference-backend/internal/domains/session"
	"conference-backend/internal/shared/keys"
	"conference-backend/internal/shared/middleware"
	"conference-backend/internal/shared/response"
)

type ProfileHandler struct {
	service service.Service
}

func NewProfileHandler(service service.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// identity rebuilds the caller identity the auth middleware stored in
// the gin context.
func identity(c *gin.Context) (service.Identity, bool) {
	id, ok := middleware.CallerID(c)
	if !ok {
		return service.Identity{}, false
	}
	return service.Identity{
		ID:          id,
		Email:       c.GetString("email"),
		DisplayName: c.GetString("displayName"),
	}, true
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	resp, err := h.service.GetProfile(c.Request.Context(), ident)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// SaveProfile handles POST /profile
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var form model.ProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.SaveProfile(c.Request.Context(), ident, form)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========================================
// WISHLIST ENDPOINTS
// ========================================

// AddSessionToWishlist handles POST /profile/wishlist/:sessionKey
func (h *ProfileHandler) AddSessionToWishlist(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	sessionID, err := keys.DecodeKind(c.Param("sessionKey"), keys.KindSession)
	if err != nil {
		response.BadRequest(c, "Invalid session key")
		return
	}

	if err := h.service.AddSessionToWishlist(c.Request.Context(), ident, sessionID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"added": true})
}

// RemoveSessionFromWishlist handles DELETE /profile/wishlist/:sessionKey
func (h *ProfileHandler) RemoveSessionFromWishlist(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	sessionID, err := keys.DecodeKind(c.Param("sessionKey"), keys.KindSession)
	if err != nil {
		response.BadRequest(c, "Invalid session key")
		return
	}

	removed, err := h.service.RemoveSessionFromWishlist(c.Request.Context(), ident, sessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}

// GetSessionsInWishlist handles GET /profile/wishlist
func (h *ProfileHandler) GetSessionsInWishlist(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	sessions, err := h.service.GetSessionsInWishlist(c.Request.Context(), ident)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, sessions)
}

func (h *ProfileHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profile.ErrInvalidTeeShirtSize):
		response.BadRequest(c, err.Error())
	case errors.Is(err, profile.ErrProfileNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, profile.ErrAlreadyInWishlist):
		response.Conflict(c, err.Error())
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
