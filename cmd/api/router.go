package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"conference-backend/internal/shared/middleware"
	"conference-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupProfileRoutes(v1, c)
		setupConferenceRoutes(v1, c)
		setupSessionRoutes(v1, c)
		setupSpeakerRoutes(v1, c)
	}

	return router
}

// ========================================
// PROFILE ROUTES
// ========================================
func setupProfileRoutes(v1 *gin.RouterGroup, c *container.Container) {
	profile := v1.Group("/profile")
	profile.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		profile.GET("", c.ProfileHandler.GetProfile)
		profile.POST("", c.ProfileHandler.SaveProfile)

		profile.GET("/wishlist", c.ProfileHandler.GetSessionsInWishlist)
		profile.POST("/wishlist/:sessionKey", c.ProfileHandler.AddSessionToWishlist)
		profile.DELETE("/wishlist/:sessionKey", c.ProfileHandler.RemoveSessionFromWishlist)
	}
}

// ========================================
// CONFERENCE ROUTES
// ========================================
func setupConferenceRoutes(v1 *gin.RouterGroup, c *container.Container) {
	conferences := v1.Group("/conferences")
	{
		// Public reads
		conferences.GET("/announcement", c.ConferenceHandler.GetAnnouncement)
		conferences.POST("/query", c.ConferenceHandler.QueryConferences)
		conferences.GET("/:key", c.ConferenceHandler.GetConference)
		conferences.GET("/:key/sessions", c.SessionHandler.GetConferenceSessions)
		conferences.GET("/:key/sessions/type/:type", c.SessionHandler.GetConferenceSessionsByType)
		conferences.GET("/:key/sessions/speaker/:speakerKey", c.SessionHandler.GetConferenceSessionsBySpeaker)

		// Authenticated
		authed := conferences.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.POST("", c.ConferenceHandler.CreateConference)
			authed.GET("/created", c.ConferenceHandler.GetConferencesCreated)
			authed.GET("/attending", c.ConferenceHandler.GetConferencesToAttend)
			authed.PUT("/:key", c.ConferenceHandler.UpdateConference)
			authed.POST("/:key/register", c.ConferenceHandler.Register)
			authed.DELETE("/:key/register", c.ConferenceHandler.Unregister)
			authed.POST("/:key/sessions", c.SessionHandler.CreateSession)
		}
	}
}

// ========================================
// SESSION ROUTES
// ========================================
func setupSessionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	sessions := v1.Group("/sessions")
	{
		sessions.GET("/long", c.SessionHandler.QueryLongSessions)
		sessions.GET("/early-non-workshop", c.SessionHandler.QueryEarlyNonWorkshopSessions)
		sessions.GET("/featured-speaker", c.SessionHandler.GetFeaturedSpeaker)
		sessions.GET("/:key/conference", c.SessionHandler.GetConferenceBySession)
	}
}

// ========================================
// SPEAKER ROUTES
// ========================================
func setupSpeakerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	speakers := v1.Group("/speakers")
	{
		speakers.GET("/:key", c.SpeakerHandler.GetSpeaker)

		speakers.POST("", middleware.AuthMiddleware(c.JWTManager), c.SpeakerHandler.CreateSpeaker)
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := c.DB.HealthCheck(checkCtx); err != nil {
			dbStatus = err.Error()
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(checkCtx); err != nil {
			cacheStatus = err.Error()
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":   "up",
			"version":  c.Config.App.Version,
			"database": dbStatus,
			"cache":    cacheStatus,
		})
	}
}
