package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"conference-backend/internal/config"
	infraCache "conference-backend/internal/infrastructure/cache"
	"conference-backend/internal/infrastructure/database"
	"conference-backend/internal/infrastructure/email"
	"conference-backend/pkg/cache"
	"conference-backend/pkg/jwt"

	conferenceHandler "conference-backend/internal/domains/conference/handler"
	conferenceRepo "conference-backend/internal/domains/conference/repository"
	conferenceService "conference-backend/internal/domains/conference/service"
	profileHandler "conference-backend/internal/domains/profile/handler"
	profileRepo "conference-backend/internal/domains/profile/repository"
	profileService "conference-backend/internal/domains/profile/service"
	sessionHandler "conference-backend/internal/domains/session/handler"
	sessionRepo "conference-backend/internal/domains/session/repository"
	sessionService "conference-backend/internal/domains/session/service"
	speakerHandler "conference-backend/internal/domains/speaker/handler"
	speakerRepo "conference-backend/internal/domains/speaker/repository"
	speakerService "conference-backend/internal/domains/speaker/service"
)

// Container holds every dependency of the application. It is the root
// of the dependency graph; fields are populated in layer order.
type Container struct {
	// Infrastructure
	Config       *config.Config
	DB           *database.PostgresDB
	Cache        cache.Cache
	JWTManager   *jwt.Manager
	AsynqClient  *asynq.Client
	EmailService email.EmailService

	// Repositories
	ProfileRepo    profileRepo.Repository
	ConferenceRepo conferenceRepo.Repository
	SessionRepo    sessionRepo.Repository
	SpeakerRepo    speakerRepo.Repository

	// Services
	ProfileService    profileService.Service
	ConferenceService conferenceService.Service
	SessionService    sessionService.Service
	SpeakerService    speakerService.Service

	// HTTP handlers
	ProfileHandler    *profileHandler.ProfileHandler
	ConferenceHandler *conferenceHandler.ConferenceHandler
	SessionHandler    *sessionHandler.SessionHandler
	SpeakerHandler    *speakerHandler.SpeakerHandler
}

// NewContainer builds the whole dependency graph.
//
// Initialization order matters:
// 1. Config (depends on nothing)
// 2. Infrastructure (DB, Cache, queue client) - depends on Config
// 3. Repositories - depend on Infrastructure
// 4. Services - depend on Repositories
// 5. Handlers - depend on Services
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	log.Println("📋 Loading configuration...")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbCfg := database.DefaultDBConfig(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
	)
	dbCfg.MaxConns = int32(cfg.Database.MaxConns)
	dbCfg.MinConns = int32(cfg.Database.MinConns)
	db := database.NewPostgresDB(dbCfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Connect(context.Background()); err != nil {
		// The announcement and featured-speaker slots degrade to empty
		// on cache failure, so this is non-critical at startup
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 4: INITIALIZE TASK QUEUE CLIENT
	// ========================================
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Println("✅ Task queue client initialized")

	c.EmailService = email.NewSMTPEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.From,
	)

	// ========================================
	// STEP 5: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 6: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 7: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.ProfileRepo = profileRepo.NewPostgresRepository(pool, c.Cache)
	c.ConferenceRepo = conferenceRepo.NewPostgresRepository(pool, c.Cache)
	c.SessionRepo = sessionRepo.NewPostgresRepository(pool)
	c.SpeakerRepo = speakerRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.SpeakerService = speakerService.NewSpeakerService(c.SpeakerRepo)

	c.ProfileService = profileService.NewProfileService(
		c.ProfileRepo,
		c.SessionRepo, // Wishlist resolves sessions cross-domain
	)

	c.ConferenceService = conferenceService.NewConferenceService(
		c.ConferenceRepo,
		c.ProfileRepo, // Organizer display names
		c.Cache,
		c.AsynqClient,
	)

	c.SessionService = sessionService.NewSessionService(
		c.SessionRepo,
		c.ConferenceRepo, // Ownership checks
		c.SpeakerRepo,
		c.ProfileRepo,
		c.Cache,
		c.AsynqClient,
	)
}

func (c *Container) initHandlers() {
	c.ProfileHandler = profileHandler.NewProfileHandler(c.ProfileService)
	c.ConferenceHandler = conferenceHandler.NewConferenceHandler(c.ConferenceService)
	c.SessionHandler = sessionHandler.NewSessionHandler(c.SessionService)
	c.SpeakerHandler = speakerHandler.NewSpeakerHandler(c.SpeakerService)
}

// Cleanup releases resources during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close task queue client: %v", err)
		} else {
			log.Println("✅ Task queue client closed")
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("✅ Container cleanup completed")
}
