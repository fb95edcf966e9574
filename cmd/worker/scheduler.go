package main

import (
	"log"

	"github.com/hibiken/asynq"

	"conference-backend/internal/shared"
	"conference-backend/internal/shared/utils"
)

// asynqScheduler wraps asynq.Scheduler with additional functionality
type asynqScheduler struct {
	*asynq.Scheduler
}

// setupScheduler creates and configures the scheduler.
//
// The announcement slot is rebuilt periodically in addition to the
// post-registration recomputes, so it converges even if an enqueue was
// lost.
func setupScheduler(cfg *Config) *asynqScheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		&asynq.SchedulerOpts{},
	)

	task, err := utils.MarshalTask(shared.TypeRecomputeAnnouncement, struct{}{})
	if err != nil {
		log.Fatalf("[Scheduler] Failed to build announcement task: %v", err)
	}

	entryID, err := scheduler.Register(
		cfg.AnnouncementInterval,
		task,
		asynq.Queue("low"),
		asynq.MaxRetry(2),
	)
	if err != nil {
		log.Fatalf("[Scheduler] Failed to register: %v", err)
	}
	log.Printf("[Scheduler] Registered announcement recompute (entry: %s, spec: %s)",
		entryID, cfg.AnnouncementInterval)

	go func() {
		log.Println("[Scheduler] Starting...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Scheduler] Failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] ✓ Stopped")
}
