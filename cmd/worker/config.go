package main

import (
	"log"

	"conference-backend/internal/shared/utils"
)

// Config holds all configuration for the worker
type Config struct {
	RedisAddr            string
	AnnouncementInterval string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	cfg := &Config{
		RedisAddr:            utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
		AnnouncementInterval: utils.GetEnvVariable("ANNOUNCEMENT_INTERVAL", "@every 1h"),
	}

	log.Printf("[Config] Redis: %s, Announcement interval: %s",
		cfg.RedisAddr, cfg.AnnouncementInterval)

	return cfg
}
