// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Port string `validate:"required"`

	// Auth. Empty disables API authentication.
	APIKey string

	// Worker pool
	WorkerCount  int `validate:"min=1,max=64"`
	MaxQueueSize int `validate:"min=1"`

	// Upload limits
	MaxUploadBytes int64 `validate:"min=1"`

	// Per-document extraction budget
	OutlineBudget time.Duration `validate:"required"`

	// Job state retention
	JobTTL time.Duration `validate:"required"`
}

func Load() Config {
	cfg := Config{
		Port:           envOr("PORT", "8091"),
		APIKey:         os.Getenv("DSX_API_KEY"),
		WorkerCount:    envInt("WORKER_COUNT", 4),
		MaxQueueSize:   envInt("MAX_QUEUE_SIZE", 100),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		OutlineBudget:  envDuration("OUTLINE_BUDGET", 10*time.Second),
		JobTTL:         envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.OutlineBudget <= 0 {
		cfg.OutlineBudget = 10 * time.Second
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
