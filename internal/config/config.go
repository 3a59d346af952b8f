// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"LINGOQ_DB_PATH" envDefault:"./data/lingoq.db"`
	ServerHost string `env:"LINGOQ_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"LINGOQ_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"LINGOQ_ENV" envDefault:"development"`
	LogLevel   string `env:"LINGOQ_LOG_LEVEL" envDefault:"info"`

	// Queue polling configuration
	PollSchedule string `env:"LINGOQ_POLL_SCHEDULE" envDefault:"* * * * *"` // cron spec, one tick per kind
	PollEnabled  bool   `env:"LINGOQ_POLL_ENABLED" envDefault:"true"`
	APIRateLimit float64 `env:"LINGOQ_API_RATE_LIMIT" envDefault:"0.5"` // API calls per second across all kinds

	// Translation memory cache configuration
	RedisURL    string `env:"LINGOQ_REDIS_URL"`                       // optional Redis URL for shared translation memory
	CachePrefix string `env:"LINGOQ_CACHE_PREFIX" envDefault:"lingoq:"`
	CacheTTL    int    `env:"LINGOQ_CACHE_TTL" envDefault:"86400"`    // seconds

	// API key overrides; DB-stored keys take precedence when set
	OpenAIKey string `env:"LINGOQ_OPENAI_API_KEY"`
	ClaudeKey string `env:"LINGOQ_CLAUDE_API_KEY"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis translation memory is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.APIRateLimit <= 0 {
		return nil, fmt.Errorf("LINGOQ_API_RATE_LIMIT must be positive, got %v", cfg.APIRateLimit)
	}

	return cfg, nil
}
