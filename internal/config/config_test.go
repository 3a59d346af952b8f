// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "./data/lingoq.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.UseRedisCache() {
		t.Error("redis cache should be off by default")
	}
	if cfg.PollSchedule != "* * * * *" {
		t.Errorf("PollSchedule = %q", cfg.PollSchedule)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LINGOQ_SERVER_PORT", "9090")
	t.Setenv("LINGOQ_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LINGOQ_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d", cfg.ServerPort)
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache should be true")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment should be false")
	}
}

func TestLoadRejectsBadRateLimit(t *testing.T) {
	t.Setenv("LINGOQ_API_RATE_LIMIT", "-1")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative rate limit")
	}
}
