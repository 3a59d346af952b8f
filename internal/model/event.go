// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryQueue     = "queue"
	EventCategoryTranslate = "translate"
	EventCategoryAPI       = "api"
	EventCategoryContent   = "content"
	EventCategoryConfig    = "config"
	EventCategorySystem    = "system"
)

// Event represents a system event log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	QueueID   sql.NullInt64
	Metadata  string // JSON string
	CreatedAt time.Time
}
