// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// AuditRecord captures one complete API exchange for a (content id, queue id)
// pair, written even when the call fails so failures stay diagnosable.
type AuditRecord struct {
	ID           string         `json:"id"` // uuid
	ContentID    int64          `json:"content_id"`
	QueueID      int64          `json:"queue_id"`
	Provider     string         `json:"provider"`
	Model        string         `json:"model"`
	Endpoint     string         `json:"endpoint"`
	RequestBody  string         `json:"request_body"`  // raw JSON sent
	ResponseCode int            `json:"response_code"` // 0 when no HTTP response was received
	ResponseBody string         `json:"response_body"`
	Error        sql.NullString `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
