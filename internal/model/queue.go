// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Queue entry statuses.
const (
	QueueStatusPending    = "pending"
	QueueStatusProcessing = "processing"
	QueueStatusCompleted  = "completed"
	QueueStatusFailed     = "failed"
)

// Queue entry kinds.
const (
	QueueKindNew  = "new"  // freshly authored content awaiting first translation
	QueueKindOld  = "old"  // backlog content discovered by a bulk scan
	QueueKindEdit = "edit" // existing translation needing incremental field updates
)

// QueueKinds lists all valid queue kinds.
var QueueKinds = []string{QueueKindNew, QueueKindOld, QueueKindEdit}

// IsValidQueueKind reports whether kind is a known queue kind.
func IsValidQueueKind(kind string) bool {
	for _, k := range QueueKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// QueueEntry represents one translation job tracked through its status lifecycle.
// Entries are created by the save hook or the backlog scanner, mutated only by
// the queue processor, and never deleted: completed/failed rows are retained
// for audit and manual retry.
type QueueEntry struct {
	ID                  int64          `json:"id"`
	ParentContentID     int64          `json:"parent_content_id"`
	TranslatedContentID sql.NullInt64  `json:"translated_content_id"`
	Language            string         `json:"language"` // human-readable name, e.g. "French"
	Status              string         `json:"status"`
	Kind                string         `json:"kind"`
	EditedFields        []string       `json:"edited_fields,omitempty"` // only for kind=edit
	ErrorMessage        sql.NullString `json:"error_message,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// IsTerminal returns true when the entry is in a terminal state.
func (e *QueueEntry) IsTerminal() bool {
	return e.Status == QueueStatusCompleted || e.Status == QueueStatusFailed
}

// Outcome is the structured result of one ProcessNext invocation.
type Outcome struct {
	NoWork       bool              `json:"no_work,omitempty"`
	QueueID      int64             `json:"queue_id,omitempty"`
	ParentID     int64             `json:"parent_id,omitempty"`
	TranslatedID int64             `json:"translated_id,omitempty"`
	Language     string            `json:"language,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	Failed       bool              `json:"failed,omitempty"`
	Error        string            `json:"error,omitempty"`
}
