// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lingoq/lingoq/internal/model"
)

const queueColumns = `id, parent_content_id, translated_content_id, language,
	status, kind, edited_fields, error_message, created_at, updated_at`

func scanQueueEntry(row interface{ Scan(...any) error }) (model.QueueEntry, error) {
	var e model.QueueEntry
	var editedFields sql.NullString
	err := row.Scan(&e.ID, &e.ParentContentID, &e.TranslatedContentID, &e.Language,
		&e.Status, &e.Kind, &editedFields, &e.ErrorMessage, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	if editedFields.Valid && editedFields.String != "" {
		if err := json.Unmarshal([]byte(editedFields.String), &e.EditedFields); err != nil {
			return e, fmt.Errorf("decoding edited_fields for queue %d: %w", e.ID, err)
		}
	}
	return e, nil
}

// CreateQueueEntryParams holds the fields for enqueuing a translation job.
type CreateQueueEntryParams struct {
	ParentContentID int64
	Language        string
	Kind            string
	EditedFields    []string
}

// CreateQueueEntry inserts a new pending queue entry.
func (q *Queries) CreateQueueEntry(ctx context.Context, p CreateQueueEntryParams) (model.QueueEntry, error) {
	var editedFields sql.NullString
	if len(p.EditedFields) > 0 {
		b, err := json.Marshal(p.EditedFields)
		if err != nil {
			return model.QueueEntry{}, fmt.Errorf("encoding edited_fields: %w", err)
		}
		editedFields = sql.NullString{String: string(b), Valid: true}
	}
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO queue (parent_content_id, language, status, kind, edited_fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ParentContentID, p.Language, model.QueueStatusPending, p.Kind, editedFields, now, now)
	if err != nil {
		return model.QueueEntry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.QueueEntry{}, err
	}
	return q.GetQueueEntry(ctx, id)
}

// GetQueueEntry fetches a queue entry by id.
func (q *Queries) GetQueueEntry(ctx context.Context, id int64) (model.QueueEntry, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+queueColumns+` FROM queue WHERE id = ?`, id)
	return scanQueueEntry(row)
}

// OldestPendingQueueEntry returns the oldest pending entry of a kind.
// Returns sql.ErrNoRows when nothing of that kind is pending.
func (q *Queries) OldestPendingQueueEntry(ctx context.Context, kind string) (model.QueueEntry, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+queueColumns+` FROM queue
		WHERE status = ? AND kind = ? ORDER BY created_at, id LIMIT 1`,
		model.QueueStatusPending, kind)
	return scanQueueEntry(row)
}

// ClaimQueueEntry conditionally moves a pending entry to processing. It is the
// single mutual-exclusion point between concurrent pollers: only the caller
// that observes one affected row owns the entry.
func (q *Queries) ClaimQueueEntry(ctx context.Context, id int64) (bool, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE queue SET status = ?, error_message = NULL, updated_at = ?
		WHERE id = ? AND status = ?`,
		model.QueueStatusProcessing, time.Now(), id, model.QueueStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ResubmitQueueEntry moves a failed entry back to processing for an explicit
// retry. Returns false when the entry was not in the failed state.
func (q *Queries) ResubmitQueueEntry(ctx context.Context, id int64) (bool, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE queue SET status = ?, error_message = NULL, updated_at = ?
		WHERE id = ? AND status = ?`,
		model.QueueStatusProcessing, time.Now(), id, model.QueueStatusFailed)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkQueueCompleted records a successful translation.
func (q *Queries) MarkQueueCompleted(ctx context.Context, id, translatedContentID int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE queue SET status = ?, translated_content_id = ?, error_message = NULL, updated_at = ?
		WHERE id = ?`,
		model.QueueStatusCompleted, translatedContentID, time.Now(), id)
	return err
}

// MarkQueueFailed records a failure with a human-readable message.
func (q *Queries) MarkQueueFailed(ctx context.Context, id int64, message string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE queue SET status = ?, error_message = ?, updated_at = ?
		WHERE id = ?`,
		model.QueueStatusFailed, message, time.Now(), id)
	return err
}

// ListQueueParams filters ListQueueEntries. Empty fields match everything.
type ListQueueParams struct {
	Status string
	Kind   string
	Limit  int
}

// ListQueueEntries returns queue entries newest first.
func (q *Queries) ListQueueEntries(ctx context.Context, p ListQueueParams) ([]model.QueueEntry, error) {
	query := `SELECT ` + queueColumns + ` FROM queue WHERE 1=1`
	var args []any
	if p.Status != "" {
		query += ` AND status = ?`
		args = append(args, p.Status)
	}
	if p.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, p.Kind)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if p.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, p.Limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []model.QueueEntry
	for rows.Next() {
		e, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// QueueEntryExists reports whether a non-terminal entry already exists for the
// given (parent, language) pair. Used by the scanner to avoid duplicates.
func (q *Queries) QueueEntryExists(ctx context.Context, parentContentID int64, language string) (bool, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM queue
		WHERE parent_content_id = ? AND language = ? AND status IN (?, ?)`,
		parentContentID, language, model.QueueStatusPending, model.QueueStatusProcessing).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
