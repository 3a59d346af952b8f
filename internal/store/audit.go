// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/lingoq/lingoq/internal/model"
)

// CreateAuditRecord persists one complete API exchange.
func (q *Queries) CreateAuditRecord(ctx context.Context, r model.AuditRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, content_id, queue_id, provider, model, endpoint,
			request_body, response_code, response_body, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ContentID, r.QueueID, r.Provider, r.Model, r.Endpoint,
		r.RequestBody, r.ResponseCode, r.ResponseBody, r.Error, r.CreatedAt)
	return err
}

// ListAuditRecordsByQueue returns all audit records for a queue entry,
// oldest first.
func (q *Queries) ListAuditRecordsByQueue(ctx context.Context, queueID int64) ([]model.AuditRecord, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, content_id, queue_id, provider, model, endpoint,
			request_body, response_code, response_body, error, created_at
		FROM audit_log WHERE queue_id = ? ORDER BY created_at, id`, queueID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.AuditRecord
	for rows.Next() {
		var r model.AuditRecord
		if err := rows.Scan(&r.ID, &r.ContentID, &r.QueueID, &r.Provider, &r.Model,
			&r.Endpoint, &r.RequestBody, &r.ResponseCode, &r.ResponseBody,
			&r.Error, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
