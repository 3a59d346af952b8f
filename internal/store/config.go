// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lingoq/lingoq/internal/model"
)

// GetConfig fetches a configuration item by key.
func (q *Queries) GetConfig(ctx context.Context, key string) (model.Config, error) {
	var c model.Config
	err := q.db.QueryRowContext(ctx, `
		SELECT key, value, type, description, updated_at, updated_by
		FROM config WHERE key = ?`, key).
		Scan(&c.Key, &c.Value, &c.Type, &c.Description, &c.UpdatedAt, &c.UpdatedBy)
	return c, err
}

// GetConfigValue returns a config value, or the empty string when unset.
func (q *Queries) GetConfigValue(ctx context.Context, key string) (string, error) {
	c, err := q.GetConfig(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// SetConfigParams holds the fields for writing a configuration item.
type SetConfigParams struct {
	Key         string
	Value       string
	Type        string
	Description string
}

// SetConfig inserts or updates a configuration item.
func (q *Queries) SetConfig(ctx context.Context, p SetConfigParams) error {
	if p.Type == "" {
		p.Type = model.ConfigTypeString
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO config (key, value, type, description, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		p.Key, p.Value, p.Type, p.Description, time.Now())
	return err
}
