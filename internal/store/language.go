// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/lingoq/lingoq/internal/model"
)

const languageColumns = `id, code, name, native_name, prefix, description,
	is_default, is_active, position, created_at, updated_at`

func scanLanguage(row interface{ Scan(...any) error }) (model.Language, error) {
	var l model.Language
	err := row.Scan(&l.ID, &l.Code, &l.Name, &l.NativeName, &l.Prefix, &l.Description,
		&l.IsDefault, &l.IsActive, &l.Position, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// GetLanguageByName fetches a language by its human-readable name,
// case-insensitively. Queue entries identify languages by name.
func (q *Queries) GetLanguageByName(ctx context.Context, name string) (model.Language, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE name = ? COLLATE NOCASE`, name)
	return scanLanguage(row)
}

// GetLanguageByCode fetches a language by ISO code.
func (q *Queries) GetLanguageByCode(ctx context.Context, code string) (model.Language, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE code = ?`, code)
	return scanLanguage(row)
}

// GetDefaultLanguage fetches the source language.
func (q *Queries) GetDefaultLanguage(ctx context.Context) (model.Language, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE is_default = 1 LIMIT 1`)
	return scanLanguage(row)
}

// ListActiveLanguages returns active languages ordered by position.
func (q *Queries) ListActiveLanguages(ctx context.Context) ([]model.Language, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+languageColumns+` FROM languages WHERE is_active = 1 ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var langs []model.Language
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	return langs, rows.Err()
}

// CreateLanguageParams holds the fields for creating a language.
type CreateLanguageParams struct {
	Code        string
	Name        string
	NativeName  string
	Prefix      string
	Description string
	IsDefault   bool
	IsActive    bool
	Position    int
}

// CreateLanguage inserts a language and returns its id.
func (q *Queries) CreateLanguage(ctx context.Context, p CreateLanguageParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO languages (code, name, native_name, prefix, description, is_default, is_active, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Name, p.NativeName, p.Prefix, p.Description, p.IsDefault, p.IsActive, p.Position)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
