// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/lingoq/lingoq/internal/model"
)

// CreateTranslationParams holds the fields for recording a translation link.
type CreateTranslationParams struct {
	EntityType    string
	EntityID      int64
	LanguageID    int64
	TranslationID int64
}

// CreateTranslation records a source -> translated entity link. The unique
// index on (entity_type, entity_id, language_id) rejects duplicates.
func (q *Queries) CreateTranslation(ctx context.Context, p CreateTranslationParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO translations (entity_type, entity_id, language_id, translation_id)
		VALUES (?, ?, ?, ?)`,
		p.EntityType, p.EntityID, p.LanguageID, p.TranslationID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetTranslationParams identifies one translation link.
type GetTranslationParams struct {
	EntityType string
	EntityID   int64
	LanguageID int64
}

// GetTranslation fetches the translation link for an entity/language pair.
// Returns sql.ErrNoRows when the entity has not been translated yet.
func (q *Queries) GetTranslation(ctx context.Context, p GetTranslationParams) (model.Translation, error) {
	var t model.Translation
	err := q.db.QueryRowContext(ctx, `
		SELECT id, entity_type, entity_id, language_id, translation_id, created_at
		FROM translations
		WHERE entity_type = ? AND entity_id = ? AND language_id = ?`,
		p.EntityType, p.EntityID, p.LanguageID).
		Scan(&t.ID, &t.EntityType, &t.EntityID, &t.LanguageID, &t.TranslationID, &t.CreatedAt)
	return t, err
}
