// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Entity types for translations.
const (
	EntityTypeContent  = "content"
	EntityTypeTerm     = "term"
	EntityTypeMenu     = "menu"
	EntityTypeMenuItem = "menu_item"
)

// Translation links a source entity to its translated sibling in one language.
// Content 1 (English) linked to Content 7 (French) would be:
// Translation { EntityType: "content", EntityID: 1, LanguageID: 2, TranslationID: 7 }
// A unique index on (entity_type, entity_id, language_id) guarantees that
// re-translating a pair can never produce a duplicate sibling.
type Translation struct {
	ID            int64     `json:"id"`
	EntityType    string    `json:"entity_type"`
	EntityID      int64     `json:"entity_id"`
	LanguageID    int64     `json:"language_id"`
	TranslationID int64     `json:"translation_id"`
	CreatedAt     time.Time `json:"created_at"`
}
