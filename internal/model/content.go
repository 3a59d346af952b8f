// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Content statuses.
const (
	ContentStatusDraft     = "draft"
	ContentStatusPublished = "published"
)

// Comment settings.
const (
	CommentStatusOpen   = "open"
	CommentStatusClosed = "closed"
)

// Standard translatable field keys. Custom fields use their meta key as-is.
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldExcerpt = "excerpt"
)

// MetaInternalPrefix marks custom-field keys that are internal bookkeeping and
// must never be sent for translation.
const MetaInternalPrefix = "_"

// Content represents a stored content item (page or post). Translated items
// reference their source through the translations link table, not through
// ParentID, which carries the hierarchical page relationship.
type Content struct {
	ID            int64         `json:"id"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Body          string        `json:"body"`
	Excerpt       string        `json:"excerpt"`
	Status        string        `json:"status"`
	AuthorID      int64         `json:"author_id"`
	ParentID      sql.NullInt64 `json:"parent_id,omitempty"`
	CommentStatus string        `json:"comment_status"`
	LanguageCode  string        `json:"language_code"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsPublished returns true if the content is published.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// ContentMeta is a single custom field attached to a content item.
type ContentMeta struct {
	ContentID int64  `json:"content_id"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// IsInternal reports whether the meta key is internal bookkeeping.
func (m ContentMeta) IsInternal() bool {
	return len(m.Key) > 0 && m.Key[0:1] == MetaInternalPrefix
}

// Term represents a taxonomy term (category or tag). Terms form a hierarchy
// through ParentID; translated terms are linked via the translations table.
type Term struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Slug     string        `json:"slug"`
	Taxonomy string        `json:"taxonomy"`
	ParentID sql.NullInt64 `json:"parent_id,omitempty"`
}

// Menu represents a named navigation menu tied to a language.
type Menu struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	LanguageCode string `json:"language_code"`
}

// MenuItem is one entry in a menu. Items form a tree via ParentID.
type MenuItem struct {
	ID       int64          `json:"id"`
	MenuID   int64          `json:"menu_id"`
	ParentID sql.NullInt64  `json:"parent_id,omitempty"`
	Title    string         `json:"title"`
	URL      sql.NullString `json:"url,omitempty"`
	PageID   sql.NullInt64  `json:"page_id,omitempty"`
	Position int            `json:"position"`
}
