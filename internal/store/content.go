// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/lingoq/lingoq/internal/model"
)

const contentColumns = `id, slug, title, body, excerpt, status, author_id,
	parent_id, comment_status, language_code, created_at, updated_at`

func scanContent(row interface{ Scan(...any) error }) (model.Content, error) {
	var c model.Content
	err := row.Scan(&c.ID, &c.Slug, &c.Title, &c.Body, &c.Excerpt, &c.Status,
		&c.AuthorID, &c.ParentID, &c.CommentStatus, &c.LanguageCode,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// GetContent fetches a content item by id.
func (q *Queries) GetContent(ctx context.Context, id int64) (model.Content, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = ?`, id)
	return scanContent(row)
}

// CreateContentParams holds the fields for creating a content item.
type CreateContentParams struct {
	Slug          string
	Title         string
	Body          string
	Excerpt       string
	Status        string
	AuthorID      int64
	ParentID      sql.NullInt64
	CommentStatus string
	LanguageCode  string
}

// CreateContent inserts a content item and returns its id.
func (q *Queries) CreateContent(ctx context.Context, p CreateContentParams) (int64, error) {
	now := time.Now()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO contents (slug, title, body, excerpt, status, author_id,
			parent_id, comment_status, language_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Body, p.Excerpt, p.Status, p.AuthorID,
		p.ParentID, p.CommentStatus, p.LanguageCode, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateContentFieldsParams holds the fields for a partial content update.
// Nil pointers leave the column untouched.
type UpdateContentFieldsParams struct {
	ID      int64
	Title   *string
	Body    *string
	Excerpt *string
}

// UpdateContentFields updates only the provided columns.
func (q *Queries) UpdateContentFields(ctx context.Context, p UpdateContentFieldsParams) error {
	query := `UPDATE contents SET updated_at = ?`
	args := []any{time.Now()}
	if p.Title != nil {
		query += `, title = ?`
		args = append(args, *p.Title)
	}
	if p.Body != nil {
		query += `, body = ?`
		args = append(args, *p.Body)
	}
	if p.Excerpt != nil {
		query += `, excerpt = ?`
		args = append(args, *p.Excerpt)
	}
	query += ` WHERE id = ?`
	args = append(args, p.ID)
	_, err := q.db.ExecContext(ctx, query, args...)
	return err
}

// SlugExists reports whether a slug is already taken for a language.
func (q *Queries) SlugExists(ctx context.Context, slug, languageCode string) (bool, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contents WHERE slug = ? AND language_code = ?`,
		slug, languageCode).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListPublishedContentByLanguage returns published items for one language.
// Used by the backlog scanner.
func (q *Queries) ListPublishedContentByLanguage(ctx context.Context, languageCode string) ([]model.Content, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+contentColumns+` FROM contents
		WHERE status = ? AND language_code = ? ORDER BY id`,
		model.ContentStatusPublished, languageCode)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListContentMeta returns all custom fields for a content item, key order stable.
func (q *Queries) ListContentMeta(ctx context.Context, contentID int64) ([]model.ContentMeta, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT content_id, key, value FROM content_meta WHERE content_id = ? ORDER BY key`, contentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metas []model.ContentMeta
	for rows.Next() {
		var m model.ContentMeta
		if err := rows.Scan(&m.ContentID, &m.Key, &m.Value); err != nil {
			return nil, err
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// UpsertContentMeta sets one custom field on a content item.
func (q *Queries) UpsertContentMeta(ctx context.Context, contentID int64, key, value string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO content_meta (content_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(content_id, key) DO UPDATE SET value = excluded.value`,
		contentID, key, value)
	return err
}

// ListContentTerms returns taxonomy terms associated with a content item.
func (q *Queries) ListContentTerms(ctx context.Context, contentID int64) ([]model.Term, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.slug, t.taxonomy, t.parent_id
		FROM terms t JOIN content_terms ct ON ct.term_id = t.id
		WHERE ct.content_id = ? ORDER BY t.id`, contentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var terms []model.Term
	for rows.Next() {
		var t model.Term
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Taxonomy, &t.ParentID); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// AddContentTerm associates a term with a content item.
func (q *Queries) AddContentTerm(ctx context.Context, contentID, termID int64) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO content_terms (content_id, term_id) VALUES (?, ?)
		ON CONFLICT DO NOTHING`, contentID, termID)
	return err
}
