// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/lingoq/lingoq/internal/model"
)

// GetTerm fetches a taxonomy term by id.
func (q *Queries) GetTerm(ctx context.Context, id int64) (model.Term, error) {
	var t model.Term
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, slug, taxonomy, parent_id FROM terms WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Slug, &t.Taxonomy, &t.ParentID)
	return t, err
}

// CreateTermParams holds the fields for creating a term.
type CreateTermParams struct {
	Name     string
	Slug     string
	Taxonomy string
	ParentID sql.NullInt64
}

// CreateTerm inserts a term and returns its id.
func (q *Queries) CreateTerm(ctx context.Context, p CreateTermParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO terms (name, slug, taxonomy, parent_id) VALUES (?, ?, ?, ?)`,
		p.Name, p.Slug, p.Taxonomy, p.ParentID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetMenu fetches a menu by id.
func (q *Queries) GetMenu(ctx context.Context, id int64) (model.Menu, error) {
	var m model.Menu
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, slug, language_code FROM menus WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Slug, &m.LanguageCode)
	return m, err
}

// CreateMenuParams holds the fields for creating a menu.
type CreateMenuParams struct {
	Name         string
	Slug         string
	LanguageCode string
}

// CreateMenu inserts a menu and returns its id.
func (q *Queries) CreateMenu(ctx context.Context, p CreateMenuParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO menus (name, slug, language_code) VALUES (?, ?, ?)`,
		p.Name, p.Slug, p.LanguageCode)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListMenuItems returns a menu's items ordered position-first so parents are
// created before children when walking top-down.
func (q *Queries) ListMenuItems(ctx context.Context, menuID int64) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, menu_id, parent_id, title, url, page_id, position
		FROM menu_items WHERE menu_id = ? ORDER BY parent_id IS NOT NULL, position, id`, menuID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.MenuItem
	for rows.Next() {
		var it model.MenuItem
		if err := rows.Scan(&it.ID, &it.MenuID, &it.ParentID, &it.Title,
			&it.URL, &it.PageID, &it.Position); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateMenuItemParams holds the fields for creating a menu item.
type CreateMenuItemParams struct {
	MenuID   int64
	ParentID sql.NullInt64
	Title    string
	URL      sql.NullString
	PageID   sql.NullInt64
	Position int
}

// CreateMenuItem inserts a menu item and returns its id.
func (q *Queries) CreateMenuItem(ctx context.Context, p CreateMenuItemParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO menu_items (menu_id, parent_id, title, url, page_id, position)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.MenuID, p.ParentID, p.Title, p.URL, p.PageID, p.Position)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
