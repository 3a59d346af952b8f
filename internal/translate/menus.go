// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/settings"
	"github.com/lingoq/lingoq/internal/store"
	"github.com/lingoq/lingoq/internal/util"
)

// MenuTranslator produces a language-specific copy of a navigation menu:
// translated item titles, remapped page links, preserved tree and ordering.
type MenuTranslator struct {
	queries  *store.Queries
	client   *Client
	settings *settings.Service
	logger   *slog.Logger
}

// NewMenuTranslator wires a menu translator.
func NewMenuTranslator(queries *store.Queries, client *Client, settingsSvc *settings.Service, logger *slog.Logger) *MenuTranslator {
	return &MenuTranslator{queries: queries, client: client, settings: settingsSvc, logger: logger}
}

// TranslateMenu copies the menu into lang and returns the new menu id. When
// the menu is already linked the existing copy's id is returned untouched.
// Item page links point to the page's translated copy when one exists,
// falling back to the source page.
func (m *MenuTranslator) TranslateMenu(ctx context.Context, menuID int64, lang model.Language) (int64, error) {
	existing, err := m.queries.GetTranslation(ctx, store.GetTranslationParams{
		EntityType: model.EntityTypeMenu, EntityID: menuID, LanguageID: lang.ID,
	})
	if err == nil {
		return existing.TranslationID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("get menu link: %w", err)
	}

	menu, err := m.queries.GetMenu(ctx, menuID)
	if err != nil {
		return 0, fmt.Errorf("get menu %d: %w", menuID, err)
	}

	name, err := translateString(ctx, m.client, m.settings, menu.Name, lang, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("translate menu name: %w", err)
	}
	newMenuID, err := m.queries.CreateMenu(ctx, store.CreateMenuParams{
		Name:         name,
		Slug:         util.SlugifyWithFallback(name, menu.Slug, lang.Prefix),
		LanguageCode: lang.Code,
	})
	if err != nil {
		return 0, fmt.Errorf("create translated menu: %w", err)
	}

	items, err := m.queries.ListMenuItems(ctx, menuID)
	if err != nil {
		return 0, fmt.Errorf("list menu items: %w", err)
	}

	// ListMenuItems returns parents before children, so every item's parent
	// has already been copied when the item is reached.
	idMap := make(map[int64]int64, len(items))
	for _, item := range items {
		title, err := translateString(ctx, m.client, m.settings, item.Title, lang, 0, 0)
		if err != nil {
			return 0, fmt.Errorf("translate menu item %d: %w", item.ID, err)
		}

		var parentID sql.NullInt64
		if item.ParentID.Valid {
			mapped, ok := idMap[item.ParentID.Int64]
			if !ok {
				return 0, fmt.Errorf("menu item %d references unseen parent %d", item.ID, item.ParentID.Int64)
			}
			parentID = sql.NullInt64{Int64: mapped, Valid: true}
		}

		newID, err := m.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
			MenuID:   newMenuID,
			ParentID: parentID,
			Title:    title,
			URL:      item.URL,
			PageID:   m.remapPage(ctx, item.PageID, lang),
			Position: item.Position,
		})
		if err != nil {
			return 0, fmt.Errorf("create translated menu item: %w", err)
		}
		idMap[item.ID] = newID
	}

	if _, err := m.queries.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType: model.EntityTypeMenu, EntityID: menuID,
		LanguageID: lang.ID, TranslationID: newMenuID,
	}); err != nil {
		return 0, fmt.Errorf("link translated menu: %w", err)
	}

	m.logger.Info("translated menu",
		"menu_id", menuID, "translated_id", newMenuID,
		"language", lang.Name, "items", len(items))
	return newMenuID, nil
}

func (m *MenuTranslator) remapPage(ctx context.Context, pageID sql.NullInt64, lang model.Language) sql.NullInt64 {
	if !pageID.Valid {
		return pageID
	}
	link, err := m.queries.GetTranslation(ctx, store.GetTranslationParams{
		EntityType: model.EntityTypeContent, EntityID: pageID.Int64, LanguageID: lang.ID,
	})
	if err != nil {
		return pageID
	}
	return sql.NullInt64{Int64: link.TranslationID, Valid: true}
}
