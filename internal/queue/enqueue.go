// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package queue decides which translation jobs to create: save hooks enqueue
// freshly written content, and the backlog scanner sweeps up items that
// predate the plugin or a newly activated language.
package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/store"
)

// Enqueuer creates queue entries for content that needs translating.
type Enqueuer struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewEnqueuer returns an enqueuer backed by the given store.
func NewEnqueuer(queries *store.Queries, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{queries: queries, logger: logger}
}

// EnqueueForContent queues one entry per active target language for a freshly
// saved content item. Items written in a non-default language are translated
// copies themselves and are skipped, as are unpublished items, languages that
// already have a translation link, and pairs already waiting in the queue.
func (e *Enqueuer) EnqueueForContent(ctx context.Context, contentID int64) ([]model.QueueEntry, error) {
	c, err := e.queries.GetContent(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("get content %d: %w", contentID, err)
	}
	if !c.IsPublished() {
		return nil, nil
	}

	def, err := e.queries.GetDefaultLanguage(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get default language: %w", err)
	}
	if c.LanguageCode != def.Code {
		return nil, nil
	}

	langs, err := e.targetLanguages(ctx, def.ID)
	if err != nil {
		return nil, err
	}

	var entries []model.QueueEntry
	for _, lang := range langs {
		ok, err := e.needsTranslation(ctx, contentID, lang)
		if err != nil {
			return entries, err
		}
		if !ok {
			continue
		}
		entry, err := e.queries.CreateQueueEntry(ctx, store.CreateQueueEntryParams{
			ParentContentID: contentID,
			Language:        lang.Name,
			Kind:            model.QueueKindNew,
		})
		if err != nil {
			return entries, fmt.Errorf("enqueue %d for %s: %w", contentID, lang.Name, err)
		}
		e.logger.Info("enqueued content for translation",
			"queue_id", entry.ID, "content_id", contentID, "language", lang.Name)
		entries = append(entries, entry)
	}
	return entries, nil
}

// EnqueueEdit queues re-translation of the named fields for every language
// that already has a translated copy of the content item.
func (e *Enqueuer) EnqueueEdit(ctx context.Context, contentID int64, fields []string) ([]model.QueueEntry, error) {
	def, err := e.queries.GetDefaultLanguage(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get default language: %w", err)
	}

	langs, err := e.targetLanguages(ctx, def.ID)
	if err != nil {
		return nil, err
	}

	var entries []model.QueueEntry
	for _, lang := range langs {
		_, err := e.queries.GetTranslation(ctx, store.GetTranslationParams{
			EntityType: model.EntityTypeContent,
			EntityID:   contentID,
			LanguageID: lang.ID,
		})
		if errors.Is(err, sql.ErrNoRows) {
			// No translated copy yet; a NEW entry will cover the whole item.
			continue
		}
		if err != nil {
			return entries, fmt.Errorf("get translation link: %w", err)
		}

		queued, err := e.queries.QueueEntryExists(ctx, contentID, lang.Name)
		if err != nil {
			return entries, fmt.Errorf("check queue: %w", err)
		}
		if queued {
			continue
		}

		entry, err := e.queries.CreateQueueEntry(ctx, store.CreateQueueEntryParams{
			ParentContentID: contentID,
			Language:        lang.Name,
			Kind:            model.QueueKindEdit,
			EditedFields:    fields,
		})
		if err != nil {
			return entries, fmt.Errorf("enqueue edit %d for %s: %w", contentID, lang.Name, err)
		}
		e.logger.Info("enqueued edited fields for re-translation",
			"queue_id", entry.ID, "content_id", contentID, "language", lang.Name, "fields", fields)
		entries = append(entries, entry)
	}
	return entries, nil
}

// SaveHook adapts EnqueueForContent to the content service's OnSave callback.
// Failures are logged, not propagated; a save must never fail because the
// queue could not be written.
func (e *Enqueuer) SaveHook() func(ctx context.Context, contentID int64) {
	return func(ctx context.Context, contentID int64) {
		if _, err := e.EnqueueForContent(ctx, contentID); err != nil {
			e.logger.Error("save hook enqueue failed", "content_id", contentID, "error", err)
		}
	}
}

func (e *Enqueuer) targetLanguages(ctx context.Context, defaultID int64) ([]model.Language, error) {
	langs, err := e.queries.ListActiveLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active languages: %w", err)
	}
	out := langs[:0]
	for _, lang := range langs {
		if lang.ID == defaultID {
			continue
		}
		out = append(out, lang)
	}
	return out, nil
}

func (e *Enqueuer) needsTranslation(ctx context.Context, contentID int64, lang model.Language) (bool, error) {
	_, err := e.queries.GetTranslation(ctx, store.GetTranslationParams{
		EntityType: model.EntityTypeContent,
		EntityID:   contentID,
		LanguageID: lang.ID,
	})
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("get translation link: %w", err)
	}

	queued, err := e.queries.QueueEntryExists(ctx, contentID, lang.Name)
	if err != nil {
		return false, fmt.Errorf("check queue: %w", err)
	}
	return !queued, nil
}
