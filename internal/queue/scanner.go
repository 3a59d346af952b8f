// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

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

// Scanner walks the published backlog and queues anything that has never been
// translated. It is idempotent: a second scan enqueues nothing new.
type Scanner struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewScanner returns a backlog scanner backed by the given store.
func NewScanner(queries *store.Queries, logger *slog.Logger) *Scanner {
	return &Scanner{queries: queries, logger: logger}
}

// ScanBacklog enqueues one OLD entry per missing (content, language) pair
// across all published default-language content and active target languages.
// It returns the number of entries created.
func (s *Scanner) ScanBacklog(ctx context.Context) (int, error) {
	def, err := s.queries.GetDefaultLanguage(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("backlog scan skipped: no default language configured")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get default language: %w", err)
	}

	langs, err := s.queries.ListActiveLanguages(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active languages: %w", err)
	}

	items, err := s.queries.ListPublishedContentByLanguage(ctx, def.Code)
	if err != nil {
		return 0, fmt.Errorf("list published content: %w", err)
	}

	created := 0
	for _, c := range items {
		for _, lang := range langs {
			if lang.ID == def.ID {
				continue
			}
			ok, err := s.needsTranslation(ctx, c.ID, lang)
			if err != nil {
				return created, err
			}
			if !ok {
				continue
			}
			entry, err := s.queries.CreateQueueEntry(ctx, store.CreateQueueEntryParams{
				ParentContentID: c.ID,
				Language:        lang.Name,
				Kind:            model.QueueKindOld,
			})
			if err != nil {
				return created, fmt.Errorf("enqueue backlog %d for %s: %w", c.ID, lang.Name, err)
			}
			s.logger.Info("enqueued backlog content",
				"queue_id", entry.ID, "content_id", c.ID, "language", lang.Name)
			created++
		}
	}
	s.logger.Info("backlog scan finished", "scanned", len(items), "enqueued", created)
	return created, nil
}

func (s *Scanner) needsTranslation(ctx context.Context, contentID int64, lang model.Language) (bool, error) {
	_, err := s.queries.GetTranslation(ctx, store.GetTranslationParams{
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
	queued, err := s.queries.QueueEntryExists(ctx, contentID, lang.Name)
	if err != nil {
		return false, fmt.Errorf("check queue: %w", err)
	}
	return !queued, nil
}
