// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content assembles translatable fields from stored content and
// persists translated copies, keeping slugs, custom fields, taxonomy
// associations and translation links consistent.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/store"
	"github.com/lingoq/lingoq/internal/util"
)

const excerptMaxLen = 300

// SaveOptions controls side effects of a save.
type SaveOptions struct {
	// SuppressHooks skips the OnSave callback. The queue processor sets it so
	// that saving a translated copy does not enqueue that copy in turn.
	SuppressHooks bool
}

// Service reads and writes content items for the translation pipeline.
type Service struct {
	queries *store.Queries
	logger  *slog.Logger
	strip   *bluemonday.Policy

	// OnSave, when set, runs after a content item is created or updated
	// through this service. Queue enqueueing hangs off it.
	OnSave func(ctx context.Context, contentID int64)
}

// NewService returns a content service backed by the given store.
func NewService(queries *store.Queries, logger *slog.Logger) *Service {
	return &Service{
		queries: queries,
		logger:  logger,
		strip:   bluemonday.StrictPolicy(),
	}
}

// GetFields builds the ordered field map for a content item: title, body and
// excerpt when non-blank, then all non-internal custom fields in key order.
func (s *Service) GetFields(ctx context.Context, id int64) (*model.FieldMap, error) {
	c, err := s.queries.GetContent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get content %d: %w", id, err)
	}

	fields := model.NewFieldMap()
	if strings.TrimSpace(c.Title) != "" {
		fields.Set(model.FieldTitle, c.Title)
	}
	if strings.TrimSpace(c.Body) != "" {
		fields.Set(model.FieldContent, c.Body)
	}
	if strings.TrimSpace(c.Excerpt) != "" {
		fields.Set(model.FieldExcerpt, c.Excerpt)
	}

	metas, err := s.queries.ListContentMeta(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list content meta %d: %w", id, err)
	}
	for _, m := range metas {
		if m.IsInternal() || strings.TrimSpace(m.Value) == "" {
			continue
		}
		fields.Set(m.Key, m.Value)
	}
	return fields, nil
}

// TranslatedID returns the id of the existing translated copy of a content
// item for one language, or ok=false when none has been recorded.
func (s *Service) TranslatedID(ctx context.Context, parentID, languageID int64) (int64, bool, error) {
	link, err := s.queries.GetTranslation(ctx, store.GetTranslationParams{
		EntityType: model.EntityTypeContent,
		EntityID:   parentID,
		LanguageID: languageID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return link.TranslationID, true, nil
}

// CreateTranslated stores a translated copy of parent in the target language.
// Fields missing from the map fall back to the parent's values; the excerpt is
// derived from the translated body when neither side provides one. Status,
// author, page parent, comment setting and taxonomy terms carry over, and a
// translation link is recorded in both directions.
func (s *Service) CreateTranslated(ctx context.Context, parent model.Content, lang model.Language, fields *model.FieldMap, opts SaveOptions) (int64, error) {
	title := fieldOr(fields, model.FieldTitle, parent.Title)
	body := fieldOr(fields, model.FieldContent, parent.Body)
	excerpt := fieldOr(fields, model.FieldExcerpt, parent.Excerpt)
	if strings.TrimSpace(excerpt) == "" {
		excerpt = s.deriveExcerpt(body)
	}

	slug, err := s.uniqueSlug(ctx, title, parent, lang)
	if err != nil {
		return 0, err
	}

	id, err := s.queries.CreateContent(ctx, store.CreateContentParams{
		Slug:          slug,
		Title:         title,
		Body:          body,
		Excerpt:       excerpt,
		Status:        parent.Status,
		AuthorID:      parent.AuthorID,
		ParentID:      parent.ParentID,
		CommentStatus: parent.CommentStatus,
		LanguageCode:  lang.Code,
	})
	if err != nil {
		return 0, fmt.Errorf("create translated content: %w", err)
	}

	if err := s.copyCustomFields(ctx, parent.ID, id, fields); err != nil {
		return 0, err
	}
	if err := s.copyTerms(ctx, parent.ID, id); err != nil {
		return 0, err
	}
	if err := s.linkTranslation(ctx, parent.ID, id, lang); err != nil {
		return 0, err
	}

	s.logger.Info("created translated content",
		"content_id", id, "parent_id", parent.ID, "language", lang.Name, "slug", slug)

	if !opts.SuppressHooks && s.OnSave != nil {
		s.OnSave(ctx, id)
	}
	return id, nil
}

// UpdateFields applies translated fields to an already translated item,
// touching only the fields present in the map.
func (s *Service) UpdateFields(ctx context.Context, id int64, fields *model.FieldMap, opts SaveOptions) error {
	p := store.UpdateContentFieldsParams{ID: id}
	for _, key := range fields.Keys() {
		v, _ := fields.Get(key)
		switch key {
		case model.FieldTitle:
			p.Title = ptr(v)
		case model.FieldContent:
			p.Body = ptr(v)
		case model.FieldExcerpt:
			p.Excerpt = ptr(v)
		default:
			if err := s.queries.UpsertContentMeta(ctx, id, key, v); err != nil {
				return fmt.Errorf("upsert meta %q: %w", key, err)
			}
		}
	}
	if p.Title != nil || p.Body != nil || p.Excerpt != nil {
		if err := s.queries.UpdateContentFields(ctx, p); err != nil {
			return fmt.Errorf("update content %d: %w", id, err)
		}
	}

	s.logger.Info("updated translated content", "content_id", id, "fields", fields.Keys())

	if !opts.SuppressHooks && s.OnSave != nil {
		s.OnSave(ctx, id)
	}
	return nil
}

func (s *Service) copyCustomFields(ctx context.Context, parentID, id int64, fields *model.FieldMap) error {
	for _, key := range fields.Keys() {
		switch key {
		case model.FieldTitle, model.FieldContent, model.FieldExcerpt:
			continue
		}
		v, _ := fields.Get(key)
		if err := s.queries.UpsertContentMeta(ctx, id, key, v); err != nil {
			return fmt.Errorf("upsert meta %q: %w", key, err)
		}
	}
	// Internal bookkeeping metas stay with the copy so downstream features
	// (thumbnails, templates) keep working untranslated.
	metas, err := s.queries.ListContentMeta(ctx, parentID)
	if err != nil {
		return fmt.Errorf("list parent meta: %w", err)
	}
	for _, m := range metas {
		if !m.IsInternal() {
			continue
		}
		if err := s.queries.UpsertContentMeta(ctx, id, m.Key, m.Value); err != nil {
			return fmt.Errorf("copy internal meta %q: %w", m.Key, err)
		}
	}
	return nil
}

func (s *Service) copyTerms(ctx context.Context, parentID, id int64) error {
	terms, err := s.queries.ListContentTerms(ctx, parentID)
	if err != nil {
		return fmt.Errorf("list parent terms: %w", err)
	}
	for _, t := range terms {
		if err := s.queries.AddContentTerm(ctx, id, t.ID); err != nil {
			return fmt.Errorf("copy term %d: %w", t.ID, err)
		}
	}
	return nil
}

// linkTranslation records parent -> copy for the target language, and when a
// default language is configured, copy -> parent for it, so navigation works
// from either side.
func (s *Service) linkTranslation(ctx context.Context, parentID, id int64, lang model.Language) error {
	if _, err := s.queries.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType:    model.EntityTypeContent,
		EntityID:      parentID,
		LanguageID:    lang.ID,
		TranslationID: id,
	}); err != nil {
		return fmt.Errorf("link translation: %w", err)
	}

	def, err := s.queries.GetDefaultLanguage(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get default language: %w", err)
	}
	if _, err := s.queries.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType:    model.EntityTypeContent,
		EntityID:      id,
		LanguageID:    def.ID,
		TranslationID: parentID,
	}); err != nil {
		// The reverse link is best effort; a duplicate means the pair was
		// already linked.
		s.logger.Warn("reverse translation link not recorded",
			"content_id", id, "parent_id", parentID, "error", err)
	}
	return nil
}

// uniqueSlug slugifies the translated title, falling back to the parent slug,
// and suffixes a counter until the slug is free within the target language.
func (s *Service) uniqueSlug(ctx context.Context, title string, parent model.Content, lang model.Language) (string, error) {
	base := util.SlugifyWithFallback(title, parent.Slug, lang.Prefix)
	slug := base
	for i := 2; ; i++ {
		taken, err := s.queries.SlugExists(ctx, slug, lang.Code)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", slug, err)
		}
		if !taken {
			return slug, nil
		}
		if i > 50 {
			return fmt.Sprintf("%s-%d", base, parent.ID), nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// deriveExcerpt strips markup from the body and truncates at a word boundary.
func (s *Service) deriveExcerpt(body string) string {
	text := strings.Join(strings.Fields(s.strip.Sanitize(body)), " ")
	if len(text) <= excerptMaxLen {
		return text
	}
	cut := text[:excerptMaxLen]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

func fieldOr(fields *model.FieldMap, key, fallback string) string {
	if v, ok := fields.Get(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func ptr(s string) *string { return &s }
