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

// TermTranslator translates taxonomy terms into a target language. Hierarchies
// are handled with a worklist so parents are always translated before their
// children, without recursion.
type TermTranslator struct {
	queries  *store.Queries
	client   *Client
	settings *settings.Service
	logger   *slog.Logger
}

// NewTermTranslator wires a term translator.
func NewTermTranslator(queries *store.Queries, client *Client, settingsSvc *settings.Service, logger *slog.Logger) *TermTranslator {
	return &TermTranslator{queries: queries, client: client, settings: settingsSvc, logger: logger}
}

// TranslateTerms translates the given terms and any untranslated ancestors
// into lang, creating linked term rows. It returns the source id to
// translated id mapping, including terms that were already linked.
func (t *TermTranslator) TranslateTerms(ctx context.Context, termIDs []int64, lang model.Language) (map[int64]int64, error) {
	translated := make(map[int64]int64)
	worklist := append([]int64(nil), termIDs...)
	queued := make(map[int64]bool, len(worklist))
	for _, id := range worklist {
		queued[id] = true
	}
	deferrals := make(map[int64]int)

	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]
		if _, done := translated[id]; done {
			continue
		}

		existing, err := t.queries.GetTranslation(ctx, store.GetTranslationParams{
			EntityType: model.EntityTypeTerm, EntityID: id, LanguageID: lang.ID,
		})
		if err == nil {
			translated[id] = existing.TranslationID
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return translated, fmt.Errorf("get term link: %w", err)
		}

		term, err := t.queries.GetTerm(ctx, id)
		if err != nil {
			return translated, fmt.Errorf("get term %d: %w", id, err)
		}

		// A child waits until its parent has a translated counterpart.
		if term.ParentID.Valid {
			if _, ok := translated[term.ParentID.Int64]; !ok {
				if !queued[term.ParentID.Int64] {
					queued[term.ParentID.Int64] = true
					worklist = append([]int64{term.ParentID.Int64, id}, worklist...)
				} else {
					// In an acyclic hierarchy a term defers at most once per
					// ancestor; exceeding the queued count means the parent
					// chain loops back on itself.
					deferrals[id]++
					if deferrals[id] > len(queued) {
						return translated, fmt.Errorf("term %d: taxonomy parent cycle detected", id)
					}
					worklist = append(worklist, id)
				}
				continue
			}
		}

		name, err := translateString(ctx, t.client, t.settings, term.Name, lang, id, 0)
		if err != nil {
			return translated, fmt.Errorf("translate term %d: %w", id, err)
		}

		var parentID sql.NullInt64
		if term.ParentID.Valid {
			parentID = sql.NullInt64{Int64: translated[term.ParentID.Int64], Valid: true}
		}
		newID, err := t.queries.CreateTerm(ctx, store.CreateTermParams{
			Name:     name,
			Slug:     util.SlugifyWithFallback(name, term.Slug, lang.Prefix),
			Taxonomy: term.Taxonomy,
			ParentID: parentID,
		})
		if err != nil {
			return translated, fmt.Errorf("create translated term: %w", err)
		}
		if _, err := t.queries.CreateTranslation(ctx, store.CreateTranslationParams{
			EntityType: model.EntityTypeTerm, EntityID: id,
			LanguageID: lang.ID, TranslationID: newID,
		}); err != nil {
			return translated, fmt.Errorf("link translated term: %w", err)
		}
		translated[id] = newID

		t.logger.Info("translated taxonomy term",
			"term_id", id, "translated_id", newID, "language", lang.Name, "name", name)
	}
	return translated, nil
}

// translateString runs one short text through the pipeline as a single
// title field: protect, prompt, call, parse, restore.
func translateString(ctx context.Context, client *Client, settingsSvc *settings.Service, text string, lang model.Language, contentID, queueID int64) (string, error) {
	template, err := settingsSvc.BrandToneTemplate(ctx)
	if err != nil {
		return "", err
	}
	glossary, err := settingsSvc.GlossaryTerms(ctx)
	if err != nil {
		return "", err
	}

	fields := model.NewFieldMap()
	fields.Set(model.FieldTitle, text)

	builder := NewPromptBuilder(template, glossary)
	prompt, maps := builder.Build(fields, promptLanguage(lang))

	raw, err := client.Translate(ctx, prompt, lang.Code, contentID, queueID)
	if err != nil {
		return "", err
	}
	parsed, err := NewParser().Parse(raw, fields)
	if err != nil {
		return "", err
	}
	v, _ := parsed.Get(model.FieldTitle)
	return Restore(v, maps[model.FieldTitle]), nil
}
