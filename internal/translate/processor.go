// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lingoq/lingoq/internal/cache"
	"github.com/lingoq/lingoq/internal/content"
	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/settings"
	"github.com/lingoq/lingoq/internal/store"
)

// failureMessageLimit caps how much raw response text is stored with a
// failed queue entry.
const failureMessageLimit = 500

// Processor drives the translation queue: it claims the oldest pending entry
// of a kind, runs it through the protect/prompt/call/parse/restore pipeline
// and records the terminal status. Every claimed entry ends up completed or
// failed; none is left processing.
type Processor struct {
	queries  *store.Queries
	content  *content.Service
	settings *settings.Service
	client   *Client
	parser   *Parser
	logger   *slog.Logger

	// Cache, when set and enabled in settings, short-circuits API calls for
	// prompts that were answered before.
	Cache cache.TranslationCache
}

// NewProcessor wires a processor from its collaborators.
func NewProcessor(queries *store.Queries, contentSvc *content.Service, settingsSvc *settings.Service, client *Client, logger *slog.Logger) *Processor {
	return &Processor{
		queries:  queries,
		content:  contentSvc,
		settings: settingsSvc,
		client:   client,
		parser:   NewParser(),
		logger:   logger,
	}
}

// ProcessNext claims and processes the oldest pending entry of the given
// kind. It returns ErrNoWork when the queue is empty or the entry was claimed
// by a concurrent worker. Pipeline failures mark the entry failed and are
// reported both in the outcome and as the returned error.
func (p *Processor) ProcessNext(ctx context.Context, kind string) (model.Outcome, error) {
	if !model.IsValidQueueKind(kind) {
		return model.Outcome{}, fmt.Errorf("unknown queue kind %q", kind)
	}

	entry, err := p.queries.OldestPendingQueueEntry(ctx, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Outcome{NoWork: true}, ErrNoWork
	}
	if err != nil {
		return model.Outcome{}, fmt.Errorf("select pending entry: %w", err)
	}

	claimed, err := p.queries.ClaimQueueEntry(ctx, entry.ID)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("claim entry %d: %w", entry.ID, err)
	}
	if !claimed {
		// Someone else won the row between select and claim.
		return model.Outcome{NoWork: true}, ErrNoWork
	}

	return p.process(ctx, entry)
}

// Retry puts a failed entry back into processing and runs the pipeline on it
// immediately.
func (p *Processor) Retry(ctx context.Context, id int64) (model.Outcome, error) {
	ok, err := p.queries.ResubmitQueueEntry(ctx, id)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("resubmit entry %d: %w", id, err)
	}
	if !ok {
		return model.Outcome{}, fmt.Errorf("queue entry %d is not in a failed state", id)
	}
	entry, err := p.queries.GetQueueEntry(ctx, id)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("get entry %d: %w", id, err)
	}
	return p.process(ctx, entry)
}

// process runs a claimed entry through the pipeline and records the outcome.
func (p *Processor) process(ctx context.Context, entry model.QueueEntry) (model.Outcome, error) {
	lang, err := p.queries.GetLanguageByName(ctx, entry.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return p.fail(ctx, entry, &ConfigurationError{
			Message: fmt.Sprintf("no configured language matches %q", entry.Language),
		})
	}
	if err != nil {
		return p.fail(ctx, entry, fmt.Errorf("resolve language: %w", err))
	}

	parent, err := p.queries.GetContent(ctx, entry.ParentContentID)
	if errors.Is(err, sql.ErrNoRows) {
		return p.fail(ctx, entry, &ContentError{
			Message: fmt.Sprintf("content %d no longer exists", entry.ParentContentID),
		})
	}
	if err != nil {
		return p.fail(ctx, entry, fmt.Errorf("load content: %w", err))
	}

	fields, err := p.content.GetFields(ctx, parent.ID)
	if err != nil {
		return p.fail(ctx, entry, fmt.Errorf("collect fields: %w", err))
	}
	if entry.Kind == model.QueueKindEdit {
		if len(entry.EditedFields) == 0 {
			return p.fail(ctx, entry, &ContentError{
				Message: "edit entry carries no edited fields",
			})
		}
		fields = fields.Subset(entry.EditedFields)
	}
	if !fields.HasNonEmpty() {
		return p.fail(ctx, entry, &ContentError{
			Message: fmt.Sprintf("content %d has no translatable text", parent.ID),
		})
	}

	template, err := p.settings.BrandToneTemplate(ctx)
	if err != nil {
		return p.fail(ctx, entry, fmt.Errorf("load brand tone: %w", err))
	}
	glossary, err := p.settings.GlossaryTerms(ctx)
	if err != nil {
		return p.fail(ctx, entry, fmt.Errorf("load glossary: %w", err))
	}

	builder := NewPromptBuilder(template, glossary)
	prompt, placeholderMaps := builder.Build(fields, promptLanguage(lang))

	raw, err := p.translate(ctx, prompt, lang.Code, parent.ID, entry.ID)
	if err != nil {
		return p.fail(ctx, entry, err)
	}

	parsed, err := p.parser.Parse(raw, fields)
	if err != nil {
		return p.fail(ctx, entry, err)
	}

	restored := model.NewFieldMap()
	for _, key := range parsed.Keys() {
		v, _ := parsed.Get(key)
		restored.Set(key, Restore(v, placeholderMaps[key]))
	}

	translatedID, err := p.apply(ctx, entry, parent, lang, restored)
	if err != nil {
		return p.fail(ctx, entry, err)
	}

	if err := p.queries.MarkQueueCompleted(ctx, entry.ID, translatedID); err != nil {
		// The translated copy is already written, but the entry must still
		// reach a terminal status rather than linger in processing.
		return p.fail(ctx, entry, fmt.Errorf("mark entry %d completed: %w", entry.ID, err))
	}

	p.logger.Info("queue entry completed",
		"queue_id", entry.ID, "content_id", parent.ID,
		"translated_id", translatedID, "language", lang.Name, "kind", entry.Kind)

	return model.Outcome{
		QueueID:      entry.ID,
		ParentID:     parent.ID,
		TranslatedID: translatedID,
		Language:     lang.Name,
		Fields:       restored.ToMap(),
	}, nil
}

// translate returns the raw model response, consulting the translation
// memory first when one is configured and enabled.
func (p *Processor) translate(ctx context.Context, prompt, languageCode string, contentID, queueID int64) (string, error) {
	useCache := false
	var key string
	if p.Cache != nil {
		enabled, err := p.settings.CacheEnabled(ctx)
		if err != nil {
			return "", fmt.Errorf("read cache setting: %w", err)
		}
		if enabled {
			modelID, err := p.settings.Model(ctx)
			if err != nil {
				return "", fmt.Errorf("read model setting: %w", err)
			}
			if modelID == "" {
				modelID = DefaultModel
			}
			useCache = true
			key = cache.Key(modelID, prompt)
			if raw, ok, err := p.Cache.Get(ctx, key); err != nil {
				p.logger.Warn("translation cache read failed", "queue_id", queueID, "error", err)
			} else if ok {
				p.logger.Info("translation cache hit", "queue_id", queueID)
				return raw, nil
			}
		}
	}

	raw, err := p.client.Translate(ctx, prompt, languageCode, contentID, queueID)
	if err != nil {
		return "", err
	}
	if useCache {
		if err := p.Cache.Set(ctx, key, raw); err != nil {
			p.logger.Warn("translation cache write failed", "queue_id", queueID, "error", err)
		}
	}
	return raw, nil
}

// apply writes the restored fields: updating the existing translated copy
// when one is linked, creating and linking a new one otherwise.
func (p *Processor) apply(ctx context.Context, entry model.QueueEntry, parent model.Content, lang model.Language, restored *model.FieldMap) (int64, error) {
	opts := content.SaveOptions{SuppressHooks: true}

	translatedID, exists, err := p.content.TranslatedID(ctx, parent.ID, lang.ID)
	if err != nil {
		return 0, fmt.Errorf("look up translated copy: %w", err)
	}
	if exists {
		if err := p.content.UpdateFields(ctx, translatedID, restored, opts); err != nil {
			return 0, err
		}
		return translatedID, nil
	}
	return p.content.CreateTranslated(ctx, parent, lang, restored, opts)
}

// fail records the terminal failed status and surfaces the cause. Parse
// failures keep a clipped copy of the raw response for inspection.
func (p *Processor) fail(ctx context.Context, entry model.QueueEntry, cause error) (model.Outcome, error) {
	msg := cause.Error()
	var perr *ParseError
	if errors.As(cause, &perr) && perr.RawText != "" {
		msg = fmt.Sprintf("%s; raw response: %s", perr.Message, clip(perr.RawText, failureMessageLimit))
	}

	if err := p.queries.MarkQueueFailed(ctx, entry.ID, msg); err != nil {
		p.logger.Error("could not mark queue entry failed",
			"queue_id", entry.ID, "error", err, "cause", cause)
		return model.Outcome{}, errors.Join(cause, err)
	}

	p.logger.Error("queue entry failed",
		"queue_id", entry.ID, "content_id", entry.ParentContentID,
		"language", entry.Language, "kind", entry.Kind, "error", cause)

	return model.Outcome{
		QueueID:  entry.ID,
		ParentID: entry.ParentContentID,
		Language: entry.Language,
		Failed:   true,
		Error:    msg,
	}, cause
}

// promptLanguage names the target language for the prompt, including the
// operator's steering description when one is set.
func promptLanguage(lang model.Language) string {
	if strings.TrimSpace(lang.Description) != "" {
		return fmt.Sprintf("%s (%s)", lang.Name, lang.Description)
	}
	return lang.Name
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
