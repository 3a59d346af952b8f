// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler exposes the translation queue over HTTP: manual processing
// triggers, retries, queue inspection, the audit trail, backlog scans and
// taxonomy/menu translation.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/store"
)

// Processor runs queue entries. Implemented by translate.Processor.
type Processor interface {
	ProcessNext(ctx context.Context, kind string) (model.Outcome, error)
	Retry(ctx context.Context, id int64) (model.Outcome, error)
}

// Scanner enqueues untranslated backlog content. Implemented by queue.Scanner.
type Scanner interface {
	ScanBacklog(ctx context.Context) (int, error)
}

// Enqueuer creates queue entries for content items. Implemented by
// queue.Enqueuer.
type Enqueuer interface {
	EnqueueForContent(ctx context.Context, contentID int64) ([]model.QueueEntry, error)
	EnqueueEdit(ctx context.Context, contentID int64, fields []string) ([]model.QueueEntry, error)
}

// TermTranslator translates taxonomy terms. Implemented by
// translate.TermTranslator.
type TermTranslator interface {
	TranslateTerms(ctx context.Context, termIDs []int64, lang model.Language) (map[int64]int64, error)
}

// MenuTranslator copies a menu into a target language. Implemented by
// translate.MenuTranslator.
type MenuTranslator interface {
	TranslateMenu(ctx context.Context, menuID int64, lang model.Language) (int64, error)
}

// Handler wires the HTTP API.
type Handler struct {
	processor Processor
	scanner   Scanner
	enqueuer  Enqueuer
	terms     TermTranslator
	menus     MenuTranslator
	queries   *store.Queries
	logger    *slog.Logger
	startTime time.Time
}

// New creates the HTTP handler.
func New(processor Processor, scanner Scanner, enqueuer Enqueuer, terms TermTranslator, menus MenuTranslator, queries *store.Queries, logger *slog.Logger) *Handler {
	return &Handler{
		processor: processor,
		scanner:   scanner,
		enqueuer:  enqueuer,
		terms:     terms,
		menus:     menus,
		queries:   queries,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Router builds the chi route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/queue", func(r chi.Router) {
			r.Get("/", h.ListQueue)
			r.Post("/process/{kind}", h.ProcessKind)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetQueueEntry)
				r.Post("/retry", h.RetryEntry)
				r.Get("/audit", h.ListAudit)
			})
		})
		r.Post("/scan", h.Scan)
		r.Route("/content/{id}", func(r chi.Router) {
			r.Post("/enqueue", h.EnqueueContent)
			r.Post("/enqueue-edit", h.EnqueueEdit)
		})
		r.Post("/terms/translate", h.TranslateTerms)
		r.Post("/menus/{id}/translate", h.TranslateMenu)
		r.Get("/events", h.ListEvents)
	})
	return r
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSONSuccess(w, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// ListEvents returns the most recent event-log rows.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.queries.ListRecentEvents(r.Context(), 100)
	if err != nil {
		h.logger.Error("list events failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not list events")
		return
	}
	writeJSONSuccess(w, map[string]any{"events": events})
}
