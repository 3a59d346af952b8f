// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/store"
	"github.com/lingoq/lingoq/internal/translate"
)

// ProcessKind processes the oldest pending entry of the kind in the URL.
// Returns 200 with no_work when the queue is empty, 422 when the entry
// failed, 400 for an unknown kind.
func (h *Handler) ProcessKind(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !model.IsValidQueueKind(kind) {
		writeJSONError(w, http.StatusBadRequest, "unknown queue kind: "+kind)
		return
	}

	outcome, err := h.processor.ProcessNext(r.Context(), kind)
	if errors.Is(err, translate.ErrNoWork) {
		// An empty queue is a normal result, not a failure.
		err = nil
	}
	if err != nil {
		h.logger.Error("queue processing failed", "kind", kind, "error", err)
	}
	writeOutcome(w, outcome, err)
}

// RetryEntry resubmits a failed entry and processes it immediately.
func (h *Handler) RetryEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid queue entry id")
		return
	}

	outcome, err := h.processor.Retry(r.Context(), id)
	if err != nil {
		h.logger.Error("queue retry failed", "queue_id", id, "error", err)
	}
	writeOutcome(w, outcome, err)
}

// ListQueue returns queue entries, optionally filtered by status and kind.
func (h *Handler) ListQueue(w http.ResponseWriter, r *http.Request) {
	p := store.ListQueueParams{
		Status: r.URL.Query().Get("status"),
		Kind:   r.URL.Query().Get("kind"),
		Limit:  100,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		p.Limit = n
	}

	entries, err := h.queries.ListQueueEntries(r.Context(), p)
	if err != nil {
		h.logger.Error("list queue failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not list queue entries")
		return
	}
	writeJSONSuccess(w, map[string]any{"entries": entries, "count": len(entries)})
}

// GetQueueEntry returns one queue entry by id.
func (h *Handler) GetQueueEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid queue entry id")
		return
	}

	entry, err := h.queries.GetQueueEntry(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, "queue entry not found")
		return
	}
	if err != nil {
		h.logger.Error("get queue entry failed", "queue_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not load queue entry")
		return
	}
	writeJSONSuccess(w, map[string]any{"entry": entry})
}

// ListAudit returns the API audit trail for one queue entry.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid queue entry id")
		return
	}

	records, err := h.queries.ListAuditRecordsByQueue(r.Context(), id)
	if err != nil {
		h.logger.Error("list audit failed", "queue_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not list audit records")
		return
	}
	writeJSONSuccess(w, map[string]any{"records": records, "count": len(records)})
}

// Scan sweeps the published backlog into the queue.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	created, err := h.scanner.ScanBacklog(r.Context())
	if err != nil {
		h.logger.Error("backlog scan failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "backlog scan failed")
		return
	}
	writeJSONSuccess(w, map[string]any{"enqueued": created})
}

// EnqueueContent queues a content item for translation into every active
// target language.
func (h *Handler) EnqueueContent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	entries, err := h.enqueuer.EnqueueForContent(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		h.logger.Error("enqueue failed", "content_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not enqueue content")
		return
	}
	writeJSONSuccess(w, map[string]any{"entries": entries, "count": len(entries)})
}

// EnqueueEdit queues re-translation of specific fields for languages that
// already have a translated copy. The body carries {"fields": [...]}.
func (h *Handler) EnqueueEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid content id")
		return
	}

	var body struct {
		Fields []string `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.Fields) == 0 {
		writeJSONError(w, http.StatusBadRequest, "fields must not be empty")
		return
	}

	entries, err := h.enqueuer.EnqueueEdit(r.Context(), id, body.Fields)
	if err != nil {
		h.logger.Error("enqueue edit failed", "content_id", id, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not enqueue edit")
		return
	}
	writeJSONSuccess(w, map[string]any{"entries": entries, "count": len(entries)})
}
