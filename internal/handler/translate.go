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
)

// TranslateTerms translates the taxonomy terms named in the body, pulling in
// untranslated ancestors as needed. The body carries
// {"term_ids": [...], "language": "French"}.
func (h *Handler) TranslateTerms(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TermIDs  []int64 `json:"term_ids"`
		Language string  `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.TermIDs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "term_ids must not be empty")
		return
	}
	lang, ok := h.resolveLanguage(w, r, body.Language)
	if !ok {
		return
	}

	mapping, err := h.terms.TranslateTerms(r.Context(), body.TermIDs, lang)
	if err != nil {
		h.logger.Error("term translation failed", "language", lang.Name, "error", err)
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSONSuccess(w, map[string]any{"translated": mapping, "count": len(mapping)})
}

// TranslateMenu copies the menu in the URL into the language named in the
// body. Calling it again for the same pair returns the existing copy.
func (h *Handler) TranslateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid menu id")
		return
	}
	var body struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lang, ok := h.resolveLanguage(w, r, body.Language)
	if !ok {
		return
	}

	menuID, err := h.menus.TranslateMenu(r.Context(), id, lang)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, "menu not found")
		return
	}
	if err != nil {
		h.logger.Error("menu translation failed", "menu_id", id, "language", lang.Name, "error", err)
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSONSuccess(w, map[string]any{"menu_id": menuID})
}

// resolveLanguage loads the named target language, writing the error response
// itself when the name is blank or unknown.
func (h *Handler) resolveLanguage(w http.ResponseWriter, r *http.Request, name string) (model.Language, bool) {
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "language must not be empty")
		return model.Language{}, false
	}
	lang, err := h.queries.GetLanguageByName(r.Context(), name)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusBadRequest, "unknown language: "+name)
		return model.Language{}, false
	}
	if err != nil {
		h.logger.Error("resolve language failed", "language", name, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "could not resolve language")
		return model.Language{}, false
	}
	return lang, true
}
