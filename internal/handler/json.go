// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lingoq/lingoq/internal/model"
)

// writeJSON serializes payload with the given status code. Encoding errors are
// ignored; the header is already on the wire.
func writeJSON(w http.ResponseWriter, statusCode int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONSuccess writes a 200 response with "success": true folded into data.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	if data == nil {
		data = make(map[string]any, 1)
	}
	data["success"] = true
	writeJSON(w, http.StatusOK, data)
}

// writeJSONError writes an error response carrying only a message.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeOutcome reports a queue processing result: 200 for completed and
// empty-queue outcomes, 422 with the outcome and its cause when the pipeline
// failed. The outcome is always included so callers see the failed entry's id
// and stored error message.
func writeOutcome(w http.ResponseWriter, outcome model.Outcome, err error) {
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"outcome": outcome,
			"error":   err.Error(),
		})
		return
	}
	writeJSONSuccess(w, map[string]any{"outcome": outcome})
}
