// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cache provides a translation memory keyed on the exact model and
// prompt pair, so an identical request never pays for a second API call.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// TranslationCache stores raw model responses by request key. A miss returns
// ok=false with a nil error; errors are reserved for backend failures.
type TranslationCache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Key derives the cache key for one translation request. The model id is part
// of the key because different models translate the same prompt differently.
func Key(modelID, prompt string) string {
	h := sha256.New()
	h.Write([]byte(modelID))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
