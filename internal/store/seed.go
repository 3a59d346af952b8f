// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lingoq/lingoq/internal/model"
)

// SeedLanguages populates the languages table on first run: the common
// language list with English as the active default. Activating target
// languages is an operator action. Does nothing when languages exist.
func SeedLanguages(ctx context.Context, q *Queries, logger *slog.Logger) error {
	var n int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM languages`).Scan(&n); err != nil {
		return fmt.Errorf("count languages: %w", err)
	}
	if n > 0 {
		return nil
	}

	for i, lang := range model.CommonLanguages {
		isDefault := lang.Code == "en"
		if _, err := q.CreateLanguage(ctx, CreateLanguageParams{
			Code:       lang.Code,
			Name:       lang.Name,
			NativeName: lang.NativeName,
			Prefix:     lang.Code,
			IsDefault:  isDefault,
			IsActive:   isDefault,
			Position:   i,
		}); err != nil {
			return fmt.Errorf("seed language %s: %w", lang.Code, err)
		}
	}

	logger.Info("seeded languages", "count", len(model.CommonLanguages))
	return nil
}
