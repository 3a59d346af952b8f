// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package settings exposes the operator-configured translation settings:
// the selected model, API keys, the brand-tone template, and the glossary.
// Values live in the config table; API keys fall back to the environment.
package settings

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/store"
)

// Service reads translation settings. All reads go to the database so changes
// take effect without a restart.
type Service struct {
	queries *store.Queries

	// Environment fallbacks, used when the database holds no key.
	EnvOpenAIKey string
	EnvClaudeKey string
}

// New creates a settings Service.
func New(queries *store.Queries) *Service {
	return &Service{queries: queries}
}

// Model returns the configured chat-completion model id, or empty when unset.
func (s *Service) Model(ctx context.Context) (string, error) {
	return s.queries.GetConfigValue(ctx, model.ConfigKeyModel)
}

// APIKey resolves the API key for a provider: database first, then the
// environment fallback.
func (s *Service) APIKey(ctx context.Context, provider string) (string, error) {
	var key, fallback string
	var err error
	switch provider {
	case "claude":
		key, err = s.queries.GetConfigValue(ctx, model.ConfigKeyClaudeKey)
		fallback = s.EnvClaudeKey
	default:
		key, err = s.queries.GetConfigValue(ctx, model.ConfigKeyOpenAIKey)
		fallback = s.EnvOpenAIKey
	}
	if err != nil {
		return "", err
	}
	if key == "" {
		key = fallback
	}
	return key, nil
}

// BrandToneTemplate returns the configured prompt skeleton, or empty when the
// built-in default should be used.
func (s *Service) BrandToneTemplate(ctx context.Context) (string, error) {
	return s.queries.GetConfigValue(ctx, model.ConfigKeyBrandToneTemplate)
}

// GlossaryTerms returns the list of terms that must stay untranslated.
// The value is stored as a JSON array; a plain comma-separated list is
// accepted for hand-edited configs.
func (s *Service) GlossaryTerms(ctx context.Context) ([]string, error) {
	raw, err := s.queries.GetConfigValue(ctx, model.ConfigKeyGlossaryTerms)
	if err != nil {
		return nil, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var terms []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &terms); err == nil {
			return compact(terms), nil
		}
	}
	return compact(strings.Split(raw, ",")), nil
}

// CacheEnabled reports whether the translation memory should be consulted.
func (s *Service) CacheEnabled(ctx context.Context) (bool, error) {
	v, err := s.queries.GetConfigValue(ctx, model.ConfigKeyCacheEnabled)
	if err != nil {
		return false, err
	}
	return v == "1" || strings.EqualFold(v, "true"), nil
}

func compact(terms []string) []string {
	out := terms[:0]
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
