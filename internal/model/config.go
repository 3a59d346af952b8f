// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Config types
const (
	ConfigTypeString = "string"
	ConfigTypeInt    = "int"
	ConfigTypeBool   = "bool"
	ConfigTypeJSON   = "json"
)

// Config keys for the translation subsystem.
const (
	ConfigKeyModel             = "translate_model"      // selected chat-completion model id
	ConfigKeyOpenAIKey         = "translate_openai_key" // API key for OpenAI-compatible backend
	ConfigKeyClaudeKey         = "translate_claude_key" // API key for the Anthropic-style backend
	ConfigKeyBrandToneTemplate = "translate_brand_tone" // prompt skeleton, empty = built-in default
	ConfigKeyGlossaryTerms     = "translate_glossary"   // JSON array of terms to leave untranslated
	ConfigKeyCacheEnabled      = "translate_cache"      // translation memory on/off
)

// Config represents a site configuration item.
type Config struct {
	Key         string
	Value       string
	Type        string
	Description string
	UpdatedAt   time.Time
	UpdatedBy   sql.NullInt64
}
