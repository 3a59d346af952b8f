// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Language represents a configured target language. Name is the human-readable
// identifier queue entries carry ("French"); Prefix is the short code used for
// slugs and URL prefixes ("fr"); Description optionally steers the model
// ("European French, formal register").
type Language struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"` // ISO 639-1: en, fr, de
	Name        string    `json:"name"` // English, French, German
	NativeName  string    `json:"native_name"`
	Prefix      string    `json:"prefix"` // slug/url prefix, usually same as code
	Description string    `json:"description"`
	IsDefault   bool      `json:"is_default"` // source language, not a translation target
	IsActive    bool      `json:"is_active"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommonLanguages provides a list of commonly used languages for seeding.
var CommonLanguages = []struct {
	Code       string
	Name       string
	NativeName string
}{
	{"en", "English", "English"},
	{"fr", "French", "Français"},
	{"de", "German", "Deutsch"},
	{"es", "Spanish", "Español"},
	{"it", "Italian", "Italiano"},
	{"pt", "Portuguese", "Português"},
	{"nl", "Dutch", "Nederlands"},
	{"pl", "Polish", "Polski"},
	{"uk", "Ukrainian", "Українська"},
	{"ru", "Russian", "Русский"},
	{"zh", "Chinese", "中文"},
	{"ja", "Japanese", "日本語"},
	{"ko", "Korean", "한국어"},
	{"ar", "Arabic", "العربية"},
	{"tr", "Turkish", "Türkçe"},
}
