// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// FieldMap is an ordered mapping from semantic field name (title, content,
// excerpt, or a namespaced custom-field key) to its text value. Order is
// significant: it is the fallback key for positional matching when the
// response parser cannot resolve a label.
type FieldMap struct {
	keys   []string
	values map[string]string
}

// NewFieldMap returns an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[string]string)}
}

// Set adds or replaces a field. First insertion fixes the field's position.
func (m *FieldMap) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Append concatenates text onto an existing field's value, or sets it when
// the field is absent. Used by the parser for multi-line continuations.
func (m *FieldMap) Append(key, text string) {
	cur, ok := m.values[key]
	if !ok || cur == "" {
		m.Set(key, text)
		return
	}
	m.Set(key, cur+"\n"+text)
}

// Get returns the value for key and whether it exists.
func (m *FieldMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns field names in insertion order.
func (m *FieldMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	return len(m.keys)
}

// HasNonEmpty reports whether at least one field holds non-blank text.
func (m *FieldMap) HasNonEmpty() bool {
	for _, k := range m.keys {
		if strings.TrimSpace(m.values[k]) != "" {
			return true
		}
	}
	return false
}

// Subset returns a new FieldMap containing only the named fields, in the
// given order, skipping fields that are absent or blank.
func (m *FieldMap) Subset(fields []string) *FieldMap {
	out := NewFieldMap()
	for _, f := range fields {
		if v, ok := m.values[f]; ok && strings.TrimSpace(v) != "" {
			out.Set(f, v)
		}
	}
	return out
}

// ToMap returns a plain map copy of the fields. Order is lost; use Keys to
// iterate deterministically.
func (m *FieldMap) ToMap() map[string]string {
	out := make(map[string]string, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}

// Label returns the display label for a field key: any namespace prefix up to
// the last underscore-separated known prefix is kept, custom-field prefixes of
// the form "ns:" or leading underscores are stripped, and the first letter is
// upper-cased. "title" -> "Title", "seo:meta_description" -> "Meta_description".
func Label(key string) string {
	k := key
	if i := strings.LastIndex(k, ":"); i >= 0 {
		k = k[i+1:]
	}
	k = strings.TrimPrefix(k, MetaInternalPrefix)
	if k == "" {
		return k
	}
	return strings.ToUpper(k[:1]) + k[1:]
}
