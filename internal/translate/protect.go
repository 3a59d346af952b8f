// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package translate implements the machine-translation pipeline: placeholder
// protection, prompt assembly, the chat-completion API client, the
// structured-response parser, and the queue processor that drives them.
package translate

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder token syntax. Tokens use characters the model is told to leave
// alone and that never occur in ordinary prose.
const (
	tagTokenFormat = "__HTML_TAG_%d__"
	urlTokenFormat = "__URL_%d__"
)

var (
	htmlTagRe = regexp.MustCompile(`<[^<>]+>`)
	urlRe     = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"]+`)
	// trailing punctuation that belongs to the sentence, not the URL
	urlTrailRe = regexp.MustCompile(`[.,;:!?)\]'"]+$`)
)

// Placeholder records one substitution made while protecting a field.
type Placeholder struct {
	Token    string
	Original string
}

// PlaceholderMap holds the substitutions for one field in insertion order.
// Restore replays them in reverse so a URL token embedded inside an HTML tag
// span is resolved before the tag itself.
type PlaceholderMap struct {
	pairs []Placeholder
}

// Len returns the number of recorded substitutions.
func (m *PlaceholderMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

// Pairs returns a copy of the recorded substitutions in insertion order.
func (m *PlaceholderMap) Pairs() []Placeholder {
	out := make([]Placeholder, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Protector reversibly extracts HTML tags and URLs from translatable text so
// the model can never mangle markup. One Protector instance carries the
// monotonically increasing token index across all fields of a single prompt,
// so tokens never collide between fields.
type Protector struct {
	nextIndex int
}

// NewProtector returns a Protector with the token counter at zero.
func NewProtector() *Protector {
	return &Protector{}
}

// Protect replaces every HTML tag construct and then every URL-like substring
// in text with freshly indexed tokens, left to right. Both passes share one
// counter so a tag token and a URL token can never carry the same index.
func (p *Protector) Protect(text string) (string, *PlaceholderMap) {
	pm := &PlaceholderMap{}

	protected := htmlTagRe.ReplaceAllStringFunc(text, func(match string) string {
		token := fmt.Sprintf(tagTokenFormat, p.nextIndex)
		p.nextIndex++
		pm.pairs = append(pm.pairs, Placeholder{Token: token, Original: match})
		return token
	})

	protected = urlRe.ReplaceAllStringFunc(protected, func(match string) string {
		trail := urlTrailRe.FindString(match)
		url := strings.TrimSuffix(match, trail)
		token := fmt.Sprintf(urlTokenFormat, p.nextIndex)
		p.nextIndex++
		pm.pairs = append(pm.pairs, Placeholder{Token: token, Original: url})
		return token + trail
	})

	return protected, pm
}

// Restore replays the map's substitutions in reverse insertion order,
// returning the original markup. Restore(Protect(t)) == t for any t that
// contains no literal token syntax.
func Restore(text string, pm *PlaceholderMap) string {
	if pm == nil {
		return text
	}
	for i := len(pm.pairs) - 1; i >= 0; i-- {
		text = strings.ReplaceAll(text, pm.pairs[i].Token, pm.pairs[i].Original)
	}
	return text
}
