// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"regexp"
	"strings"

	"github.com/lingoq/lingoq/internal/model"
)

// Empirical label-matching constants. The model output format is not
// contractually guaranteed, so both are tunable per Parser.
const (
	// labelSimilarityThreshold is the minimum similarity score for the fuzzy
	// tier, which recovers labels the model itself translated into the target
	// language ("Title" -> "Titulo").
	labelSimilarityThreshold = 0.40
	// labelLengthRatio caps the length difference between a candidate label
	// and a known label at this fraction of the longer one.
	labelLengthRatio = 0.5
)

var (
	// labelLineRe matches a "Label: value" line. The label part holds no colon.
	labelLineRe = regexp.MustCompile(`^[ \t]*([^:\n]+?):[ \t]*(.*)$`)
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)
)

// maxLabelLen guards against treating long prose containing a colon as a label.
const maxLabelLen = 60

// Parser recovers a field -> translated-text mapping from raw model output.
// It is a best-effort recovery parser, not a strict grammar: it favors
// assigning something usable over rejecting a translation.
type Parser struct {
	similarityThreshold float64
	lengthRatio         float64
}

// NewParser returns a Parser with the default matching constants.
func NewParser() *Parser {
	return &Parser{
		similarityThreshold: labelSimilarityThreshold,
		lengthRatio:         labelLengthRatio,
	}
}

// NewParserWithThresholds returns a Parser with custom matching constants.
func NewParserWithThresholds(similarity, lengthRatio float64) *Parser {
	return &Parser{similarityThreshold: similarity, lengthRatio: lengthRatio}
}

// block is one candidate section of the raw response.
type block struct {
	label string // empty for continuation blocks
	value string
}

// Parse maps raw model output onto the fields of original. It fails only when
// no field at all can be given non-empty content.
func (p *Parser) Parse(raw string, original *model.FieldMap) (*model.FieldMap, error) {
	trimmed := strings.TrimSpace(raw)
	keys := original.Keys()

	if trimmed == "" || len(keys) == 0 {
		return nil, &ParseError{Message: "empty response", RawText: raw}
	}

	// Single-field shortcut: the whole text is the value when nothing in the
	// first line looks like a label.
	if len(keys) == 1 && !looksLabeled(firstLine(trimmed)) {
		result := model.NewFieldMap()
		result.Set(keys[0], trimmed)
		return result, nil
	}

	blocks := splitLabelBlocks(trimmed)
	if len(blocks) <= 1 {
		blocks = splitBlankBlocks(trimmed)
	}

	resolved := make(map[string]string)
	var unresolved []block
	lastField := ""
	anyLabelResolved := false

	for _, bl := range blocks {
		if bl.label != "" {
			if field, ok := p.resolveLabel(bl.label, original); ok {
				if _, taken := resolved[field]; !taken {
					resolved[field] = bl.value
				} else {
					resolved[field] = resolved[field] + "\n" + bl.value
				}
				lastField = field
				anyLabelResolved = true
				continue
			}
			unresolved = append(unresolved, bl)
			continue
		}
		// Continuation block: extend the most recently resolved field.
		if lastField != "" {
			resolved[lastField] = strings.TrimSpace(resolved[lastField] + "\n" + bl.value)
		} else {
			unresolved = append(unresolved, bl)
		}
	}

	// Line-by-line fallback when block splitting resolved nothing.
	if !anyLabelResolved {
		resolved, unresolved = p.scanLines(trimmed, original)
	}

	// Positional fallback: leftover blocks fill leftover fields in order,
	// but only when the response did not produce more blocks than fields.
	if len(unresolved) > 0 && len(blocks) <= len(keys) {
		i := 0
		for _, key := range keys {
			if i >= len(unresolved) {
				break
			}
			if _, ok := resolved[key]; ok {
				continue
			}
			resolved[key] = unresolved[i].value
			i++
		}
	}

	// Strip residual "Label: " prefixes duplicated by the cascade.
	for key, value := range resolved {
		resolved[key] = p.stripResidualLabel(value, original)
	}

	result := model.NewFieldMap()
	for _, key := range keys {
		if v, ok := resolved[key]; ok && strings.TrimSpace(v) != "" {
			result.Set(key, strings.TrimSpace(v))
		}
	}

	if result.Len() == 0 {
		// Final catch-all for single-field payloads.
		if len(keys) == 1 {
			result.Set(keys[0], trimmed)
			return result, nil
		}
		return nil, &ParseError{Message: "no field could be recovered from the response", RawText: raw}
	}

	return result, nil
}

// splitLabelBlocks cuts the text at every line that looks like the start of a
// new "Label: value" section. Lines before the first label, if any, form a
// label-less leading block.
func splitLabelBlocks(text string) []block {
	lines := strings.Split(text, "\n")
	var blocks []block
	var cur *block

	flush := func() {
		if cur != nil {
			cur.value = strings.TrimSpace(cur.value)
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	for _, line := range lines {
		if label, value, ok := matchLabelLine(line); ok {
			flush()
			cur = &block{label: label, value: value}
			continue
		}
		if cur == nil {
			cur = &block{}
		}
		if cur.value == "" {
			cur.value = line
		} else {
			cur.value += "\n" + line
		}
	}
	flush()
	return blocks
}

// splitBlankBlocks cuts the text on blank-line boundaries, pulling a label off
// the first line of each chunk when present.
func splitBlankBlocks(text string) []block {
	var blocks []block
	for _, chunk := range blankLineRe.Split(text, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		first, rest, _ := strings.Cut(chunk, "\n")
		if label, value, ok := matchLabelLine(first); ok {
			if rest != "" {
				value = strings.TrimSpace(value + "\n" + rest)
			}
			blocks = append(blocks, block{label: label, value: value})
			continue
		}
		blocks = append(blocks, block{value: chunk})
	}
	return blocks
}

// matchLabelLine extracts (label, value) from a "Label: value" line.
func matchLabelLine(line string) (string, string, bool) {
	m := labelLineRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	label := strings.TrimSpace(m[1])
	if label == "" || len(label) > maxLabelLen {
		return "", "", false
	}
	return label, m[2], true
}

func looksLabeled(line string) bool {
	_, _, ok := matchLabelLine(line)
	return ok
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}

// resolveLabel maps a response label onto a field key using, in order:
// exact display-label match, substring match either direction, raw key-name
// match, and similarity scoring.
func (p *Parser) resolveLabel(label string, original *model.FieldMap) (string, bool) {
	label = strings.TrimSpace(label)
	lower := strings.ToLower(label)

	// (a) case-insensitive exact match on the display label
	for _, key := range original.Keys() {
		if strings.EqualFold(label, model.Label(key)) {
			return key, true
		}
	}

	// (b) substring match either direction
	for _, key := range original.Keys() {
		display := strings.ToLower(model.Label(key))
		if display != "" && (strings.Contains(lower, display) || strings.Contains(display, lower)) {
			return key, true
		}
	}

	// (c) raw key name, prefix-stripped
	for _, key := range original.Keys() {
		raw := key
		if i := strings.LastIndex(raw, ":"); i >= 0 {
			raw = raw[i+1:]
		}
		raw = strings.TrimPrefix(raw, model.MetaInternalPrefix)
		if strings.EqualFold(label, raw) {
			return key, true
		}
	}

	// (d) similarity scoring, for labels the model translated
	bestKey := ""
	bestScore := 0.0
	for _, key := range original.Keys() {
		display := model.Label(key)
		if !p.lengthsComparable(label, display) {
			continue
		}
		score := similarity(lower, strings.ToLower(display))
		if score > bestScore {
			bestScore = score
			bestKey = key
		}
	}
	if bestKey != "" && bestScore >= p.similarityThreshold {
		return bestKey, true
	}

	return "", false
}

// lengthsComparable gates the fuzzy tier: the length difference must stay
// below lengthRatio of the longer string.
func (p *Parser) lengthsComparable(a, b string) bool {
	la, lb := len([]rune(a)), len([]rune(b))
	longer := la
	if lb > longer {
		longer = lb
	}
	if longer == 0 {
		return false
	}
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) < float64(longer)*p.lengthRatio
}

// scanLines walks the response line by line, resolving labels with the same
// cascade and accumulating unlabeled lines into the current field until a
// blank line or a new label is seen.
func (p *Parser) scanLines(text string, original *model.FieldMap) (map[string]string, []block) {
	resolved := make(map[string]string)
	var unresolved []block
	current := ""

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			current = ""
			continue
		}
		if label, value, ok := matchLabelLine(line); ok {
			if field, found := p.resolveLabel(label, original); found {
				if prev, taken := resolved[field]; taken && prev != "" {
					resolved[field] = prev + "\n" + value
				} else {
					resolved[field] = value
				}
				current = field
				continue
			}
			unresolved = append(unresolved, block{label: label, value: value})
			current = ""
			continue
		}
		if current != "" {
			resolved[current] = strings.TrimSpace(resolved[current] + "\n" + line)
		} else {
			unresolved = append(unresolved, block{value: strings.TrimSpace(line)})
		}
	}
	return resolved, unresolved
}

// stripResidualLabel removes a duplicated leading "Label: " left by the
// cascade, for any of the original fields' display labels.
func (p *Parser) stripResidualLabel(value string, original *model.FieldMap) string {
	label, rest, ok := matchLabelLine(firstLine(value))
	if !ok {
		return value
	}
	for _, key := range original.Keys() {
		if strings.EqualFold(label, model.Label(key)) {
			_, tail, _ := strings.Cut(value, "\n")
			if tail != "" {
				return strings.TrimSpace(rest + "\n" + tail)
			}
			return strings.TrimSpace(rest)
		}
	}
	return value
}

// similarity returns a normalized overlap score between two strings using the
// recursive longest-common-substring method: 2*matched / (len(a)+len(b)).
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	matched := similarChars(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// similarChars counts characters in the longest common substring of a and b,
// then recurses on the remainders to either side.
func similarChars(a, b []rune) int {
	posA, posB, max := 0, 0, 0
	for i := range a {
		for j := range b {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > max {
				max, posA, posB = k, i, j
			}
		}
	}
	if max == 0 {
		return 0
	}
	sum := max
	if posA > 0 && posB > 0 {
		sum += similarChars(a[:posA], b[:posB])
	}
	if posA+max < len(a) && posB+max < len(b) {
		sum += similarChars(a[posA+max:], b[posB+max:])
	}
	return sum
}
