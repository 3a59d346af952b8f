// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"fmt"
	"strings"

	"github.com/lingoq/lingoq/internal/model"
)

// Brand-tone template placeholders. The template is operator-configured; the
// built-in default is used when none is set.
const (
	templateLanguageToken = "{language}"
	templateContentToken  = "{content}"
	templateGlossaryToken = "{glossary}"
)

// DefaultBrandToneTemplate is used when no brand-tone template is configured.
const DefaultBrandToneTemplate = `You are a professional translator. Translate the following content into {language}. Keep the brand voice: natural, clear, and faithful to the original tone.{glossary}

{content}`

// glossaryClauseFormat carries the comma-joined exclusion list.
const glossaryClauseFormat = "\nDo not translate the following terms; keep each exactly as written: %s."

// PromptBuilder assembles one structured prompt from a field map, protecting
// each field's markup and URLs on the way.
type PromptBuilder struct {
	template      string
	glossaryTerms []string
}

// NewPromptBuilder creates a PromptBuilder. An empty template selects the
// built-in default.
func NewPromptBuilder(template string, glossaryTerms []string) *PromptBuilder {
	if strings.TrimSpace(template) == "" {
		template = DefaultBrandToneTemplate
	}
	return &PromptBuilder{template: template, glossaryTerms: glossaryTerms}
}

// Build composes the complete prompt for translating fields into language.
// It returns the prompt text and the per-field placeholder maps needed to
// restore markup after translation. Field iteration order is preserved.
func (b *PromptBuilder) Build(fields *model.FieldMap, language string) (string, map[string]*PlaceholderMap) {
	protector := NewProtector()
	maps := make(map[string]*PlaceholderMap, fields.Len())

	var lines []string
	for _, key := range fields.Keys() {
		value, _ := fields.Get(key)
		protected, pm := protector.Protect(value)
		maps[key] = pm
		lines = append(lines, model.Label(key)+": "+protected)
	}
	contentBlock := strings.Join(lines, "\n\n")

	prompt := b.template
	prompt = strings.ReplaceAll(prompt, templateLanguageToken, language)
	if len(b.glossaryTerms) > 0 {
		clause := fmt.Sprintf(glossaryClauseFormat, strings.Join(b.glossaryTerms, ", "))
		prompt = strings.ReplaceAll(prompt, templateGlossaryToken, clause)
	} else {
		prompt = strings.ReplaceAll(prompt, templateGlossaryToken, "")
	}
	prompt = strings.ReplaceAll(prompt, templateContentToken, contentBlock)

	prompt += "\n\n" + b.formatDirective(fields)

	return prompt, maps
}

// formatDirective spells out the exact response shape: one labeled line per
// field, placeholders untouched, no commentary.
func (b *PromptBuilder) formatDirective(fields *model.FieldMap) string {
	keys := fields.Keys()

	var sb strings.Builder
	if len(keys) == 1 {
		sb.WriteString("Respond with exactly one line in the format:\n")
		sb.WriteString(model.Label(keys[0]))
		sb.WriteString(": <translated text>\n")
	} else {
		sb.WriteString("Respond using exactly this structure, one labeled section per field, separated by blank lines:\n")
		for _, key := range keys {
			sb.WriteString(model.Label(key))
			sb.WriteString(": <translated text>\n")
		}
	}
	sb.WriteString("Do not translate, alter, or remove placeholder tokens such as __HTML_TAG_0__ or __URL_1__. ")
	sb.WriteString("Do not add commentary, notes, or extra lines. Preserve the structure exactly.")
	return sb.String()
}
