// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"strings"
	"testing"

	"github.com/lingoq/lingoq/internal/model"
)

func TestBuildPromptStructure(t *testing.T) {
	fields := model.NewFieldMap()
	fields.Set("title", "Hello World")
	fields.Set("content", "<p>Some body</p>")

	b := NewPromptBuilder("", nil)
	prompt, maps := b.Build(fields, "French")

	if !strings.Contains(prompt, "French") {
		t.Error("prompt missing target language")
	}
	if !strings.Contains(prompt, "Title: Hello World") {
		t.Error("prompt missing labeled title line")
	}
	if strings.Contains(prompt, "<p>") {
		t.Error("prompt contains unprotected markup")
	}
	if !strings.Contains(prompt, "Content: __HTML_TAG_") {
		t.Error("prompt missing protected content line")
	}
	if len(maps) != 2 {
		t.Errorf("placeholder maps = %d, want 2", len(maps))
	}
	if maps["content"].Len() != 2 {
		t.Errorf("content placeholders = %d, want 2", maps["content"].Len())
	}
	// Field lines are blank-line separated
	if !strings.Contains(prompt, "Hello World\n\nContent:") {
		t.Error("field lines not separated by a blank line")
	}
}

func TestBuildPromptCustomTemplate(t *testing.T) {
	fields := model.NewFieldMap()
	fields.Set("title", "Hi")

	b := NewPromptBuilder("Translate to {language} in pirate voice:{glossary}\n{content}", nil)
	prompt, _ := b.Build(fields, "German")

	if !strings.Contains(prompt, "pirate voice") {
		t.Error("custom template not used")
	}
	if strings.Contains(prompt, "{glossary}") || strings.Contains(prompt, "{language}") || strings.Contains(prompt, "{content}") {
		t.Errorf("unsubstituted template tokens remain: %q", prompt)
	}
}

func TestBuildPromptGlossaryClause(t *testing.T) {
	fields := model.NewFieldMap()
	fields.Set("title", "Acme rocks")

	withTerms := NewPromptBuilder("", []string{"Acme", "WidgetPro"})
	prompt, _ := withTerms.Build(fields, "Spanish")
	if !strings.Contains(prompt, "Acme, WidgetPro") {
		t.Error("glossary clause missing")
	}

	noTerms := NewPromptBuilder("", nil)
	prompt, _ = noTerms.Build(fields, "Spanish")
	if strings.Contains(prompt, "Do not translate the following terms") {
		t.Error("glossary clause present without terms")
	}
	if strings.Contains(prompt, "{glossary}") {
		t.Error("glossary placeholder not removed")
	}
}

func TestBuildPromptSingleFieldDirective(t *testing.T) {
	single := model.NewFieldMap()
	single.Set("title", "Hello")

	b := NewPromptBuilder("", nil)
	prompt, _ := b.Build(single, "Italian")
	if !strings.Contains(prompt, "exactly one line") {
		t.Error("single-field payload should get the simplified directive")
	}

	multi := model.NewFieldMap()
	multi.Set("title", "Hello")
	multi.Set("excerpt", "Short")
	prompt, _ = b.Build(multi, "Italian")
	if !strings.Contains(prompt, "one labeled section per field") {
		t.Error("multi-field payload should get the structured directive")
	}
	if !strings.Contains(prompt, "Excerpt: <translated text>") {
		t.Error("directive missing example line for excerpt")
	}
}

func TestBuildPromptPlaceholderInstruction(t *testing.T) {
	fields := model.NewFieldMap()
	fields.Set("content", "<b>x</b>")

	b := NewPromptBuilder("", nil)
	prompt, _ := b.Build(fields, "Dutch")
	if !strings.Contains(prompt, "Do not translate, alter, or remove placeholder tokens") {
		t.Error("prompt missing placeholder-preservation instruction")
	}
}
