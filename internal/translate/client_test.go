// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lingoq/lingoq/internal/store"
	"github.com/lingoq/lingoq/internal/testutil"
)

// stubSettings satisfies ClientSettings for tests.
type stubSettings struct {
	model     string
	openAIKey string
	claudeKey string
}

func (s *stubSettings) Model(context.Context) (string, error) { return s.model, nil }
func (s *stubSettings) APIKey(_ context.Context, provider string) (string, error) {
	if provider == ProviderClaude {
		return s.claudeKey, nil
	}
	return s.openAIKey, nil
}

func TestProviderForModel(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"gpt-4o-mini", ProviderOpenAI},
		{"gpt-4.1", ProviderOpenAI},
		{"claude-sonnet-4-5-20250929", ProviderClaude},
		{"", ProviderOpenAI},
	}
	for _, tt := range tests {
		if got := ProviderForModel(tt.model); got != tt.want {
			t.Errorf("ProviderForModel(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestTranslateMissingKeyMakesNoCall(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClientWithBaseURLs(&stubSettings{model: "gpt-4o-mini"}, store.New(db),
		testutil.TestLoggerSilent(), srv.URL, srv.URL)

	_, err := c.Translate(context.Background(), "prompt", "fr", 1, 2)
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want ConfigurationError", err)
	}
	if calls != 0 {
		t.Errorf("network calls = %d, want 0", calls)
	}
}

func TestTranslateOpenAISuccessAndAudit(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Titre: Bonjour"}}]}`))
	}))
	defer srv.Close()

	queries := store.New(db)
	c := NewClientWithBaseURLs(&stubSettings{model: "gpt-4o-mini", openAIKey: "test-key"},
		queries, testutil.TestLoggerSilent(), srv.URL, srv.URL)

	got, err := c.Translate(context.Background(), "Translate this", "fr", 10, 20)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "Titre: Bonjour" {
		t.Errorf("content = %q", got)
	}

	records, err := queries.ListAuditRecordsByQueue(context.Background(), 20)
	if err != nil {
		t.Fatalf("ListAuditRecordsByQueue: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.ContentID != 10 || rec.ResponseCode != 200 || rec.Provider != ProviderOpenAI {
		t.Errorf("audit record = %+v", rec)
	}
	if rec.RequestBody == "" || rec.ResponseBody == "" {
		t.Error("audit record missing raw bodies")
	}
	if rec.Error.Valid {
		t.Errorf("audit error = %q, want none", rec.Error.String)
	}
}

func TestTranslateClaudeHeaders(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "claude-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("missing anthropic-version header")
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Hallo"}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURLs(&stubSettings{model: "claude-haiku-4-5", claudeKey: "claude-key"},
		store.New(db), testutil.TestLoggerSilent(), srv.URL, srv.URL)

	got, err := c.Translate(context.Background(), "prompt", "de", 1, 2)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "Hallo" {
		t.Errorf("content = %q", got)
	}
}

func TestTranslateNon200RecordsAudit(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer srv.Close()

	queries := store.New(db)
	c := NewClientWithBaseURLs(&stubSettings{model: "gpt-4o-mini", openAIKey: "k"},
		queries, testutil.TestLoggerSilent(), srv.URL, srv.URL)

	_, err := c.Translate(context.Background(), "prompt", "fr", 1, 2)
	var aerr *APIError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %v, want APIError", err)
	}
	if aerr.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d", aerr.Status)
	}
	if aerr.Message != "rate limit exceeded" {
		t.Errorf("message = %q", aerr.Message)
	}

	records, err := queries.ListAuditRecordsByQueue(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListAuditRecordsByQueue: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("audit records = %d, want 1 even on failure", len(records))
	}
	if !records[0].Error.Valid {
		t.Error("audit record should carry the error")
	}
}

func TestTranslateMalformedBody(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURLs(&stubSettings{model: "gpt-4o-mini", openAIKey: "k"},
		store.New(db), testutil.TestLoggerSilent(), srv.URL, srv.URL)

	_, err := c.Translate(context.Background(), "prompt", "fr", 1, 2)
	var aerr *APIError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %v, want APIError", err)
	}
}
