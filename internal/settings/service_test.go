// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package settings

import (
	"context"
	"reflect"
	"testing"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/store"
	"github.com/lingoq/lingoq/internal/testutil"
)

func TestAPIKeyFallsBackToEnv(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	svc := New(q)
	svc.EnvOpenAIKey = "env-key"

	key, err := svc.APIKey(ctx, "openai")
	if err != nil {
		t.Fatalf("APIKey: %v", err)
	}
	if key != "env-key" {
		t.Errorf("key = %q, want env fallback", key)
	}

	// Database value takes precedence
	if err := q.SetConfig(ctx, store.SetConfigParams{Key: model.ConfigKeyOpenAIKey, Value: "db-key"}); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	key, err = svc.APIKey(ctx, "openai")
	if err != nil {
		t.Fatalf("APIKey: %v", err)
	}
	if key != "db-key" {
		t.Errorf("key = %q, want db value", key)
	}
}

func TestGlossaryTerms(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	svc := New(q)

	terms, err := svc.GlossaryTerms(ctx)
	if err != nil {
		t.Fatalf("GlossaryTerms: %v", err)
	}
	if terms != nil {
		t.Errorf("terms = %v, want nil", terms)
	}

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"json array", `["Acme","WidgetPro"]`, []string{"Acme", "WidgetPro"}},
		{"comma separated", "Acme, WidgetPro , ", []string{"Acme", "WidgetPro"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := q.SetConfig(ctx, store.SetConfigParams{
				Key: model.ConfigKeyGlossaryTerms, Value: tt.value, Type: model.ConfigTypeJSON,
			}); err != nil {
				t.Fatalf("SetConfig: %v", err)
			}
			got, err := svc.GlossaryTerms(ctx)
			if err != nil {
				t.Fatalf("GlossaryTerms: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("terms = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheEnabled(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	svc := New(q)

	on, err := svc.CacheEnabled(ctx)
	if err != nil {
		t.Fatalf("CacheEnabled: %v", err)
	}
	if on {
		t.Error("cache should default to off")
	}

	if err := q.SetConfig(ctx, store.SetConfigParams{Key: model.ConfigKeyCacheEnabled, Value: "true"}); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	on, err = svc.CacheEnabled(ctx)
	if err != nil {
		t.Fatalf("CacheEnabled: %v", err)
	}
	if !on {
		t.Error("cache should be on")
	}
}
