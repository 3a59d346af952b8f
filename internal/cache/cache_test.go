// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key("gpt-4o-mini", "translate this")
	b := Key("gpt-4o-mini", "translate this")
	assert.Equal(t, a, b, "key must be deterministic")

	assert.NotEqual(t, a, Key("claude-haiku-4-5", "translate this"),
		"different models must not share entries")
	assert.NotEqual(t, a, Key("gpt-4o-mini", "translate that"))
	assert.Len(t, a, 64)
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "Titre: Bonjour"))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Titre: Bonjour", got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	now := time.Now()
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set(ctx, "k", "v"))

	now = now.Add(2 * time.Minute)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry past TTL must miss")
	assert.Zero(t, c.Len(), "expired entry must be dropped")
}

func TestMemoryCacheNoTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	now := time.Now()
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set(ctx, "k", "v"))

	now = now.Add(24 * 365 * time.Hour)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
