// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheGetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, "lingoq:", time.Hour)

	mock.ExpectGet("lingoq:abc").SetVal("Titre: Bonjour")

	got, ok, err := c.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Titre: Bonjour", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheGetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, "lingoq:", time.Hour)

	mock.ExpectGet("lingoq:abc").RedisNil()

	_, ok, err := c.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheSet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, "lingoq:", time.Hour)

	mock.ExpectSet("lingoq:abc", "value", time.Hour).SetVal("OK")

	require.NoError(t, c.Set(context.Background(), "abc", "value"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedisCacheRejectsEmptyURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisCacheOptions{})
	assert.Error(t, err)
}
