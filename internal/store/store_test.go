// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/store"
	"github.com/lingoq/lingoq/internal/testutil"
)

func TestQueueLifecycle(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	entry, err := q.CreateQueueEntry(ctx, store.CreateQueueEntryParams{
		ParentContentID: 42,
		Language:        "French",
		Kind:            model.QueueKindNew,
	})
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusPending, entry.Status)
	assert.False(t, entry.TranslatedContentID.Valid)

	// Oldest-pending selection
	got, err := q.OldestPendingQueueEntry(ctx, model.QueueKindNew)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	// Kind filter excludes
	_, err = q.OldestPendingQueueEntry(ctx, model.QueueKindEdit)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// Claim succeeds exactly once
	ok, err := q.ClaimQueueEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = q.ClaimQueueEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second claim must not succeed")

	// Complete
	require.NoError(t, q.MarkQueueCompleted(ctx, entry.ID, 99))
	done, err := q.GetQueueEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusCompleted, done.Status)
	assert.Equal(t, int64(99), done.TranslatedContentID.Int64)
}

func TestQueueFailAndResubmit(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	entry, err := q.CreateQueueEntry(ctx, store.CreateQueueEntryParams{
		ParentContentID: 1,
		Language:        "German",
		Kind:            model.QueueKindEdit,
		EditedFields:    []string{"title", "content"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "content"}, entry.EditedFields)

	ok, err := q.ClaimQueueEntry(ctx, entry.ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, q.MarkQueueFailed(ctx, entry.ID, "api error (status 500)"))
	failed, err := q.GetQueueEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusFailed, failed.Status)
	assert.Equal(t, "api error (status 500)", failed.ErrorMessage.String)

	// Resubmit only works from failed
	ok, err = q.ResubmitQueueEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	again, err := q.GetQueueEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusProcessing, again.Status)
	assert.False(t, again.ErrorMessage.Valid, "resubmit must clear the error message")

	ok, err = q.ResubmitQueueEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueueFIFOOrdering(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	first, err := q.CreateQueueEntry(ctx, store.CreateQueueEntryParams{
		ParentContentID: 1, Language: "French", Kind: model.QueueKindOld,
	})
	require.NoError(t, err)
	_, err = q.CreateQueueEntry(ctx, store.CreateQueueEntryParams{
		ParentContentID: 2, Language: "French", Kind: model.QueueKindOld,
	})
	require.NoError(t, err)

	got, err := q.OldestPendingQueueEntry(ctx, model.QueueKindOld)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID, "oldest entry must be selected first")
}

func TestQueueEntryExists(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	exists, err := q.QueueEntryExists(ctx, 7, "Spanish")
	require.NoError(t, err)
	assert.False(t, exists)

	entry, err := q.CreateQueueEntry(ctx, store.CreateQueueEntryParams{
		ParentContentID: 7, Language: "Spanish", Kind: model.QueueKindOld,
	})
	require.NoError(t, err)

	exists, err = q.QueueEntryExists(ctx, 7, "Spanish")
	require.NoError(t, err)
	assert.True(t, exists)

	// Terminal entries no longer block re-queuing
	require.NoError(t, q.MarkQueueFailed(ctx, entry.ID, "boom"))
	exists, err = q.QueueEntryExists(ctx, 7, "Spanish")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTranslationLinkUnique(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	langID, err := q.CreateLanguage(ctx, store.CreateLanguageParams{
		Code: "fr", Name: "French", Prefix: "fr", IsActive: true,
	})
	require.NoError(t, err)

	_, err = q.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType: model.EntityTypeContent, EntityID: 1, LanguageID: langID, TranslationID: 2,
	})
	require.NoError(t, err)

	_, err = q.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType: model.EntityTypeContent, EntityID: 1, LanguageID: langID, TranslationID: 3,
	})
	assert.Error(t, err, "duplicate (entity, language) link must be rejected")

	link, err := q.GetTranslation(ctx, store.GetTranslationParams{
		EntityType: model.EntityTypeContent, EntityID: 1, LanguageID: langID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), link.TranslationID)
}

func TestContentMetaRoundTrip(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	id, err := q.CreateContent(ctx, store.CreateContentParams{
		Slug: "hello", Title: "Hello", Body: "<p>World</p>",
		Status: model.ContentStatusPublished, CommentStatus: model.CommentStatusOpen,
		LanguageCode: "en",
	})
	require.NoError(t, err)

	require.NoError(t, q.UpsertContentMeta(ctx, id, "subtitle", "A greeting"))
	require.NoError(t, q.UpsertContentMeta(ctx, id, "_internal_rev", "3"))
	require.NoError(t, q.UpsertContentMeta(ctx, id, "subtitle", "A warm greeting"))

	metas, err := q.ListContentMeta(ctx, id)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "_internal_rev", metas[0].Key)
	assert.True(t, metas[0].IsInternal())
	assert.Equal(t, "A warm greeting", metas[1].Value)
}

func TestConfigGetSet(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)

	v, err := q.GetConfigValue(ctx, model.ConfigKeyModel)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, q.SetConfig(ctx, store.SetConfigParams{
		Key: model.ConfigKeyModel, Value: "gpt-4o-mini",
	}))
	v, err = q.GetConfigValue(ctx, model.ConfigKeyModel)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", v)
}
