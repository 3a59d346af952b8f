// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package translate

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/settings"
	"github.com/lingoq/lingoq/internal/store"
	"github.com/lingoq/lingoq/internal/testutil"
)

// echoBackend answers every request with "Title: <FR> <original title>",
// decoding the prompt to find the labeled line.
func echoBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)

		title := ""
		for _, line := range strings.Split(req.Messages[0].Content, "\n") {
			if strings.HasPrefix(line, "Title: ") {
				title = strings.TrimPrefix(line, "Title: ")
				break
			}
		}
		openAICompletion(w, "Title: <FR> "+title)
	}))
}

func newTermFixture(t *testing.T) (*TermTranslator, *MenuTranslator, *store.Queries, *sql.DB, func()) {
	t.Helper()
	db, dbCleanup := testutil.TestDB(t)
	queries := store.New(db)
	logger := testutil.TestLoggerSilent()
	srv := echoBackend(t)

	settingsSvc := settings.New(queries)
	settingsSvc.EnvOpenAIKey = "test-key"
	client := NewClientWithBaseURLs(settingsSvc, queries, logger, srv.URL, srv.URL)

	tt := NewTermTranslator(queries, client, settingsSvc, logger)
	mt := NewMenuTranslator(queries, client, settingsSvc, logger)
	return tt, mt, queries, db, func() {
		srv.Close()
		dbCleanup()
	}
}

func seedFrench(t *testing.T, queries *store.Queries) model.Language {
	t.Helper()
	ctx := context.Background()
	_, err := queries.CreateLanguage(ctx, store.CreateLanguageParams{
		Code: "fr", Name: "French", Prefix: "fr", IsActive: true,
	})
	require.NoError(t, err)
	fr, err := queries.GetLanguageByName(ctx, "French")
	require.NoError(t, err)
	return fr
}

func TestTranslateTermsParentFirst(t *testing.T) {
	tt, _, queries, _, cleanup := newTermFixture(t)
	defer cleanup()
	ctx := context.Background()

	fr := seedFrench(t, queries)
	parentID, err := queries.CreateTerm(ctx, store.CreateTermParams{
		Name: "Science", Slug: "science", Taxonomy: "category",
	})
	require.NoError(t, err)
	childID, err := queries.CreateTerm(ctx, store.CreateTermParams{
		Name: "Physics", Slug: "physics", Taxonomy: "category",
		ParentID: sql.NullInt64{Int64: parentID, Valid: true},
	})
	require.NoError(t, err)

	// Only the child is requested; the parent must be pulled in first.
	mapping, err := tt.TranslateTerms(ctx, []int64{childID}, fr)
	require.NoError(t, err)
	require.Len(t, mapping, 2)

	newChild, err := queries.GetTerm(ctx, mapping[childID])
	require.NoError(t, err)
	assert.Equal(t, "<FR> Physics", newChild.Name)
	require.True(t, newChild.ParentID.Valid)
	assert.Equal(t, mapping[parentID], newChild.ParentID.Int64,
		"translated child must hang under the translated parent")

	newParent, err := queries.GetTerm(ctx, mapping[parentID])
	require.NoError(t, err)
	assert.Equal(t, "<FR> Science", newParent.Name)
	assert.False(t, newParent.ParentID.Valid)
}

func TestTranslateTermsDetectsParentCycle(t *testing.T) {
	tt, _, queries, db, cleanup := newTermFixture(t)
	defer cleanup()
	ctx := context.Background()

	fr := seedFrench(t, queries)
	aID, err := queries.CreateTerm(ctx, store.CreateTermParams{
		Name: "Alpha", Slug: "alpha", Taxonomy: "category",
	})
	require.NoError(t, err)
	bID, err := queries.CreateTerm(ctx, store.CreateTermParams{
		Name: "Beta", Slug: "beta", Taxonomy: "category",
		ParentID: sql.NullInt64{Int64: aID, Valid: true},
	})
	require.NoError(t, err)
	// Corrupt the hierarchy so the two terms are each other's parent.
	_, err = db.Exec(`UPDATE terms SET parent_id = ? WHERE id = ?`, bID, aID)
	require.NoError(t, err)

	_, err = tt.TranslateTerms(ctx, []int64{aID}, fr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestTranslateTermsReusesExistingLinks(t *testing.T) {
	tt, _, queries, _, cleanup := newTermFixture(t)
	defer cleanup()
	ctx := context.Background()

	fr := seedFrench(t, queries)
	termID, err := queries.CreateTerm(ctx, store.CreateTermParams{
		Name: "News", Slug: "news", Taxonomy: "category",
	})
	require.NoError(t, err)

	first, err := tt.TranslateTerms(ctx, []int64{termID}, fr)
	require.NoError(t, err)

	second, err := tt.TranslateTerms(ctx, []int64{termID}, fr)
	require.NoError(t, err)
	assert.Equal(t, first[termID], second[termID], "a second run must reuse the link")
}

func TestTranslateMenu(t *testing.T) {
	_, mt, queries, _, cleanup := newTermFixture(t)
	defer cleanup()
	ctx := context.Background()

	fr := seedFrench(t, queries)

	pageID, err := queries.CreateContent(ctx, store.CreateContentParams{
		Slug: "about", Title: "About", Status: model.ContentStatusPublished,
		CommentStatus: model.CommentStatusClosed, LanguageCode: "en",
	})
	require.NoError(t, err)
	frPageID, err := queries.CreateContent(ctx, store.CreateContentParams{
		Slug: "a-propos", Title: "À propos", Status: model.ContentStatusPublished,
		CommentStatus: model.CommentStatusClosed, LanguageCode: "fr",
	})
	require.NoError(t, err)
	_, err = queries.CreateTranslation(ctx, store.CreateTranslationParams{
		EntityType: model.EntityTypeContent, EntityID: pageID,
		LanguageID: fr.ID, TranslationID: frPageID,
	})
	require.NoError(t, err)

	menuID, err := queries.CreateMenu(ctx, store.CreateMenuParams{
		Name: "Main", Slug: "main", LanguageCode: "en",
	})
	require.NoError(t, err)
	topID, err := queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID: menuID, Title: "Company", Position: 1,
	})
	require.NoError(t, err)
	_, err = queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID: menuID, Title: "About",
		ParentID: sql.NullInt64{Int64: topID, Valid: true},
		PageID:   sql.NullInt64{Int64: pageID, Valid: true},
		Position: 1,
	})
	require.NoError(t, err)

	newMenuID, err := mt.TranslateMenu(ctx, menuID, fr)
	require.NoError(t, err)

	newMenu, err := queries.GetMenu(ctx, newMenuID)
	require.NoError(t, err)
	assert.Equal(t, "<FR> Main", newMenu.Name)
	assert.Equal(t, "fr", newMenu.LanguageCode)

	items, err := queries.ListMenuItems(ctx, newMenuID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "<FR> Company", items[0].Title)
	assert.Equal(t, "<FR> About", items[1].Title)
	require.True(t, items[1].ParentID.Valid)
	assert.Equal(t, items[0].ID, items[1].ParentID.Int64)
	require.True(t, items[1].PageID.Valid)
	assert.Equal(t, frPageID, items[1].PageID.Int64, "page link must point at the translated page")

	// A second call returns the existing copy.
	again, err := mt.TranslateMenu(ctx, menuID, fr)
	require.NoError(t, err)
	assert.Equal(t, newMenuID, again)
}
