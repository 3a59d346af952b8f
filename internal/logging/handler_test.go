// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/store"
	"github.com/lingoq/lingoq/internal/testutil"
)

func TestEventLogHandlerForwardsWarnings(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(NewEventLogHandler(inner, db))

	logger.Warn("queue entry failed", "queue_id", int64(7), "error", "api error")
	logger.Info("queue entry claimed") // below threshold, must not be recorded

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Level != model.EventLevelWarning {
		t.Errorf("level = %q", e.Level)
	}
	if e.Category != model.EventCategoryQueue {
		t.Errorf("category = %q", e.Category)
	}
	if !e.QueueID.Valid || e.QueueID.Int64 != 7 {
		t.Errorf("queue_id = %+v", e.QueueID)
	}
}

func TestExtractCategoryFromAttr(t *testing.T) {
	r := slog.NewRecord(time.Now(), slog.LevelWarn, "something odd", 0)
	r.AddAttrs(slog.String("category", model.EventCategoryTranslate))
	if got := extractCategory(r); got != model.EventCategoryTranslate {
		t.Errorf("extractCategory = %q", got)
	}
}

func TestExtractCategoryInferred(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"queue entry claimed", model.EventCategoryQueue},
		{"translation parse failed", model.EventCategoryTranslate},
		{"api key missing", model.EventCategoryAPI},
		{"content item created", model.EventCategoryContent},
		{"disk almost full", model.EventCategorySystem},
	}
	for _, tt := range tests {
		r := slog.NewRecord(time.Now(), slog.LevelWarn, tt.msg, 0)
		if got := extractCategory(r); got != tt.want {
			t.Errorf("extractCategory(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}
