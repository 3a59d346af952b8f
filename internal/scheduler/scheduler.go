// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler polls the translation queue on a cron schedule and feeds
// entries through the processor, one kind at a time, rate limited so the
// translation backend is never hammered.
package scheduler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/lingoq/lingoq/internal/model"
	"github.com/lingoq/lingoq/internal/translate"
)

// maxPerTick bounds how many entries one tick may process per kind, so a
// large backlog cannot keep a single tick running forever.
const maxPerTick = 25

// Runner processes one pending queue entry of a kind.
type Runner interface {
	ProcessNext(ctx context.Context, kind string) (model.Outcome, error)
}

// Scheduler runs the queue poller.
type Scheduler struct {
	runner   Runner
	cron     *cron.Cron
	limiter  *rate.Limiter
	schedule string
	logger   *slog.Logger
}

// New creates a scheduler that drains the queue on the given cron schedule.
// The limiter spaces out API calls across ticks and kinds.
func New(runner Runner, limiter *rate.Limiter, schedule string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		cron:     cron.New(),
		limiter:  limiter,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the polling job and begins ticking.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.Tick(context.Background())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("queue poller started", "schedule", s.schedule)
	return nil
}

// Stop waits for a running tick to finish and stops the poller.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("queue poller stopped")
}

// Tick drains each queue kind in order: new content first, then backlog,
// then edits. It is exported so a manual run can share the exact polling
// behavior.
func (s *Scheduler) Tick(ctx context.Context) {
	for _, kind := range model.QueueKinds {
		s.drain(ctx, kind)
	}
}

// drain processes entries of one kind until the queue is empty, an entry
// fails, or the per-tick cap is reached. Stopping on failure keeps one
// broken entry from delaying the rest of the tick; the entry is already
// marked failed and waits for an operator retry.
func (s *Scheduler) drain(ctx context.Context, kind string) {
	for i := 0; i < maxPerTick; i++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		outcome, err := s.runner.ProcessNext(ctx, kind)
		if errors.Is(err, translate.ErrNoWork) {
			return
		}
		if err != nil {
			s.logger.Error("queue poll failed",
				"kind", kind, "queue_id", outcome.QueueID, "error", err)
			return
		}
		s.logger.Info("queue poll processed entry",
			"kind", kind, "queue_id", outcome.QueueID,
			"translated_id", outcome.TranslatedID, "language", outcome.Language)
	}
}
