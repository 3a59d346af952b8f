// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// lingoq translates CMS content with chat-completion models: a queue of
// translation jobs, a placeholder-safe prompt pipeline, and an audit trail.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/lingoq/lingoq/internal/cache"
	"github.com/lingoq/lingoq/internal/config"
	"github.com/lingoq/lingoq/internal/content"
	"github.com/lingoq/lingoq/internal/handler"
	"github.com/lingoq/lingoq/internal/logging"
	"github.com/lingoq/lingoq/internal/queue"
	"github.com/lingoq/lingoq/internal/scheduler"
	"github.com/lingoq/lingoq/internal/settings"
	"github.com/lingoq/lingoq/internal/store"
	"github.com/lingoq/lingoq/internal/translate"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
)

// app bundles everything the subcommands share.
type app struct {
	cfg       *config.Config
	db        *sql.DB
	queries   *store.Queries
	logger    *slog.Logger
	processor *translate.Processor
	scanner   *queue.Scanner
	enqueuer  *queue.Enqueuer
	terms     *translate.TermTranslator
	menus     *translate.MenuTranslator
	redis     *cache.RedisCache
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// bootstrap loads configuration, opens and migrates the database, and wires
// the translation pipeline.
func bootstrap(ctx context.Context) (*app, error) {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	logger := newLogger(cfg, db)
	slog.SetDefault(logger)

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	queries := store.New(db)
	if err := store.SeedLanguages(ctx, queries, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seeding languages: %w", err)
	}

	settingsSvc := settings.New(queries)
	settingsSvc.EnvOpenAIKey = cfg.OpenAIKey
	settingsSvc.EnvClaudeKey = cfg.ClaudeKey

	contentSvc := content.NewService(queries, logger)
	enqueuer := queue.NewEnqueuer(queries, logger)
	contentSvc.OnSave = enqueuer.SaveHook()

	client := translate.NewClient(settingsSvc, queries, logger)
	processor := translate.NewProcessor(queries, contentSvc, settingsSvc, client, logger)

	a := &app{
		cfg:       cfg,
		db:        db,
		queries:   queries,
		logger:    logger,
		processor: processor,
		scanner:   queue.NewScanner(queries, logger),
		enqueuer:  enqueuer,
		terms:     translate.NewTermTranslator(queries, client, settingsSvc, logger),
		menus:     translate.NewMenuTranslator(queries, client, settingsSvc, logger),
	}

	ttl := time.Duration(cfg.CacheTTL) * time.Second
	if cfg.UseRedisCache() {
		rc, err := cache.NewRedisCache(ctx, cache.RedisCacheOptions{
			URL:    cfg.RedisURL,
			Prefix: cfg.CachePrefix,
			TTL:    ttl,
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		a.redis = rc
		processor.Cache = rc
		logger.Info("translation memory backed by redis", "prefix", cfg.CachePrefix)
	} else {
		processor.Cache = cache.NewMemoryCache(ttl)
	}

	return a, nil
}

// newLogger builds the application logger: text to stderr, WARN and above
// mirrored into the events table.
func newLogger(cfg *config.Config, db *sql.DB) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(logging.NewEventLogHandler(inner, db))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lingoq",
		Short:         "CMS translation queue backed by chat-completion models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newProcessCmd(),
		newScanCmd(),
		newRetryCmd(),
		newMigrateStatusCmd(),
		newVersionCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the queue poller",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			var sched *scheduler.Scheduler
			if a.cfg.PollEnabled {
				limiter := rate.NewLimiter(rate.Limit(a.cfg.APIRateLimit), 1)
				sched = scheduler.New(a.processor, limiter, a.cfg.PollSchedule, a.logger)
				if err := sched.Start(); err != nil {
					return fmt.Errorf("starting queue poller: %w", err)
				}
			}

			h := handler.New(a.processor, a.scanner, a.enqueuer, a.terms, a.menus, a.queries, a.logger)
			srv := &http.Server{
				Addr:              a.cfg.ServerAddr(),
				Handler:           h.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("http server listening", "addr", srv.Addr, "env", a.cfg.Env)
				errCh <- srv.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case sig := <-stop:
				a.logger.Info("shutting down", "signal", sig.String())
			}

			if sched != nil {
				sched.Stop()
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process [kind]",
		Short: "Process the oldest pending queue entry (default: all kinds once)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if len(args) == 1 {
				outcome, err := a.processor.ProcessNext(ctx, args[0])
				return reportOutcome(cmd, outcome.NoWork, err)
			}

			limiter := rate.NewLimiter(rate.Limit(a.cfg.APIRateLimit), 1)
			scheduler.New(a.processor, limiter, a.cfg.PollSchedule, a.logger).Tick(ctx)
			return nil
		},
	}
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Enqueue published content that has never been translated",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			created, err := a.scanner.ScanBacklog(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("enqueued %d entries\n", created)
			return nil
		},
	}
}

func newRetryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry <queue-id>",
		Short: "Resubmit a failed queue entry and process it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid queue id %q", args[0])
			}
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			outcome, err := a.processor.Retry(ctx, id)
			return reportOutcome(cmd, outcome.NoWork, err)
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-status",
		Short: "Print the current database schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			version, err := store.MigrationStatus(a.db)
			if err != nil {
				return err
			}
			cmd.Printf("schema version %d\n", version)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("lingoq %s (%s)\n", appVersion, appGitCommit)
		},
	}
}

func reportOutcome(cmd *cobra.Command, noWork bool, err error) error {
	if errors.Is(err, translate.ErrNoWork) || noWork {
		cmd.Println("no pending entries")
		return nil
	}
	if err != nil {
		return err
	}
	cmd.Println("entry processed")
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
