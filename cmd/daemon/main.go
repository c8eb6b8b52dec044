package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/config"
	"github.com/harshil1002/website-monitor/internal/history"
	"github.com/harshil1002/website-monitor/internal/history/postgres"
	"github.com/harshil1002/website-monitor/internal/history/sqlite"
	"github.com/harshil1002/website-monitor/internal/httpapi"
	"github.com/harshil1002/website-monitor/internal/logging"
	"github.com/harshil1002/website-monitor/internal/monitor"
	"github.com/harshil1002/website-monitor/internal/notify"
	"github.com/harshil1002/website-monitor/internal/probe"
	"github.com/harshil1002/website-monitor/internal/report"
	"github.com/harshil1002/website-monitor/internal/scheduler"
	"github.com/harshil1002/website-monitor/internal/state"
)

// Daemon mode: passes run on an internal cron schedule, results are
// served over a small read-only HTTP API, and transitions can push to
// a Slack webhook.
func main() {
	configPath := flag.String("config", "", "config file (default: monitor.yaml in the working directory)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if len(cfg.URLs) == 0 {
		logger.Fatal("no_urls_configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hist history.Store
	if cfg.HistoryPath != "" {
		hs, err := openHistory(ctx, logger, cfg.HistoryPath)
		if err != nil {
			logger.Warn("history_open_error", zap.Error(err))
		} else {
			hist = hs
			defer hs.Close()
		}
	}

	st := state.NewStore(cfg.StateDir, logger)
	runner := monitor.NewRunner(
		logger,
		probe.NewHTTPChecker(cfg.Timeout, cfg.SlowThreshold),
		st,
		report.NewEmitter(cfg.ReportDir, logger),
		hist,
		cfg.URLs,
		cfg.Timeout,
		cfg.Concurrency,
	)

	var notifier notify.Notifier
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		notifier = s
	}

	sched := scheduler.New(logger, runner, notifier, hist, cfg.Schedule, cfg.RetentionDays)
	if err := sched.Start(ctx); err != nil {
		logger.Fatal("scheduler_start_error", zap.Error(err))
	}

	api := httpapi.NewServer(logger, st, hist, sched.LastResult)
	srv := &http.Server{
		Addr:         cfg.APIAddr,
		Handler:      api.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.APIAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_serve_error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown_error", zap.Error(err))
	}
	sched.Stop()
}

// openHistory picks the history backend from the path shape: a
// Postgres DSN for shared deployments, a SQLite file otherwise.
func openHistory(ctx context.Context, logger *zap.Logger, path string) (history.Store, error) {
	if strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://") {
		return postgres.New(ctx, path, logger)
	}
	return sqlite.New(logger, path)
}
