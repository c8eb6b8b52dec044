package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/config"
	"github.com/harshil1002/website-monitor/internal/history"
	"github.com/harshil1002/website-monitor/internal/history/postgres"
	"github.com/harshil1002/website-monitor/internal/history/sqlite"
	"github.com/harshil1002/website-monitor/internal/logging"
	"github.com/harshil1002/website-monitor/internal/monitor"
	"github.com/harshil1002/website-monitor/internal/probe"
	"github.com/harshil1002/website-monitor/internal/report"
	"github.com/harshil1002/website-monitor/internal/state"
)

// One-shot mode: a single pass per invocation, meant to run under an
// external scheduler (cron, systemd timer, CI job). Exit code 1 means
// at least one URL was down.
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

	runner := monitor.NewRunner(
		logger,
		probe.NewHTTPChecker(cfg.Timeout, cfg.SlowThreshold),
		state.NewStore(cfg.StateDir, logger),
		report.NewEmitter(cfg.ReportDir, logger),
		hist,
		cfg.URLs,
		cfg.Timeout,
		cfg.Concurrency,
	)

	res := runner.RunOnce(ctx)
	if res.AnyDown {
		if hist != nil {
			hist.Close()
		}
		logger.Sync()
		os.Exit(1)
	}
}

// openHistory picks the history backend from the path shape: a
// Postgres DSN for shared deployments, a SQLite file otherwise.
func openHistory(ctx context.Context, logger *zap.Logger, path string) (history.Store, error) {
	if strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://") {
		return postgres.New(ctx, path, logger)
	}
	return sqlite.New(logger, path)
}
