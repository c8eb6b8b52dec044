package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/engine"
	"github.com/harshil1002/website-monitor/internal/history"
	"github.com/harshil1002/website-monitor/internal/monitor"
	"github.com/harshil1002/website-monitor/internal/notify"
)

// Scheduler drives repeated monitoring passes from a cron spec, keeps
// the latest result for the API, and pushes notifications when a pass
// finds trouble or a recovery.
type Scheduler struct {
	logger        *zap.Logger
	runner        *monitor.Runner
	notifier      notify.Notifier
	hist          history.Store
	spec          string
	retentionDays int
	cron          *cron.Cron

	mu      sync.Mutex
	running bool
	lastRes engine.Result
	lastAt  time.Time
	hasRun  bool
}

// cronLogger adapts zap.Logger to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, zap.Error(err))
}

func New(
	logger *zap.Logger,
	runner *monitor.Runner,
	notifier notify.Notifier,
	hist history.Store,
	spec string,
	retentionDays int,
) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := &cronLogger{logger: logger.Named("cron")}
	return &Scheduler{
		logger:        logger,
		runner:        runner,
		notifier:      notifier,
		hist:          hist,
		spec:          spec,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithChain(cron.Recover(cl))),
	}
}

// Start registers the jobs and kicks off an immediate first pass so a
// fresh daemon reports state right away instead of after one interval.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.runPass(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}
	if s.hist != nil && s.retentionDays > 0 {
		if _, err := s.cron.AddFunc("@daily", func() { s.pruneHistory(ctx) }); err != nil {
			return fmt.Errorf("register retention job: %w", err)
		}
	}

	s.cron.Start()
	go s.runPass(ctx)

	s.logger.Info("scheduler_started", zap.String("spec", s.spec))
	return nil
}

// Stop halts the cron loop and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler_stopped")
}

// LastResult returns the most recent pass result, its completion time,
// and whether any pass has completed yet.
func (s *Scheduler) LastResult() (engine.Result, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRes, s.lastAt, s.hasRun
}

// runPass is single-flight: a tick that fires while the previous pass
// is still probing gets skipped rather than stacked.
func (s *Scheduler) runPass(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("run_skipped_overlap")
		return
	}
	s.running = true
	s.mu.Unlock()

	res := s.runner.RunOnce(ctx)

	s.mu.Lock()
	s.running = false
	s.lastRes = res
	s.lastAt = time.Now().UTC()
	s.hasRun = true
	s.mu.Unlock()

	s.dispatch(ctx, res)
}

// dispatch sends best-effort notifications; failures are logged and
// never fail the pass. Only down transitions and recoveries notify,
// slow transitions stay in the reports and logs.
func (s *Scheduler) dispatch(ctx context.Context, res engine.Result) {
	if s.notifier == nil {
		return
	}
	if lines := downLines(res); len(lines) > 0 {
		if err := s.notifier.Send(ctx, "🔴 Targets DOWN", strings.Join(lines, "\n")); err != nil {
			s.logger.Warn("notify_error", zap.Error(err))
		}
	}
	if len(res.Recoveries) > 0 {
		if err := s.notifier.Send(ctx, "🟢 Targets RECOVERED", recoveryText(res)); err != nil {
			s.logger.Warn("notify_error", zap.Error(err))
		}
	}
}

func downLines(res engine.Result) []string {
	var lines []string
	for _, line := range res.Alerts {
		if strings.HasPrefix(line, "DOWN: ") {
			lines = append(lines, line)
		}
	}
	return lines
}

func recoveryText(res engine.Result) string {
	lines := make([]string, 0, len(res.Recoveries))
	for _, rec := range res.Recoveries {
		if rec.DurationText != "" {
			lines = append(lines, fmt.Sprintf("RECOVERED: %s after %s", rec.URL, rec.DurationText))
			continue
		}
		lines = append(lines, fmt.Sprintf("RECOVERED: %s", rec.URL))
	}
	return strings.Join(lines, "\n")
}

func (s *Scheduler) pruneHistory(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.hist.DeleteBefore(ctx, cutoff)
	if err != nil {
		s.logger.Warn("history_prune_error", zap.Error(err))
		return
	}
	s.logger.Info("history_prune_complete",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted))
}
