package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/domain"
	"github.com/harshil1002/website-monitor/internal/engine"
	"github.com/harshil1002/website-monitor/internal/history"
	"github.com/harshil1002/website-monitor/internal/probe"
	"github.com/harshil1002/website-monitor/internal/report"
	"github.com/harshil1002/website-monitor/internal/state"
)

// Runner executes one monitoring pass: probe every URL concurrently,
// fold the outcomes into the persisted state, and emit reports.
type Runner struct {
	Logger      *zap.Logger
	Checker     probe.Checker
	State       *state.Store
	Reports     *report.Emitter
	History     history.Store // nil disables history recording
	URLs        []string
	Timeout     time.Duration
	Concurrency int
}

func NewRunner(
	logger *zap.Logger,
	checker probe.Checker,
	st *state.Store,
	reports *report.Emitter,
	hist history.Store,
	urls []string,
	timeout time.Duration,
	concurrency int,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = probe.DefaultTimeout
	}
	if concurrency < 0 {
		concurrency = 0
	}
	return &Runner{
		Logger:      logger,
		Checker:     checker,
		State:       st,
		Reports:     reports,
		History:     hist,
		URLs:        urls,
		Timeout:     timeout,
		Concurrency: concurrency,
	}
}

// RunOnce performs a single pass. Storage and report failures are
// logged, not returned: one bad write must not poison the pass, and
// the caller still gets the computed result.
func (r *Runner) RunOnce(ctx context.Context) engine.Result {
	started := time.Now()
	outs := r.probeAll(ctx)

	prevSnap, prevDown := r.State.Load()
	res := engine.Process(outs, prevSnap, prevDown, time.Now().UTC())

	if err := r.State.Save(res.Snapshot, res.DownSince); err != nil {
		r.Logger.Warn("state_save_error", zap.Error(err))
	}
	if err := r.Reports.Emit(res); err != nil {
		r.Logger.Warn("report_emit_error", zap.Error(err))
	}
	r.appendHistory(ctx, outs)

	r.Logger.Info("run_complete",
		zap.Int("urls", len(r.URLs)),
		zap.Int("alerts", len(res.Alerts)),
		zap.Int("recoveries", len(res.Recoveries)),
		zap.Bool("any_down", res.AnyDown),
		zap.Duration("elapsed", time.Since(started)),
	)
	return res
}

// probeAll fans the checks out and collects outcomes by index, so the
// result order always matches the configured URL order no matter how
// the probes interleave.
func (r *Runner) probeAll(ctx context.Context) []domain.CheckOutcome {
	outs := make([]domain.CheckOutcome, len(r.URLs))

	limit := r.Concurrency
	if limit < 1 || limit > len(r.URLs) {
		limit = len(r.URLs)
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, url := range r.URLs {
		i, url := i, url
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			outs[i] = r.Checker.Check(cctx, url)

			r.Logger.Debug("url_checked",
				zap.String("url", url),
				zap.String("status", string(outs[i].Status)),
				zap.String("reason", outs[i].Reason),
				zap.Int64("latency_ms", outs[i].LatencyMS),
			)
		}()
	}
	wg.Wait()
	return outs
}

func (r *Runner) appendHistory(ctx context.Context, outs []domain.CheckOutcome) {
	if r.History == nil || len(outs) == 0 {
		return
	}
	runID := uuid.NewString()
	recs := make([]history.Record, 0, len(outs))
	for _, o := range outs {
		recs = append(recs, history.Record{
			RunID:     runID,
			URL:       o.URL,
			Status:    o.Status,
			Reason:    o.Reason,
			LatencyMS: o.LatencyMS,
			CheckedAt: o.CheckedAt,
		})
	}
	if err := r.History.Append(ctx, recs); err != nil {
		r.Logger.Warn("history_append_error", zap.Error(err))
	}
}
