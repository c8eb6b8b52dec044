package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/domain"
	"github.com/harshil1002/website-monitor/internal/engine"
)

const (
	recoveriesFile = "recoveries.json"
	slowAlertsFile = "slow_alerts.json"
)

// Emitter turns a processing result into its external artifacts: alert
// lines on Out, plus the recovery and slow-alert JSON documents under
// Dir when they have content. An empty report removes the document a
// previous run may have left, so a file on disk always belongs to the
// latest run.
type Emitter struct {
	Dir    string
	Out    io.Writer
	logger *zap.Logger
}

func NewEmitter(dir string, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{Dir: dir, Out: os.Stdout, logger: logger}
}

type recoveryReport struct {
	Recoveries []domain.RecoveryAlert `json:"recoveries"`
}

type slowReport struct {
	SlowAlerts []domain.SlowAlert `json:"slowAlerts"`
}

func (e *Emitter) Emit(res engine.Result) error {
	for _, line := range res.Alerts {
		fmt.Fprintln(e.Out, line)
		e.logger.Warn("alert", zap.String("line", line))
	}
	for _, rec := range res.Recoveries {
		e.logger.Info("recovery",
			zap.String("url", rec.URL),
			zap.String("from", string(rec.RecoveredFrom)),
			zap.String("duration", rec.DurationText),
		)
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := e.writeOrRemove(recoveriesFile, len(res.Recoveries) > 0, recoveryReport{Recoveries: res.Recoveries}); err != nil {
		return err
	}
	return e.writeOrRemove(slowAlertsFile, len(res.SlowAlerts) > 0, slowReport{SlowAlerts: res.SlowAlerts})
}

func (e *Emitter) writeOrRemove(name string, nonEmpty bool, v any) error {
	path := filepath.Join(e.Dir, name)
	if !nonEmpty {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
		return nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
