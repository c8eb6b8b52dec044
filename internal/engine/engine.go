package engine

import (
	"fmt"
	"time"

	"github.com/harshil1002/website-monitor/internal/domain"
)

// Result is everything one processing pass produces: the state to
// persist, the alert artifacts to report, and the run health signal.
type Result struct {
	Snapshot   domain.Snapshot
	DownSince  domain.DownSince
	Alerts     []string
	Recoveries []domain.RecoveryAlert
	SlowAlerts []domain.SlowAlert
	AnyDown    bool
}

// Process derives the next persisted state and the alert artifacts from
// one run's outcomes plus the state left by the previous run. It is a
// pure function of its arguments; callers own loading and saving.
//
// Both new mappings are built from this run's outcomes alone, so URLs
// that are no longer monitored drop out of both.
func Process(outcomes []domain.CheckOutcome, prev domain.Snapshot, prevDown domain.DownSince, now time.Time) Result {
	res := Result{
		Snapshot:  make(domain.Snapshot, len(outcomes)),
		DownSince: make(domain.DownSince),
	}

	for _, out := range outcomes {
		prevStatus := prev[out.URL] // zero value for URLs never seen before

		switch out.Status {
		case domain.StatusUp:
			if since, ok := prevDown[out.URL]; prevStatus == domain.StatusDown && ok {
				durMS := now.Sub(since).Milliseconds()
				started := since
				res.Recoveries = append(res.Recoveries, domain.RecoveryAlert{
					URL:               out.URL,
					RecoveredFrom:     domain.StatusDown,
					IncidentStartedAt: &started,
					ResolvedAt:        now,
					DurationMS:        &durMS,
					DurationText:      FormatDuration(durMS),
				})
			} else if prevStatus == domain.StatusSlow {
				res.Recoveries = append(res.Recoveries, domain.RecoveryAlert{
					URL:           out.URL,
					RecoveredFrom: domain.StatusSlow,
					ResolvedAt:    now,
				})
			}
			// First-ever observation of up stays silent.

		case domain.StatusSlow:
			if prevStatus != domain.StatusSlow {
				res.Alerts = append(res.Alerts, fmt.Sprintf("SLOW: %s (%dms)", out.URL, out.LatencyMS))
			}
			// Only up->slow yields a structured record; down->slow and
			// first-sight slow get the line above and nothing else.
			if prevStatus == domain.StatusUp {
				res.SlowAlerts = append(res.SlowAlerts, domain.SlowAlert{
					URL:        out.URL,
					LatencyMS:  out.LatencyMS,
					DetectedAt: now,
				})
			}

		case domain.StatusDown:
			res.AnyDown = true
			if prevStatus != domain.StatusDown {
				res.Alerts = append(res.Alerts, fmt.Sprintf("DOWN: %s (%s)", out.URL, out.Reason))
			}
			if since, ok := prevDown[out.URL]; ok {
				// Already in an outage; keep the original incident start.
				res.DownSince[out.URL] = since
			} else {
				res.DownSince[out.URL] = now
			}
		}

		res.Snapshot[out.URL] = out.Status
	}

	return res
}
