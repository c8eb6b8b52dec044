package monitor

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/domain"
	"github.com/harshil1002/website-monitor/internal/history/memory"
	"github.com/harshil1002/website-monitor/internal/report"
	"github.com/harshil1002/website-monitor/internal/state"
)

// --- fakes ---

type scriptedChecker struct {
	mu    sync.Mutex
	byURL map[string]domain.CheckOutcome
	delay time.Duration
}

func (s *scriptedChecker) Check(ctx context.Context, target string) domain.CheckOutcome {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.byURL[target]
	if !ok {
		out = domain.CheckOutcome{URL: target, Status: domain.StatusUp}
	}
	out.URL = target
	out.CheckedAt = time.Now().UTC()
	return out
}

func (s *scriptedChecker) set(url string, st domain.Status, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byURL[url] = domain.CheckOutcome{Status: st, Reason: reason, LatencyMS: 1}
}

func newTestRunner(t *testing.T, chk *scriptedChecker, urls []string, concurrency int) (*Runner, *bytes.Buffer) {
	t.Helper()
	st := state.NewStore(t.TempDir(), nil)
	em := report.NewEmitter(t.TempDir(), nil)
	buf := &bytes.Buffer{}
	em.Out = buf
	r := NewRunner(zap.NewNop(), chk, st, em, nil, urls, 2*time.Second, concurrency)
	return r, buf
}

// --- tests ---

func TestRunOnce_DownThenRecovery(t *testing.T) {
	chk := &scriptedChecker{byURL: map[string]domain.CheckOutcome{}}
	chk.set("https://a", domain.StatusDown, "HTTP 500")
	chk.set("https://b", domain.StatusUp, "")

	r, buf := newTestRunner(t, chk, []string{"https://a", "https://b"}, 0)
	ctx := context.Background()

	res := r.RunOnce(ctx)
	if !res.AnyDown {
		t.Fatalf("expected AnyDown on first pass")
	}
	if len(res.Alerts) != 1 || res.Alerts[0] != "DOWN: https://a (HTTP 500)" {
		t.Fatalf("unexpected alerts: %+v", res.Alerts)
	}
	if !strings.Contains(buf.String(), "DOWN: https://a (HTTP 500)") {
		t.Fatalf("alert line not printed: %q", buf.String())
	}

	snap, down := r.State.Load()
	if snap["https://a"] != domain.StatusDown || snap["https://b"] != domain.StatusUp {
		t.Fatalf("persisted snapshot wrong: %+v", snap)
	}
	if _, ok := down["https://a"]; !ok {
		t.Fatalf("down-since entry missing: %+v", down)
	}

	// Second pass: the down URL is healthy again.
	chk.set("https://a", domain.StatusUp, "")
	res = r.RunOnce(ctx)
	if res.AnyDown {
		t.Fatalf("no URL should be down on second pass")
	}
	if len(res.Recoveries) != 1 {
		t.Fatalf("expected one recovery, got %+v", res.Recoveries)
	}
	rec := res.Recoveries[0]
	if rec.URL != "https://a" || rec.RecoveredFrom != domain.StatusDown {
		t.Fatalf("unexpected recovery: %+v", rec)
	}
	if rec.DurationMS == nil || rec.IncidentStartedAt == nil {
		t.Fatalf("down recovery should carry incident duration: %+v", rec)
	}

	snap, down = r.State.Load()
	if snap["https://a"] != domain.StatusUp || len(down) != 0 {
		t.Fatalf("state not cleared after recovery: snap=%+v down=%+v", snap, down)
	}
}

func TestRunOnce_ProbesRunConcurrently(t *testing.T) {
	urls := []string{"https://a", "https://b", "https://c", "https://d"}
	chk := &scriptedChecker{byURL: map[string]domain.CheckOutcome{}, delay: 150 * time.Millisecond}

	r, _ := newTestRunner(t, chk, urls, 0)

	start := time.Now()
	r.RunOnce(context.Background())
	elapsed := time.Since(start)

	// Four serial probes would take 600ms; parallel ones roughly one delay.
	if elapsed > 450*time.Millisecond {
		t.Fatalf("probes appear serialized: %v", elapsed)
	}
}

func TestRunOnce_AlertOrderFollowsURLOrder(t *testing.T) {
	urls := []string{"https://a", "https://b", "https://c"}
	chk := &scriptedChecker{byURL: map[string]domain.CheckOutcome{}}
	for _, u := range urls {
		chk.set(u, domain.StatusDown, "Timeout")
	}

	r, _ := newTestRunner(t, chk, urls, 2)
	res := r.RunOnce(context.Background())

	want := []string{
		"DOWN: https://a (Timeout)",
		"DOWN: https://b (Timeout)",
		"DOWN: https://c (Timeout)",
	}
	if len(res.Alerts) != len(want) {
		t.Fatalf("want %d alerts, got %+v", len(want), res.Alerts)
	}
	for i := range want {
		if res.Alerts[i] != want[i] {
			t.Fatalf("alert %d out of order: got %q want %q", i, res.Alerts[i], want[i])
		}
	}
}

func TestRunOnce_RecordsHistory(t *testing.T) {
	chk := &scriptedChecker{byURL: map[string]domain.CheckOutcome{}}
	chk.set("https://a", domain.StatusUp, "")
	chk.set("https://b", domain.StatusDown, "HTTP 503")

	r, _ := newTestRunner(t, chk, []string{"https://a", "https://b"}, 0)
	hist := memory.New()
	r.History = hist

	r.RunOnce(context.Background())

	recs, err := hist.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("want 2 history records, got %d", len(recs))
	}
	if recs[0].RunID == "" || recs[0].RunID != recs[1].RunID {
		t.Fatalf("records should share one run id: %+v", recs)
	}
}
