package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/domain"
	"github.com/harshil1002/website-monitor/internal/history"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s, err := New(ctx, dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresStore_AppendRecentLatestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Isolate from previous test runs.
	if _, err := s.DeleteBefore(ctx, time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	t0 := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	err := s.Append(ctx, []history.Record{
		{RunID: "r1", URL: "https://a", Status: domain.StatusDown, Reason: "HTTP 500", LatencyMS: 80, CheckedAt: t0},
		{RunID: "r2", URL: "https://a", Status: domain.StatusUp, LatencyMS: 70, CheckedAt: t0.Add(time.Minute)},
		{RunID: "r2", URL: "https://b", Status: domain.StatusSlow, Reason: "Slow (2500ms)", LatencyMS: 2500, CheckedAt: t0.Add(time.Minute)},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	recs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 records, got %d", len(recs))
	}
	if recs[0].RunID != "r2" {
		t.Fatalf("newest first expected, got %+v", recs[0])
	}

	latest, err := s.LatestByURL(ctx, "https://a")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Status != domain.StatusUp || latest.Reason != "" {
		t.Fatalf("unexpected latest: %+v", latest)
	}

	missing, err := s.LatestByURL(ctx, "https://never-seen")
	if err != nil {
		t.Fatalf("latest missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("want nil for unknown url, got %+v", missing)
	}

	deleted, err := s.DeleteBefore(ctx, t0.Add(30*time.Second))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("want 1 deleted, got %d", deleted)
	}
}
