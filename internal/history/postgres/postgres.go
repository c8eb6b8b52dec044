package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/domain"
	"github.com/harshil1002/website-monitor/internal/history"
)

var _ history.Store = (*Store)(nil)

// Store keeps probe history in Postgres, for deployments where several
// monitors share one database or the host filesystem is ephemeral.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS check_history (
  id         BIGSERIAL PRIMARY KEY,
  run_id     TEXT NOT NULL,
  url        TEXT NOT NULL,
  status     TEXT NOT NULL,
  reason     TEXT NULL,
  latency_ms BIGINT NOT NULL,
  checked_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_check_history_url        ON check_history (url, checked_at DESC);
CREATE INDEX IF NOT EXISTS idx_check_history_checked_at ON check_history (checked_at DESC);
`

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	// No query arguments, so pgx uses the simple protocol and the
	// multi-statement schema runs in one call.
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Append(ctx context.Context, recs []history.Record) error {
	for _, r := range recs {
		var reason *string
		if r.Reason != "" {
			reason = &r.Reason
		}
		_, err := s.pool.Exec(ctx,
			`INSERT INTO check_history
			   (run_id, url, status, reason, latency_ms, checked_at)
			 VALUES
			   ($1, $2, $3, $4, $5, $6)`,
			r.RunID, r.URL, string(r.Status), reason, r.LatencyMS, r.CheckedAt,
		)
		if err != nil {
			return fmt.Errorf("insert history record: %w", err)
		}
	}
	return nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, url, status, reason, latency_ms, checked_at
		   FROM check_history
		  ORDER BY checked_at DESC, id DESC
		  LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []history.Record
	for rows.Next() {
		var (
			r      history.Record
			status string
			reason *string
		)
		if err := rows.Scan(&r.RunID, &r.URL, &status, &reason, &r.LatencyMS, &r.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		r.Status = domain.Status(status)
		if reason != nil {
			r.Reason = *reason
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) LatestByURL(ctx context.Context, url string) (*history.Record, error) {
	var (
		r      history.Record
		status string
		reason *string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT run_id, url, status, reason, latency_ms, checked_at
		   FROM check_history
		  WHERE url = $1
		  ORDER BY checked_at DESC, id DESC
		  LIMIT 1`, url).
		Scan(&r.RunID, &r.URL, &status, &reason, &r.LatencyMS, &r.CheckedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest by url: %w", err)
	}
	r.Status = domain.Status(status)
	if reason != nil {
		r.Reason = *reason
	}
	return &r, nil
}

func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := s.pool.Exec(ctx,
		`DELETE FROM check_history WHERE checked_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete history records: %w", err)
	}
	deleted := ct.RowsAffected()
	s.log.Info("history_pruned",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted))
	return deleted, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
