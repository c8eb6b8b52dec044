package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/domain"
	"github.com/harshil1002/website-monitor/internal/history"
)

// Store keeps probe history in a SQLite database so it survives
// process restarts.
type Store struct {
	logger *zap.Logger
	db     *sql.DB
}

func New(logger *zap.Logger, path string) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{logger: logger, db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS check_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			url TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT,
			latency_ms INTEGER NOT NULL,
			checked_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_check_history_url ON check_history(url);
		CREATE INDEX IF NOT EXISTS idx_check_history_checked_at ON check_history(checked_at);
	`)
	if err != nil {
		return fmt.Errorf("initialize history database: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, recs []history.Record) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO check_history (run_id, url, status, reason, latency_ms, checked_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		_, err := stmt.ExecContext(ctx,
			r.RunID,
			r.URL,
			string(r.Status),
			sql.NullString{String: r.Reason, Valid: r.Reason != ""},
			r.LatencyMS,
			r.CheckedAt,
		)
		if err != nil {
			return fmt.Errorf("insert history record: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, url, status, reason, latency_ms, checked_at
		FROM check_history
		ORDER BY checked_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []history.Record
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return out, nil
}

func (s *Store) LatestByURL(ctx context.Context, url string) (*history.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, url, status, reason, latency_ms, checked_at
		FROM check_history
		WHERE url = ?
		ORDER BY checked_at DESC, id DESC
		LIMIT 1`, url)

	r, err := scanRecord(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM check_history WHERE checked_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete history records: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted history records: %w", err)
	}
	s.logger.Info("history_pruned",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", affected))
	return affected, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func scanRecord(scan func(...any) error) (history.Record, error) {
	var r history.Record
	var status string
	var reason sql.NullString

	if err := scan(&r.RunID, &r.URL, &status, &reason, &r.LatencyMS, &r.CheckedAt); err != nil {
		if err == sql.ErrNoRows {
			return r, err
		}
		return r, fmt.Errorf("scan history record: %w", err)
	}
	r.Status = domain.Status(status)
	if reason.Valid {
		r.Reason = reason.String
	}
	return r, nil
}
