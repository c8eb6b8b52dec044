package memory

import (
	"context"
	"sync"
	"time"

	"github.com/harshil1002/website-monitor/internal/history"
)

type Store struct {
	mu      sync.RWMutex
	records []history.Record
}

func New() *Store {
	return &Store{records: make([]history.Record, 0, 128)}
}

func (m *Store) Append(ctx context.Context, recs []history.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recs...)
	return nil
}

func (m *Store) Recent(ctx context.Context, limit int) ([]history.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	out := make([]history.Record, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *Store) LatestByURL(ctx context.Context, url string) (*history.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].URL == url {
			r := m.records[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (m *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.records[:0]
	var deleted int64
	for _, r := range m.records {
		if r.CheckedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

func (m *Store) Close() error { return nil }
