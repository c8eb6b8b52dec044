package history

import (
	"context"
	"time"

	"github.com/harshil1002/website-monitor/internal/domain"
)

// Record is one probe outcome as kept in the run history.
type Record struct {
	RunID     string        `json:"runId"`
	URL       string        `json:"url"`
	Status    domain.Status `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	LatencyMS int64         `json:"latencyMs"`
	CheckedAt time.Time     `json:"checkedAt"`
}

// Ports (interfaces) — swap in any storage adapter later.
type Store interface {
	Append(ctx context.Context, recs []Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	LatestByURL(ctx context.Context, url string) (*Record, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
