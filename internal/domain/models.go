package domain

import "time"

// Status classifies an endpoint after a single check.
type Status string

const (
	StatusUp   Status = "up"
	StatusSlow Status = "slow"
	StatusDown Status = "down"
)

// CheckOutcome is the result of one check of one URL within a run.
type CheckOutcome struct {
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
	Reason    string    `json:"reason,omitempty"` // empty when up
	LatencyMS int64     `json:"latency_ms"`
	CheckedAt time.Time `json:"checked_at"`
}

// Snapshot maps each monitored URL to its last-known status. It is
// rebuilt wholesale every run, so URLs dropped from the monitored list
// disappear from it.
type Snapshot map[string]Status

// DownSince maps a URL to the start of its current outage. An entry
// exists only while the URL's snapshot status is down; the timestamp is
// set when the URL first goes down and kept as-is until recovery.
type DownSince map[string]time.Time
