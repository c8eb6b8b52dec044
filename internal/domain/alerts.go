package domain

import "time"

// RecoveryAlert records a URL returning to up. Recoveries from down
// carry the incident start and duration; recoveries from slow carry
// only the resolution time.
type RecoveryAlert struct {
	URL               string     `json:"url"`
	RecoveredFrom     Status     `json:"recoveredFrom"`
	IncidentStartedAt *time.Time `json:"incidentStartedAt,omitempty"`
	ResolvedAt        time.Time  `json:"resolvedAt"`
	DurationMS        *int64     `json:"durationMs,omitempty"`
	DurationText      string     `json:"durationText,omitempty"`
}

// SlowAlert records a URL slipping from up into slow.
type SlowAlert struct {
	URL        string    `json:"url"`
	LatencyMS  int64     `json:"timeMs"`
	DetectedAt time.Time `json:"detectedAt"`
}
