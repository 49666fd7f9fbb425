package port

import (
	"context"
	"time"
)

// SearchEvent describes one executed search for analytics consumers.
type SearchEvent struct {
	TraceID      string    `json:"trace_id"`
	QueryText    string    `json:"query_text"`
	Town         string    `json:"town,omitempty"`
	Category     string    `json:"category,omitempty"`
	Brand        string    `json:"brand,omitempty"`
	VerifiedOnly bool      `json:"verified_only"`
	Total        int       `json:"total"`
	Degraded     bool      `json:"degraded"`
	DurationMs   int64     `json:"duration_ms"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// SearchEventsPort publishes search analytics events. Best effort only:
// publish failures must never affect the response.
type SearchEventsPort interface {
	PublishSearchPerformed(ctx context.Context, event SearchEvent) error
}
