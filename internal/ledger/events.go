package ledger

import (
	"context"
	"time"
)

// Event types published after a mutation commits.
const (
	EventSummaryRecomputed = "ledger.summary_recomputed"
	EventDayClosed         = "ledger.day_closed"
	EventDayReopened       = "ledger.day_reopened"
	EventPlannedCompleted  = "ledger.planned_completed"
	EventWeekMaterialized  = "ledger.week_materialized"
)

// Event is a notification about a committed ledger change. Consumers must
// treat it as a hint and read the ledger for current state.
type Event struct {
	Type       string        `json:"type"`
	UserID     int64         `json:"user_id"`
	Date       DateOnly      `json:"date"`
	Summary    *DailySummary `json:"summary,omitempty"`
	Count      int           `json:"count,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Publisher delivers events. Publish failures never roll back a committed change.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...Event) error { return nil }
