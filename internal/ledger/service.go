// Package ledger implements the daily energy ledger: day logs, actual meal and
// workout entries, planned events and the derived daily summaries.
package ledger

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"lg/energy-ledger/internal/observability"
)

// Service orchestrates ledger workflows. Every mutation runs in one
// transaction that ends by recomputing the affected day's summary, so a
// committed change always leaves the summary consistent with the logs.
type Service struct {
	store     Store
	publisher Publisher
	now       Clock
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets where committed-change events go. The default drops them.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides time.Now for timestamps and default entry times.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.now = c
		}
	}
}

// NewService constructs a Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: noopPublisher{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// txScope carries the transaction's Queries and collects what must happen
// after commit.
type txScope struct {
	q          Queries
	now        time.Time
	events     []Event
	recomputed []DailySummary
	completed  []EventKind
	weekEvents int
}

// mutate runs fn in a per-user transaction. Metrics and events are emitted
// only once the transaction has committed.
func (s *Service) mutate(ctx context.Context, userID int64, fn func(tx *txScope) error) error {
	scope := &txScope{now: s.now()}
	err := s.store.WithTx(ctx, userID, func(q Queries) error {
		scope.q = q
		return fn(scope)
	})
	if err != nil {
		observability.RecordMutationRejected(errorReason(err))
		return err
	}

	for _, sum := range scope.recomputed {
		observability.RecordSummaryRecomputed(sum.UpdatedAt)
	}
	for _, kind := range scope.completed {
		observability.RecordPlannedCompleted(string(kind))
	}
	if scope.weekEvents > 0 {
		observability.RecordWeekMaterialized(scope.weekEvents)
	}
	if len(scope.events) > 0 {
		if err := s.publisher.Publish(ctx, scope.events...); err != nil {
			log.Printf("[ledger.publish] user %d: %d event(s) not published: %v", userID, len(scope.events), err)
		}
	}
	return nil
}

func (tx *txScope) emit(e Event) {
	e.OccurredAt = tx.now
	tx.events = append(tx.events, e)
}

// requireOpen returns the day (nil when never written) or ErrDayClosed.
func (tx *txScope) requireOpen(ctx context.Context, userID int64, date DateOnly) (*Day, error) {
	day, err := tx.q.GetDay(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("load day %s: %w", date, err)
	}
	if day != nil && day.IsClosed {
		return day, closedDay(date)
	}
	return day, nil
}

// ensureOpenDay creates the day row on first write.
func (tx *txScope) ensureOpenDay(ctx context.Context, userID int64, date DateOnly) error {
	day, err := tx.requireOpen(ctx, userID, date)
	if err != nil {
		return err
	}
	if day != nil {
		return nil
	}
	if _, err := tx.q.UpsertDay(ctx, userID, date, DayPatch{}); err != nil {
		return fmt.Errorf("create day %s: %w", date, err)
	}
	return nil
}

// recompute rebuilds and overwrites the summary for (user, date).
func (tx *txScope) recompute(ctx context.Context, userID int64, date DateOnly) (DailySummary, error) {
	profile, err := tx.q.GetProfile(ctx, userID)
	if err != nil {
		return DailySummary{}, fmt.Errorf("load profile: %w", err)
	}
	day, err := tx.q.GetDay(ctx, userID, date)
	if err != nil {
		return DailySummary{}, fmt.Errorf("load day %s: %w", date, err)
	}
	meals, err := tx.q.ListMeals(ctx, userID, date)
	if err != nil {
		return DailySummary{}, fmt.Errorf("list meals %s: %w", date, err)
	}
	workouts, err := tx.q.ListWorkouts(ctx, userID, date)
	if err != nil {
		return DailySummary{}, fmt.Errorf("list workouts %s: %w", date, err)
	}

	summary, energy, err := ComputeSummary(SummaryInput{
		UserID:   userID,
		Date:     date,
		Profile:  profile,
		Day:      day,
		Meals:    meals,
		Workouts: workouts,
	}, tx.now)
	if err != nil {
		return DailySummary{}, err
	}
	if energy.ActivityLevelDefaulted {
		log.Printf("[recompute] user %d: activity level unset or unknown, using %q", userID, defaultActivityLevel)
	}

	if err := tx.q.UpsertSummary(ctx, summary); err != nil {
		return DailySummary{}, fmt.Errorf("upsert summary %s: %w", date, err)
	}
	tx.recomputed = append(tx.recomputed, summary)
	tx.emit(Event{Type: EventSummaryRecomputed, UserID: userID, Date: date, Summary: &summary})
	return summary, nil
}

// Recompute rebuilds the summary for one open day.
func (s *Service) Recompute(ctx context.Context, userID int64, date DateOnly) (DailySummary, error) {
	var out DailySummary
	err := s.mutate(ctx, userID, func(tx *txScope) error {
		if _, err := tx.requireOpen(ctx, userID, date); err != nil {
			return err
		}
		sum, err := tx.recompute(ctx, userID, date)
		out = sum
		return err
	})
	return out, err
}

// RefreshSummaries recomputes every open logged day in [from, to], e.g. after
// a profile change. Closed days keep their final snapshot.
func (s *Service) RefreshSummaries(ctx context.Context, userID int64, from, to DateOnly) ([]DailySummary, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	var out []DailySummary
	err := s.mutate(ctx, userID, func(tx *txScope) error {
		days, err := tx.q.ListDays(ctx, userID, from, to)
		if err != nil {
			return fmt.Errorf("list days: %w", err)
		}
		for _, d := range days {
			if d.IsClosed {
				continue
			}
			sum, err := tx.recompute(ctx, userID, d.Date)
			if err != nil {
				return err
			}
			out = append(out, sum)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

/* ─── Validation helpers ─────────────────────────────────────────────── */

const maxRangeDays = 366

// validateRange rejects inverted or oversized date ranges.
func validateRange(from, to DateOnly) error {
	if to.Before(from.Time) {
		return invalidf("end %s is before start %s", to, from)
	}
	if to.Sub(from.Time) > maxRangeDays*24*time.Hour {
		return invalidf("range %s..%s exceeds %d days", from, to, maxRangeDays)
	}
	return nil
}

// validateClock accepts a 24h HH:MM time of day.
func validateClock(s string) error {
	if len(s) != 5 {
		return invalidf("time %q must be HH:MM", s)
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return invalidf("time %q must be HH:MM", s)
	}
	return nil
}

func requireText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalidf("%s is required", field)
	}
	return s, nil
}
