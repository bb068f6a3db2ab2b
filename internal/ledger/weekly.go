package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// WeekPlanInput asks for a week of planned events starting on WeekStart.
// PlanText is the narrative to store; when empty, the week's cached narrative
// is reused.
type WeekPlanInput struct {
	WeekStart DateOnly
	Workouts  []WorkoutSlot
	PlanText  string
}

// WeekResult is the materialized week. PriorWeek is informational only.
type WeekResult struct {
	WeekStart      DateOnly       `json:"week_start"`
	ISOYear        int            `json:"iso_year"`
	ISOWeek        int            `json:"iso_week"`
	RestCalories   float64        `json:"rest_calories"`
	TargetIntake   float64        `json:"target_intake"`
	MealAllocation []float64      `json:"meal_allocation"`
	Plan           WeeklyPlan     `json:"plan"`
	Events         []PlannedEvent `json:"events"`
	PriorWeek      []DailySummary `json:"prior_week"`
}

// MaterializeWeek replaces every planned event in the week with four meal
// slots per day plus the given workouts. Running it twice with the same input
// yields the same events apart from ids and timestamps.
func (s *Service) MaterializeWeek(ctx context.Context, userID int64, in WeekPlanInput) (WeekResult, error) {
	if err := validateWeek(in.WeekStart, in.Workouts); err != nil {
		return WeekResult{}, err
	}
	weekEnd := in.WeekStart.AddDays(6)
	isoYear, isoWeek := in.WeekStart.ISOWeek()

	var out WeekResult
	err := s.mutate(ctx, userID, func(tx *txScope) error {
		profile, err := tx.q.GetProfile(ctx, userID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		energy, target, err := DailyTarget(profile)
		if err != nil {
			return err
		}

		days, err := tx.q.ListDays(ctx, userID, in.WeekStart, weekEnd)
		if err != nil {
			return fmt.Errorf("list days: %w", err)
		}
		for _, d := range days {
			if d.IsClosed {
				return closedDay(d.Date)
			}
		}

		text := strings.TrimSpace(in.PlanText)
		if text == "" {
			cached, err := tx.q.GetWeeklyPlan(ctx, userID, isoYear, isoWeek)
			if err != nil {
				return fmt.Errorf("load weekly plan: %w", err)
			}
			if cached != nil {
				text = cached.Content
			} else {
				text = defaultPlanText(profile.GoalType, energy.RestCalories, target, in.Workouts)
			}
		}

		// Done events take their actual entries with them, as in DeletePlanned.
		existing, err := tx.q.ListPlannedRange(ctx, userID, in.WeekStart, weekEnd)
		if err != nil {
			return fmt.Errorf("list planned week: %w", err)
		}
		var touched []DateOnly
		for _, ev := range existing {
			t, err := nextStatus(ev.Status, actionDelete)
			if err != nil {
				return err
			}
			if !t.cascade {
				continue
			}
			if err := tx.deleteLinkedActual(ctx, ev); err != nil {
				return err
			}
			if !slices.ContainsFunc(touched, func(d DateOnly) bool { return d.Equal(ev.Date.Time) }) {
				touched = append(touched, ev.Date)
			}
		}
		if _, err := tx.q.DeletePlannedRange(ctx, userID, in.WeekStart, weekEnd); err != nil {
			return fmt.Errorf("clear planned week: %w", err)
		}
		for _, d := range touched {
			if _, err := tx.recompute(ctx, userID, d); err != nil {
				return err
			}
		}
		events := PlanWeek(in.WeekStart, target, in.Workouts, text)
		for i := range events {
			events[i].ID = uuid.NewString()
			events[i].UserID = userID
			events[i].CreatedAt = tx.now
			if err := tx.q.InsertPlanned(ctx, events[i]); err != nil {
				return fmt.Errorf("insert planned event: %w", err)
			}
		}

		plan := WeeklyPlan{UserID: userID, ISOYear: isoYear, ISOWeek: isoWeek, Content: text, CreatedAt: tx.now}
		if err := tx.q.UpsertWeeklyPlan(ctx, plan); err != nil {
			return fmt.Errorf("upsert weekly plan: %w", err)
		}

		prior, err := tx.q.ListSummaries(ctx, userID, in.WeekStart.AddDays(-7), in.WeekStart.AddDays(-1))
		if err != nil {
			return fmt.Errorf("list prior week summaries: %w", err)
		}

		tx.weekEvents = len(events)
		tx.emit(Event{Type: EventWeekMaterialized, UserID: userID, Date: in.WeekStart, Count: len(events)})
		out = WeekResult{
			WeekStart:      in.WeekStart,
			ISOYear:        isoYear,
			ISOWeek:        isoWeek,
			RestCalories:   energy.RestCalories,
			TargetIntake:   target,
			MealAllocation: AllocateMeals(target),
			Plan:           plan,
			Events:         events,
			PriorWeek:      prior,
		}
		return nil
	})
	return out, err
}

// GetWeeklyPlan returns the stored narrative for the ISO week containing date.
func (s *Service) GetWeeklyPlan(ctx context.Context, userID int64, date DateOnly) (WeeklyPlan, error) {
	isoYear, isoWeek := date.ISOWeek()
	plan, err := s.store.GetWeeklyPlan(ctx, userID, isoYear, isoWeek)
	if err != nil {
		return WeeklyPlan{}, fmt.Errorf("load weekly plan: %w", err)
	}
	if plan == nil {
		return WeeklyPlan{}, fmt.Errorf("%w: no plan for %d-W%02d", ErrNotFound, isoYear, isoWeek)
	}
	return *plan, nil
}
