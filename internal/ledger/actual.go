package ledger

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// MealInput is a meal logged by the user. Calories come from the user or the
// estimation oracle; Provenance is stored as given.
type MealInput struct {
	Date        DateOnly
	Time        string
	Description string
	Calories    float64
	Provenance  *string
}

// WorkoutInput is a workout logged by the user. Calories is the positive burn.
type WorkoutInput struct {
	Date        DateOnly
	Time        string
	Description string
	DurationMin *int
	Calories    float64
	Provenance  *string
}

// EntryResult is an inserted entry id plus the recomputed summary for its day.
type EntryResult struct {
	ID      string       `json:"id"`
	Summary DailySummary `json:"summary"`
}

// validCalories rejects negative, NaN and infinite values.
func validCalories(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return invalidf("%s must be a finite number >= 0", field)
	}
	return nil
}

func (s *Service) entryClock(t string) (string, error) {
	if t == "" {
		return s.now().Format("15:04"), nil
	}
	return t, validateClock(t)
}

// InsertMeal appends a meal to an open day and recomputes the day.
func (s *Service) InsertMeal(ctx context.Context, userID int64, in MealInput) (EntryResult, error) {
	desc, err := requireText("description", in.Description)
	if err != nil {
		return EntryResult{}, err
	}
	if err := validCalories("calories", in.Calories); err != nil {
		return EntryResult{}, err
	}
	clock, err := s.entryClock(in.Time)
	if err != nil {
		return EntryResult{}, err
	}

	var out EntryResult
	err = s.mutate(ctx, userID, func(tx *txScope) error {
		if err := tx.ensureOpenDay(ctx, userID, in.Date); err != nil {
			return err
		}
		meal := MealEntry{
			ID:          uuid.NewString(),
			UserID:      userID,
			Date:        in.Date,
			Time:        clock,
			Description: desc,
			Calories:    in.Calories,
			Provenance:  in.Provenance,
			CreatedAt:   tx.now,
		}
		if err := tx.q.InsertMeal(ctx, meal); err != nil {
			return fmt.Errorf("insert meal: %w", err)
		}
		sum, err := tx.recompute(ctx, userID, in.Date)
		if err != nil {
			return err
		}
		out = EntryResult{ID: meal.ID, Summary: sum}
		return nil
	})
	return out, err
}

// InsertWorkout appends a workout to an open day and recomputes the day.
func (s *Service) InsertWorkout(ctx context.Context, userID int64, in WorkoutInput) (EntryResult, error) {
	desc, err := requireText("description", in.Description)
	if err != nil {
		return EntryResult{}, err
	}
	if err := validCalories("calories_burned", in.Calories); err != nil {
		return EntryResult{}, err
	}
	if in.DurationMin != nil && *in.DurationMin <= 0 {
		return EntryResult{}, invalidf("duration_min must be > 0")
	}
	clock, err := s.entryClock(in.Time)
	if err != nil {
		return EntryResult{}, err
	}

	var out EntryResult
	err = s.mutate(ctx, userID, func(tx *txScope) error {
		if err := tx.ensureOpenDay(ctx, userID, in.Date); err != nil {
			return err
		}
		workout := WorkoutEntry{
			ID:          uuid.NewString(),
			UserID:      userID,
			Date:        in.Date,
			Time:        clock,
			Description: desc,
			DurationMin: in.DurationMin,
			Calories:    in.Calories,
			Provenance:  in.Provenance,
			CreatedAt:   tx.now,
		}
		if err := tx.q.InsertWorkout(ctx, workout); err != nil {
			return fmt.Errorf("insert workout: %w", err)
		}
		sum, err := tx.recompute(ctx, userID, in.Date)
		if err != nil {
			return err
		}
		out = EntryResult{ID: workout.ID, Summary: sum}
		return nil
	})
	return out, err
}

// DeleteMeal removes a meal from an open day and recomputes the day. Meals
// logged by MarkDone belong to their planned event and go with DeletePlanned.
func (s *Service) DeleteMeal(ctx context.Context, userID int64, id string) (DailySummary, error) {
	var out DailySummary
	err := s.mutate(ctx, userID, func(tx *txScope) error {
		meal, err := tx.q.GetMeal(ctx, userID, id)
		if err != nil {
			return fmt.Errorf("load meal: %w", err)
		}
		if meal == nil {
			return fmt.Errorf("%w: meal %s", ErrNotFound, id)
		}
		if _, err := tx.requireOpen(ctx, userID, meal.Date); err != nil {
			return err
		}
		if meal.PlannedEventID != nil {
			return fmt.Errorf("%w: meal %s was logged from planned event %s; delete the event instead",
				ErrInvalidTransition, id, *meal.PlannedEventID)
		}
		if _, err := tx.q.DeleteMeal(ctx, userID, id); err != nil {
			return fmt.Errorf("delete meal: %w", err)
		}
		out, err = tx.recompute(ctx, userID, meal.Date)
		return err
	})
	return out, err
}

// DeleteWorkout removes a workout from an open day and recomputes the day.
// Workouts logged by MarkDone are removed through DeletePlanned.
func (s *Service) DeleteWorkout(ctx context.Context, userID int64, id string) (DailySummary, error) {
	var out DailySummary
	err := s.mutate(ctx, userID, func(tx *txScope) error {
		workout, err := tx.q.GetWorkout(ctx, userID, id)
		if err != nil {
			return fmt.Errorf("load workout: %w", err)
		}
		if workout == nil {
			return fmt.Errorf("%w: workout %s", ErrNotFound, id)
		}
		if _, err := tx.requireOpen(ctx, userID, workout.Date); err != nil {
			return err
		}
		if workout.PlannedEventID != nil {
			return fmt.Errorf("%w: workout %s was logged from planned event %s; delete the event instead",
				ErrInvalidTransition, id, *workout.PlannedEventID)
		}
		if _, err := tx.q.DeleteWorkout(ctx, userID, id); err != nil {
			return fmt.Errorf("delete workout: %w", err)
		}
		out, err = tx.recompute(ctx, userID, workout.Date)
		return err
	})
	return out, err
}
