package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// AddPlanned records a single planned event on an open day. Planning never
// creates the day row.
func (s *Service) AddPlanned(ctx context.Context, userID int64, in PlannedInput) (PlannedEvent, error) {
	kind, err := ParseEventKind(string(in.Kind))
	if err != nil {
		return PlannedEvent{}, err
	}
	in.Kind = kind
	if err := in.validate(); err != nil {
		return PlannedEvent{}, err
	}
	title, _ := requireText("title", in.Title)

	var out PlannedEvent
	err = s.mutate(ctx, userID, func(tx *txScope) error {
		if _, err := tx.requireOpen(ctx, userID, in.Date); err != nil {
			return err
		}
		ev := PlannedEvent{
			ID:               uuid.NewString(),
			UserID:           userID,
			Date:             in.Date,
			Time:             in.Time,
			Kind:             in.Kind,
			Title:            title,
			ExpectedCalories: in.ExpectedCalories,
			DurationMin:      in.DurationMin,
			Status:           StatusPlanned,
			Notes:            in.Notes,
			CreatedAt:        tx.now,
		}
		if err := tx.q.InsertPlanned(ctx, ev); err != nil {
			return fmt.Errorf("insert planned event: %w", err)
		}
		out = ev
		return nil
	})
	return out, err
}

// loadPlanned fetches the event and checks its day is open.
func (tx *txScope) loadPlanned(ctx context.Context, userID int64, id string) (*PlannedEvent, error) {
	ev, err := tx.q.GetPlanned(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load planned event: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: planned event %s", ErrNotFound, id)
	}
	if _, err := tx.requireOpen(ctx, userID, ev.Date); err != nil {
		return nil, err
	}
	return ev, nil
}

// MarkDone converts a planned event into an actual entry exactly once.
// Calling it again on a done event returns the existing entry with Replay set.
func (s *Service) MarkDone(ctx context.Context, userID int64, id string) (MarkDoneResult, error) {
	var out MarkDoneResult
	err := s.mutate(ctx, userID, func(tx *txScope) error {
		ev, err := tx.loadPlanned(ctx, userID, id)
		if err != nil {
			return err
		}
		t, err := nextStatus(ev.Status, actionMarkDone)
		if err != nil {
			return err
		}
		if t.noop {
			out = MarkDoneResult{Event: *ev, Replay: true}
			if ev.LinkedActualID != nil {
				out.ActualID = *ev.LinkedActualID
			}
			return nil
		}

		if err := tx.ensureOpenDay(ctx, userID, ev.Date); err != nil {
			return err
		}
		actualID, err := tx.insertFromPlanned(ctx, *ev)
		if err != nil {
			return err
		}
		ok, err := tx.q.SetPlannedStatus(ctx, userID, ev.ID, ev.Status, t.next, &actualID)
		if err != nil {
			return fmt.Errorf("update planned status: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: planned event %s changed concurrently", ErrInvalidTransition, ev.ID)
		}
		if _, err := tx.recompute(ctx, userID, ev.Date); err != nil {
			return err
		}

		ev.Status = t.next
		ev.LinkedActualID = &actualID
		tx.completed = append(tx.completed, ev.Kind)
		tx.emit(Event{Type: EventPlannedCompleted, UserID: userID, Date: ev.Date})
		out = MarkDoneResult{Event: *ev, ActualID: actualID}
		return nil
	})
	return out, err
}

// insertFromPlanned appends the meal or workout a done event stands for.
func (tx *txScope) insertFromPlanned(ctx context.Context, ev PlannedEvent) (string, error) {
	var calories float64
	if ev.ExpectedCalories != nil {
		calories = *ev.ExpectedCalories
	}
	provenance := plannedProvenance(ev.ID)
	id := uuid.NewString()
	eventID := ev.ID

	switch ev.Kind {
	case KindMeal:
		err := tx.q.InsertMeal(ctx, MealEntry{
			ID:             id,
			UserID:         ev.UserID,
			Date:           ev.Date,
			Time:           ev.Time,
			Description:    plannedPrefix + ev.Title,
			Calories:       calories,
			Provenance:     &provenance,
			PlannedEventID: &eventID,
			CreatedAt:      tx.now,
		})
		if err != nil {
			return "", fmt.Errorf("insert meal from planned event: %w", err)
		}
	case KindWorkout:
		err := tx.q.InsertWorkout(ctx, WorkoutEntry{
			ID:             id,
			UserID:         ev.UserID,
			Date:           ev.Date,
			Time:           ev.Time,
			Description:    plannedPrefix + ev.Title,
			DurationMin:    ev.DurationMin,
			Calories:       calories,
			Provenance:     &provenance,
			PlannedEventID: &eventID,
			CreatedAt:      tx.now,
		})
		if err != nil {
			return "", fmt.Errorf("insert workout from planned event: %w", err)
		}
	default:
		return "", fmt.Errorf("%w: unknown planned kind %q", ErrInvalidTransition, ev.Kind)
	}
	return id, nil
}

// SkipPlanned marks a planned event skipped. Done events cannot be skipped.
func (s *Service) SkipPlanned(ctx context.Context, userID int64, id string) (PlannedEvent, error) {
	var out PlannedEvent
	err := s.mutate(ctx, userID, func(tx *txScope) error {
		ev, err := tx.loadPlanned(ctx, userID, id)
		if err != nil {
			return err
		}
		t, err := nextStatus(ev.Status, actionSkip)
		if err != nil {
			return err
		}
		if !t.noop {
			ok, err := tx.q.SetPlannedStatus(ctx, userID, ev.ID, ev.Status, t.next, nil)
			if err != nil {
				return fmt.Errorf("update planned status: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w: planned event %s changed concurrently", ErrInvalidTransition, ev.ID)
			}
			ev.Status = t.next
		}
		out = *ev
		return nil
	})
	return out, err
}

// DeletePlanned removes a planned event. Deleting a done event also deletes
// the actual entry it produced and recomputes the day.
func (s *Service) DeletePlanned(ctx context.Context, userID int64, id string) error {
	return s.mutate(ctx, userID, func(tx *txScope) error {
		ev, err := tx.loadPlanned(ctx, userID, id)
		if err != nil {
			return err
		}
		t, err := nextStatus(ev.Status, actionDelete)
		if err != nil {
			return err
		}
		if t.cascade {
			if err := tx.deleteLinkedActual(ctx, *ev); err != nil {
				return err
			}
		}
		if _, err := tx.q.DeletePlanned(ctx, userID, ev.ID); err != nil {
			return fmt.Errorf("delete planned event: %w", err)
		}
		if t.cascade {
			if _, err := tx.recompute(ctx, userID, ev.Date); err != nil {
				return err
			}
		}
		return nil
	})
}

// deleteLinkedActual removes the meal or workout a done event produced.
func (tx *txScope) deleteLinkedActual(ctx context.Context, ev PlannedEvent) error {
	if ev.LinkedActualID == nil {
		return nil
	}
	var err error
	switch ev.Kind {
	case KindMeal:
		_, err = tx.q.DeleteMeal(ctx, ev.UserID, *ev.LinkedActualID)
	case KindWorkout:
		_, err = tx.q.DeleteWorkout(ctx, ev.UserID, *ev.LinkedActualID)
	}
	if err != nil {
		return fmt.Errorf("delete linked %s: %w", ev.Kind, err)
	}
	return nil
}
