package ledger

import (
	"context"
	"fmt"
)

const maxMorningWeightKG = 500.0

// DayLogInput is a partial update of a day. Nil fields are left unchanged.
type DayLogInput struct {
	MorningWeight *float64
	IsClosed      *bool
}

// DayResult is the day row after an update plus its current summary.
type DayResult struct {
	Day     Day           `json:"day"`
	Summary *DailySummary `json:"summary"`
}

// UpsertDayLog sets the morning weight and/or the closed flag.
//
// A closed day accepts only reopening, or a request that changes nothing.
// Closing recomputes first so the closed snapshot is final; reopening leaves
// the cached summary in place.
func (s *Service) UpsertDayLog(ctx context.Context, userID int64, date DateOnly, in DayLogInput) (DayResult, error) {
	if w := in.MorningWeight; w != nil && !(*w > 0 && *w <= maxMorningWeightKG) {
		return DayResult{}, invalidf("morning_weight must be in (0, %.0f] kg", maxMorningWeightKG)
	}

	var out DayResult
	err := s.mutate(ctx, userID, func(tx *txScope) error {
		existing, err := tx.q.GetDay(ctx, userID, date)
		if err != nil {
			return fmt.Errorf("load day %s: %w", date, err)
		}

		if existing != nil && existing.IsClosed {
			if in.MorningWeight != nil && !sameWeight(existing.MorningWeight, in.MorningWeight) {
				return closedDay(date)
			}
			reopen := in.IsClosed != nil && !*in.IsClosed
			if reopen {
				day, err := tx.q.UpsertDay(ctx, userID, date, DayPatch{IsClosed: in.IsClosed})
				if err != nil {
					return fmt.Errorf("reopen day %s: %w", date, err)
				}
				existing = &day
				tx.emit(Event{Type: EventDayReopened, UserID: userID, Date: date})
			}
			sum, err := tx.q.GetSummary(ctx, userID, date)
			if err != nil {
				return fmt.Errorf("load summary %s: %w", date, err)
			}
			out = DayResult{Day: *existing, Summary: sum}
			return nil
		}

		closing := in.IsClosed != nil && *in.IsClosed
		if in.MorningWeight == nil && !closing {
			// Nothing to change on an open day.
			day := Day{UserID: userID, Date: date}
			if existing != nil {
				day = *existing
			}
			sum, err := tx.q.GetSummary(ctx, userID, date)
			if err != nil {
				return fmt.Errorf("load summary %s: %w", date, err)
			}
			out = DayResult{Day: day, Summary: sum}
			return nil
		}

		day, err := tx.q.UpsertDay(ctx, userID, date, DayPatch{MorningWeight: in.MorningWeight, IsClosed: in.IsClosed})
		if err != nil {
			return fmt.Errorf("upsert day %s: %w", date, err)
		}
		sum, err := tx.recompute(ctx, userID, date)
		if err != nil {
			return err
		}
		if day.IsClosed {
			tx.emit(Event{Type: EventDayClosed, UserID: userID, Date: date, Summary: &sum})
		}
		out = DayResult{Day: day, Summary: &sum}
		return nil
	})
	return out, err
}

func sameWeight(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SetMorningWeight records the morning weight for an open day.
func (s *Service) SetMorningWeight(ctx context.Context, userID int64, date DateOnly, weightKG float64) (DayResult, error) {
	return s.UpsertDayLog(ctx, userID, date, DayLogInput{MorningWeight: &weightKG})
}

// CloseDay finalizes the day. Closing a closed day is a no-op.
func (s *Service) CloseDay(ctx context.Context, userID int64, date DateOnly) (DayResult, error) {
	closed := true
	return s.UpsertDayLog(ctx, userID, date, DayLogInput{IsClosed: &closed})
}

// ReopenDay makes a closed day editable again. Reopening an open day is a no-op.
func (s *Service) ReopenDay(ctx context.Context, userID int64, date DateOnly) (DayResult, error) {
	open := false
	return s.UpsertDayLog(ctx, userID, date, DayLogInput{IsClosed: &open})
}
