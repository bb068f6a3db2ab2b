package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"lg/energy-ledger/internal/ledger"
)

const plannedColumns = `id, user_id, date, time_of_day, kind, title, expected_calories, duration_min,
	status, notes, linked_actual_id, created_at`

func (q *queries) InsertPlanned(ctx context.Context, e ledger.PlannedEvent) error {
	_, err := execAffected(ctx, q.db,
		`INSERT INTO planned_events (`+plannedColumns+`)
		 VALUES (@id, @userID, @date, @time, @kind, @title, @expectedCalories, @durationMin,
		   @status, @notes, @linkedActualID, @createdAt)`,
		pgx.NamedArgs{
			"id":               e.ID,
			"userID":           e.UserID,
			"date":             e.Date.String(),
			"time":             e.Time,
			"kind":             string(e.Kind),
			"title":            e.Title,
			"expectedCalories": e.ExpectedCalories,
			"durationMin":      e.DurationMin,
			"status":           string(e.Status),
			"notes":            e.Notes,
			"linkedActualID":   e.LinkedActualID,
			"createdAt":        e.CreatedAt,
		})
	return err
}

func (q *queries) GetPlanned(ctx context.Context, userID int64, id string) (*ledger.PlannedEvent, error) {
	return queryOptional[ledger.PlannedEvent](ctx, q.db,
		`SELECT `+plannedColumns+` FROM planned_events WHERE user_id = @userID AND id = @id`,
		pgx.NamedArgs{"userID": userID, "id": id})
}

func (q *queries) ListPlanned(ctx context.Context, userID int64, date ledger.DateOnly) ([]ledger.PlannedEvent, error) {
	return q.ListPlannedRange(ctx, userID, date, date)
}

func (q *queries) ListPlannedRange(ctx context.Context, userID int64, from, to ledger.DateOnly) ([]ledger.PlannedEvent, error) {
	return queryMany[ledger.PlannedEvent](ctx, q.db,
		`SELECT `+plannedColumns+` FROM planned_events
		 WHERE user_id = @userID AND date >= @from AND date <= @to
		 ORDER BY date ASC, time_of_day ASC, created_at ASC`,
		pgx.NamedArgs{"userID": userID, "from": from.String(), "to": to.String()})
}

// SetPlannedStatus is a compare-and-set on status: it only matches rows still
// in `from`, which is what makes mark-done single-shot.
func (q *queries) SetPlannedStatus(ctx context.Context, userID int64, id string, from, to ledger.PlannedStatus, linkedActualID *string) (bool, error) {
	n, err := execAffected(ctx, q.db,
		`UPDATE planned_events
		 SET status = @to, linked_actual_id = COALESCE(@linked, linked_actual_id)
		 WHERE user_id = @userID AND id = @id AND status = @from`,
		pgx.NamedArgs{
			"userID": userID,
			"id":     id,
			"from":   string(from),
			"to":     string(to),
			"linked": linkedActualID,
		})
	return n == 1, err
}

func (q *queries) DeletePlanned(ctx context.Context, userID int64, id string) (bool, error) {
	n, err := execAffected(ctx, q.db,
		`DELETE FROM planned_events WHERE user_id = @userID AND id = @id`,
		pgx.NamedArgs{"userID": userID, "id": id})
	return n > 0, err
}

func (q *queries) DeletePlannedRange(ctx context.Context, userID int64, from, to ledger.DateOnly) (int64, error) {
	return execAffected(ctx, q.db,
		`DELETE FROM planned_events WHERE user_id = @userID AND date >= @from AND date <= @to`,
		pgx.NamedArgs{"userID": userID, "from": from.String(), "to": to.String()})
}
