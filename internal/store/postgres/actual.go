package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"lg/energy-ledger/internal/ledger"
)

const mealColumns = `id, user_id, date, time_of_day, description, calories, provenance, planned_event_id, created_at`

func (q *queries) InsertMeal(ctx context.Context, m ledger.MealEntry) error {
	_, err := execAffected(ctx, q.db,
		`INSERT INTO meals (`+mealColumns+`)
		 VALUES (@id, @userID, @date, @time, @description, @calories, @provenance, @plannedEventID, @createdAt)`,
		pgx.NamedArgs{
			"id":             m.ID,
			"userID":         m.UserID,
			"date":           m.Date.String(),
			"time":           m.Time,
			"description":    m.Description,
			"calories":       m.Calories,
			"provenance":     m.Provenance,
			"plannedEventID": m.PlannedEventID,
			"createdAt":      m.CreatedAt,
		})
	return err
}

func (q *queries) GetMeal(ctx context.Context, userID int64, id string) (*ledger.MealEntry, error) {
	return queryOptional[ledger.MealEntry](ctx, q.db,
		`SELECT `+mealColumns+` FROM meals WHERE user_id = @userID AND id = @id`,
		pgx.NamedArgs{"userID": userID, "id": id})
}

func (q *queries) DeleteMeal(ctx context.Context, userID int64, id string) (bool, error) {
	n, err := execAffected(ctx, q.db,
		`DELETE FROM meals WHERE user_id = @userID AND id = @id`,
		pgx.NamedArgs{"userID": userID, "id": id})
	return n > 0, err
}

func (q *queries) ListMeals(ctx context.Context, userID int64, date ledger.DateOnly) ([]ledger.MealEntry, error) {
	return queryMany[ledger.MealEntry](ctx, q.db,
		`SELECT `+mealColumns+` FROM meals
		 WHERE user_id = @userID AND date = @date
		 ORDER BY time_of_day ASC, created_at ASC`,
		pgx.NamedArgs{"userID": userID, "date": date.String()})
}

const workoutColumns = `id, user_id, date, time_of_day, description, duration_min, calories_burned,
	provenance, planned_event_id, created_at`

func (q *queries) InsertWorkout(ctx context.Context, w ledger.WorkoutEntry) error {
	_, err := execAffected(ctx, q.db,
		`INSERT INTO workouts (`+workoutColumns+`)
		 VALUES (@id, @userID, @date, @time, @description, @durationMin, @calories,
		   @provenance, @plannedEventID, @createdAt)`,
		pgx.NamedArgs{
			"id":             w.ID,
			"userID":         w.UserID,
			"date":           w.Date.String(),
			"time":           w.Time,
			"description":    w.Description,
			"durationMin":    w.DurationMin,
			"calories":       w.Calories,
			"provenance":     w.Provenance,
			"plannedEventID": w.PlannedEventID,
			"createdAt":      w.CreatedAt,
		})
	return err
}

func (q *queries) GetWorkout(ctx context.Context, userID int64, id string) (*ledger.WorkoutEntry, error) {
	return queryOptional[ledger.WorkoutEntry](ctx, q.db,
		`SELECT `+workoutColumns+` FROM workouts WHERE user_id = @userID AND id = @id`,
		pgx.NamedArgs{"userID": userID, "id": id})
}

func (q *queries) DeleteWorkout(ctx context.Context, userID int64, id string) (bool, error) {
	n, err := execAffected(ctx, q.db,
		`DELETE FROM workouts WHERE user_id = @userID AND id = @id`,
		pgx.NamedArgs{"userID": userID, "id": id})
	return n > 0, err
}

func (q *queries) ListWorkouts(ctx context.Context, userID int64, date ledger.DateOnly) ([]ledger.WorkoutEntry, error) {
	return queryMany[ledger.WorkoutEntry](ctx, q.db,
		`SELECT `+workoutColumns+` FROM workouts
		 WHERE user_id = @userID AND date = @date
		 ORDER BY time_of_day ASC, created_at ASC`,
		pgx.NamedArgs{"userID": userID, "date": date.String()})
}
