package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"lg/energy-ledger/internal/ledger"
)

/* ─── Meals ──────────────────────────────────────────────────────────── */

const mealColumns = `id, user_id, date, time_of_day, description, calories, provenance, planned_event_id, created_at`

func scanMeal(s scanner) (ledger.MealEntry, error) {
	var (
		m                   ledger.MealEntry
		date, createdAt     string
		provenance, planned sql.NullString
	)
	if err := s.Scan(&m.ID, &m.UserID, &date, &m.Time, &m.Description, &m.Calories,
		&provenance, &planned, &createdAt); err != nil {
		return ledger.MealEntry{}, err
	}
	var err error
	if m.Date, err = parseDate(date); err != nil {
		return ledger.MealEntry{}, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return ledger.MealEntry{}, err
	}
	m.Provenance = stringPtr(provenance)
	m.PlannedEventID = stringPtr(planned)
	return m, nil
}

func (q *queries) InsertMeal(ctx context.Context, m ledger.MealEntry) error {
	_, err := q.db.ExecContext(ctx, `INSERT INTO meals(`+mealColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Date.String(), m.Time, m.Description, m.Calories,
		m.Provenance, m.PlannedEventID, formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

func (q *queries) GetMeal(ctx context.Context, userID int64, id string) (*ledger.MealEntry, error) {
	m, err := optional[ledger.MealEntry](scanMeal(q.db.QueryRowContext(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE user_id = ? AND id = ?`, userID, id)))
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}

func (q *queries) DeleteMeal(ctx context.Context, userID int64, id string) (bool, error) {
	n, err := affected(q.db.ExecContext(ctx, `DELETE FROM meals WHERE user_id = ? AND id = ?`, userID, id))
	if err != nil {
		return false, fmt.Errorf("delete meal: %w", err)
	}
	return n > 0, nil
}

func (q *queries) ListMeals(ctx context.Context, userID int64, date ledger.DateOnly) ([]ledger.MealEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE user_id = ? AND date = ? ORDER BY time_of_day ASC, created_at ASC`,
		userID, date.String())
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return collect(rows, scanMeal)
}

/* ─── Workouts ───────────────────────────────────────────────────────── */

const workoutColumns = `id, user_id, date, time_of_day, description, duration_min, calories_burned,
  provenance, planned_event_id, created_at`

func scanWorkout(s scanner) (ledger.WorkoutEntry, error) {
	var (
		w                   ledger.WorkoutEntry
		date, createdAt     string
		duration            sql.NullInt64
		provenance, planned sql.NullString
	)
	if err := s.Scan(&w.ID, &w.UserID, &date, &w.Time, &w.Description, &duration, &w.Calories,
		&provenance, &planned, &createdAt); err != nil {
		return ledger.WorkoutEntry{}, err
	}
	var err error
	if w.Date, err = parseDate(date); err != nil {
		return ledger.WorkoutEntry{}, err
	}
	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return ledger.WorkoutEntry{}, err
	}
	w.DurationMin = intPtr(duration)
	w.Provenance = stringPtr(provenance)
	w.PlannedEventID = stringPtr(planned)
	return w, nil
}

func (q *queries) InsertWorkout(ctx context.Context, w ledger.WorkoutEntry) error {
	_, err := q.db.ExecContext(ctx, `INSERT INTO workouts(`+workoutColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.Date.String(), w.Time, w.Description, w.DurationMin, w.Calories,
		w.Provenance, w.PlannedEventID, formatTime(w.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}
	return nil
}

func (q *queries) GetWorkout(ctx context.Context, userID int64, id string) (*ledger.WorkoutEntry, error) {
	w, err := optional[ledger.WorkoutEntry](scanWorkout(q.db.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE user_id = ? AND id = ?`, userID, id)))
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}
	return w, nil
}

func (q *queries) DeleteWorkout(ctx context.Context, userID int64, id string) (bool, error) {
	n, err := affected(q.db.ExecContext(ctx, `DELETE FROM workouts WHERE user_id = ? AND id = ?`, userID, id))
	if err != nil {
		return false, fmt.Errorf("delete workout: %w", err)
	}
	return n > 0, nil
}

func (q *queries) ListWorkouts(ctx context.Context, userID int64, date ledger.DateOnly) ([]ledger.WorkoutEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE user_id = ? AND date = ? ORDER BY time_of_day ASC, created_at ASC`,
		userID, date.String())
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return collect(rows, scanWorkout)
}

/* ─── Planned events ─────────────────────────────────────────────────── */

const plannedColumns = `id, user_id, date, time_of_day, kind, title, expected_calories, duration_min,
  status, notes, linked_actual_id, created_at`

func scanPlanned(s scanner) (ledger.PlannedEvent, error) {
	var (
		e                             ledger.PlannedEvent
		date, kind, status, createdAt string
		expected                      sql.NullFloat64
		duration                      sql.NullInt64
		linked                        sql.NullString
	)
	if err := s.Scan(&e.ID, &e.UserID, &date, &e.Time, &kind, &e.Title, &expected, &duration,
		&status, &e.Notes, &linked, &createdAt); err != nil {
		return ledger.PlannedEvent{}, err
	}
	var err error
	if e.Date, err = parseDate(date); err != nil {
		return ledger.PlannedEvent{}, err
	}
	if e.Kind, err = ledger.ParseEventKind(kind); err != nil {
		return ledger.PlannedEvent{}, err
	}
	if e.Status, err = ledger.ParsePlannedStatus(status); err != nil {
		return ledger.PlannedEvent{}, err
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return ledger.PlannedEvent{}, err
	}
	e.ExpectedCalories = floatPtr(expected)
	e.DurationMin = intPtr(duration)
	e.LinkedActualID = stringPtr(linked)
	return e, nil
}

func (q *queries) InsertPlanned(ctx context.Context, e ledger.PlannedEvent) error {
	_, err := q.db.ExecContext(ctx, `INSERT INTO planned_events(`+plannedColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Date.String(), e.Time, string(e.Kind), e.Title, e.ExpectedCalories, e.DurationMin,
		string(e.Status), e.Notes, e.LinkedActualID, formatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert planned event: %w", err)
	}
	return nil
}

func (q *queries) GetPlanned(ctx context.Context, userID int64, id string) (*ledger.PlannedEvent, error) {
	e, err := optional[ledger.PlannedEvent](scanPlanned(q.db.QueryRowContext(ctx,
		`SELECT `+plannedColumns+` FROM planned_events WHERE user_id = ? AND id = ?`, userID, id)))
	if err != nil {
		return nil, fmt.Errorf("get planned event: %w", err)
	}
	return e, nil
}

func (q *queries) ListPlanned(ctx context.Context, userID int64, date ledger.DateOnly) ([]ledger.PlannedEvent, error) {
	return q.ListPlannedRange(ctx, userID, date, date)
}

func (q *queries) ListPlannedRange(ctx context.Context, userID int64, from, to ledger.DateOnly) ([]ledger.PlannedEvent, error) {
	rows, err := q.db.QueryContext(ctx, `
SELECT `+plannedColumns+` FROM planned_events
WHERE user_id = ? AND date >= ? AND date <= ?
ORDER BY date ASC, time_of_day ASC, created_at ASC, rowid ASC`,
		userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list planned events: %w", err)
	}
	return collect(rows, scanPlanned)
}

func (q *queries) SetPlannedStatus(ctx context.Context, userID int64, id string, from, to ledger.PlannedStatus, linkedActualID *string) (bool, error) {
	n, err := affected(q.db.ExecContext(ctx, `
UPDATE planned_events
SET status = ?, linked_actual_id = COALESCE(?, linked_actual_id)
WHERE user_id = ? AND id = ? AND status = ?`,
		string(to), linkedActualID, userID, id, string(from)))
	if err != nil {
		return false, fmt.Errorf("set planned status: %w", err)
	}
	return n == 1, nil
}

func (q *queries) DeletePlanned(ctx context.Context, userID int64, id string) (bool, error) {
	n, err := affected(q.db.ExecContext(ctx, `DELETE FROM planned_events WHERE user_id = ? AND id = ?`, userID, id))
	if err != nil {
		return false, fmt.Errorf("delete planned event: %w", err)
	}
	return n > 0, nil
}

func (q *queries) DeletePlannedRange(ctx context.Context, userID int64, from, to ledger.DateOnly) (int64, error) {
	n, err := affected(q.db.ExecContext(ctx,
		`DELETE FROM planned_events WHERE user_id = ? AND date >= ? AND date <= ?`,
		userID, from.String(), to.String()))
	if err != nil {
		return 0, fmt.Errorf("delete planned range: %w", err)
	}
	return n, nil
}

/* ─── Summaries and weekly plans ─────────────────────────────────────── */

const summaryColumns = `user_id, date, calories_in, rest_calories, workout_calories, calories_out, net_calories, updated_at`

func scanSummary(s scanner) (ledger.DailySummary, error) {
	var (
		sum             ledger.DailySummary
		date, updatedAt string
	)
	if err := s.Scan(&sum.UserID, &date, &sum.CaloriesIn, &sum.RestCalories, &sum.WorkoutCalories,
		&sum.CaloriesOut, &sum.NetCalories, &updatedAt); err != nil {
		return ledger.DailySummary{}, err
	}
	var err error
	if sum.Date, err = parseDate(date); err != nil {
		return ledger.DailySummary{}, err
	}
	if sum.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return ledger.DailySummary{}, err
	}
	return sum, nil
}

func (q *queries) UpsertSummary(ctx context.Context, s ledger.DailySummary) error {
	_, err := q.db.ExecContext(ctx, `
INSERT INTO daily_summaries(`+summaryColumns+`)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, date) DO UPDATE SET
  calories_in = excluded.calories_in,
  rest_calories = excluded.rest_calories,
  workout_calories = excluded.workout_calories,
  calories_out = excluded.calories_out,
  net_calories = excluded.net_calories,
  updated_at = excluded.updated_at`,
		s.UserID, s.Date.String(), s.CaloriesIn, s.RestCalories, s.WorkoutCalories,
		s.CaloriesOut, s.NetCalories, formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

func (q *queries) GetSummary(ctx context.Context, userID int64, date ledger.DateOnly) (*ledger.DailySummary, error) {
	sum, err := optional[ledger.DailySummary](scanSummary(q.db.QueryRowContext(ctx,
		`SELECT `+summaryColumns+` FROM daily_summaries WHERE user_id = ? AND date = ?`, userID, date.String())))
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return sum, nil
}

func (q *queries) ListSummaries(ctx context.Context, userID int64, from, to ledger.DateOnly) ([]ledger.DailySummary, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+summaryColumns+` FROM daily_summaries WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date ASC`,
		userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	return collect(rows, scanSummary)
}

func (q *queries) UpsertWeeklyPlan(ctx context.Context, p ledger.WeeklyPlan) error {
	_, err := q.db.ExecContext(ctx, `
INSERT INTO weekly_plans(user_id, iso_year, iso_week, content, created_at)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(user_id, iso_year, iso_week) DO UPDATE SET
  content = excluded.content,
  created_at = excluded.created_at`,
		p.UserID, p.ISOYear, p.ISOWeek, p.Content, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("upsert weekly plan: %w", err)
	}
	return nil
}

func (q *queries) GetWeeklyPlan(ctx context.Context, userID int64, isoYear, isoWeek int) (*ledger.WeeklyPlan, error) {
	var (
		p         ledger.WeeklyPlan
		createdAt string
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT user_id, iso_year, iso_week, content, created_at FROM weekly_plans
		 WHERE user_id = ? AND iso_year = ? AND iso_week = ?`, userID, isoYear, isoWeek).
		Scan(&p.UserID, &p.ISOYear, &p.ISOWeek, &p.Content, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get weekly plan: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}
