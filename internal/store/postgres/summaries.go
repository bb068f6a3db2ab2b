package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"lg/energy-ledger/internal/ledger"
)

const summaryColumns = `user_id, date, calories_in, rest_calories, workout_calories, calories_out,
	net_calories, updated_at`

// UpsertSummary overwrites the row for (user, date). Summaries never accumulate.
func (q *queries) UpsertSummary(ctx context.Context, s ledger.DailySummary) error {
	_, err := execAffected(ctx, q.db,
		`INSERT INTO daily_summaries (`+summaryColumns+`)
		 VALUES (@userID, @date, @in, @rest, @workout, @out, @net, @updatedAt)
		 ON CONFLICT (user_id, date) DO UPDATE SET
		   calories_in = EXCLUDED.calories_in,
		   rest_calories = EXCLUDED.rest_calories,
		   workout_calories = EXCLUDED.workout_calories,
		   calories_out = EXCLUDED.calories_out,
		   net_calories = EXCLUDED.net_calories,
		   updated_at = EXCLUDED.updated_at`,
		pgx.NamedArgs{
			"userID":    s.UserID,
			"date":      s.Date.String(),
			"in":        s.CaloriesIn,
			"rest":      s.RestCalories,
			"workout":   s.WorkoutCalories,
			"out":       s.CaloriesOut,
			"net":       s.NetCalories,
			"updatedAt": s.UpdatedAt,
		})
	return err
}

func (q *queries) GetSummary(ctx context.Context, userID int64, date ledger.DateOnly) (*ledger.DailySummary, error) {
	return queryOptional[ledger.DailySummary](ctx, q.db,
		`SELECT `+summaryColumns+` FROM daily_summaries WHERE user_id = @userID AND date = @date`,
		pgx.NamedArgs{"userID": userID, "date": date.String()})
}

func (q *queries) ListSummaries(ctx context.Context, userID int64, from, to ledger.DateOnly) ([]ledger.DailySummary, error) {
	return queryMany[ledger.DailySummary](ctx, q.db,
		`SELECT `+summaryColumns+` FROM daily_summaries
		 WHERE user_id = @userID AND date >= @from AND date <= @to
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "from": from.String(), "to": to.String()})
}

func (q *queries) UpsertWeeklyPlan(ctx context.Context, p ledger.WeeklyPlan) error {
	_, err := execAffected(ctx, q.db,
		`INSERT INTO weekly_plans (user_id, iso_year, iso_week, content, created_at)
		 VALUES (@userID, @isoYear, @isoWeek, @content, @createdAt)
		 ON CONFLICT (user_id, iso_year, iso_week) DO UPDATE SET
		   content = EXCLUDED.content,
		   created_at = EXCLUDED.created_at`,
		pgx.NamedArgs{
			"userID":    p.UserID,
			"isoYear":   p.ISOYear,
			"isoWeek":   p.ISOWeek,
			"content":   p.Content,
			"createdAt": p.CreatedAt,
		})
	return err
}

func (q *queries) GetWeeklyPlan(ctx context.Context, userID int64, isoYear, isoWeek int) (*ledger.WeeklyPlan, error) {
	return queryOptional[ledger.WeeklyPlan](ctx, q.db,
		`SELECT user_id, iso_year, iso_week, content, created_at FROM weekly_plans
		 WHERE user_id = @userID AND iso_year = @isoYear AND iso_week = @isoWeek`,
		pgx.NamedArgs{"userID": userID, "isoYear": isoYear, "isoWeek": isoWeek})
}
