package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"lg/energy-ledger/internal/ledger"
)

const profileColumns = `user_id, sex, age, height_cm, start_weight, activity_level, goal_type,
	goal_weight, goal_date, body_fat_pct, lean_mass_kg, updated_at`

// GetProfile returns the user's profile, or nil if none exists.
func (q *queries) GetProfile(ctx context.Context, userID int64) (*ledger.Profile, error) {
	return queryOptional[ledger.Profile](ctx, q.db,
		`SELECT `+profileColumns+` FROM user_profile WHERE user_id = @userID`,
		pgx.NamedArgs{"userID": userID})
}

// UpsertProfile writes every profile field. Used by operator tooling.
func (q *queries) UpsertProfile(ctx context.Context, p ledger.Profile) error {
	var goalDate *string
	if p.GoalDate != nil {
		s := p.GoalDate.String()
		goalDate = &s
	}
	_, err := execAffected(ctx, q.db,
		`INSERT INTO user_profile (user_id, sex, age, height_cm, start_weight, activity_level,
		   goal_type, goal_weight, goal_date, body_fat_pct, lean_mass_kg, updated_at)
		 VALUES (@userID, @sex, @age, @heightCM, @startWeight, @activityLevel,
		   @goalType, @goalWeight, @goalDate, @bodyFatPct, @leanMassKG, now())
		 ON CONFLICT (user_id) DO UPDATE SET
		   sex = EXCLUDED.sex,
		   age = EXCLUDED.age,
		   height_cm = EXCLUDED.height_cm,
		   start_weight = EXCLUDED.start_weight,
		   activity_level = EXCLUDED.activity_level,
		   goal_type = EXCLUDED.goal_type,
		   goal_weight = EXCLUDED.goal_weight,
		   goal_date = EXCLUDED.goal_date,
		   body_fat_pct = EXCLUDED.body_fat_pct,
		   lean_mass_kg = EXCLUDED.lean_mass_kg,
		   updated_at = now()`,
		pgx.NamedArgs{
			"userID":        p.UserID,
			"sex":           p.Sex,
			"age":           p.Age,
			"heightCM":      p.HeightCM,
			"startWeight":   p.StartWeight,
			"activityLevel": p.ActivityLevel,
			"goalType":      p.GoalType,
			"goalWeight":    p.GoalWeight,
			"goalDate":      goalDate,
			"bodyFatPct":    p.BodyFatPct,
			"leanMassKG":    p.LeanMassKG,
		})
	return err
}

const dayColumns = `user_id, date, morning_weight, is_closed`

func (q *queries) GetDay(ctx context.Context, userID int64, date ledger.DateOnly) (*ledger.Day, error) {
	return queryOptional[ledger.Day](ctx, q.db,
		`SELECT `+dayColumns+` FROM day_logs WHERE user_id = @userID AND date = @date`,
		pgx.NamedArgs{"userID": userID, "date": date.String()})
}

// UpsertDay creates the day on first write. Nil patch fields keep their
// current value (is_closed defaults to false on insert).
func (q *queries) UpsertDay(ctx context.Context, userID int64, date ledger.DateOnly, patch ledger.DayPatch) (ledger.Day, error) {
	return queryOne[ledger.Day](ctx, q.db,
		`INSERT INTO day_logs (user_id, date, morning_weight, is_closed)
		 VALUES (@userID, @date, @weight, COALESCE(@closed, false))
		 ON CONFLICT (user_id, date) DO UPDATE SET
		   morning_weight = COALESCE(EXCLUDED.morning_weight, day_logs.morning_weight),
		   is_closed = COALESCE(@closed, day_logs.is_closed)
		 RETURNING `+dayColumns,
		pgx.NamedArgs{
			"userID": userID,
			"date":   date.String(),
			"weight": patch.MorningWeight,
			"closed": patch.IsClosed,
		})
}

func (q *queries) ListDays(ctx context.Context, userID int64, from, to ledger.DateOnly) ([]ledger.Day, error) {
	return queryMany[ledger.Day](ctx, q.db,
		`SELECT `+dayColumns+` FROM day_logs
		 WHERE user_id = @userID AND date >= @from AND date <= @to
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "from": from.String(), "to": to.String()})
}
