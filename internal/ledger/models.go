package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const dateLayout = "2006-01-02"

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

// ParseDate parses a YYYY-MM-DD string into a UTC DateOnly.
func ParseDate(s string) (DateOnly, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return DateOnly{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidRange, s)
	}
	return DateOnly{t}, nil
}

// DateOf truncates t to its calendar date in t's location and returns it as UTC midnight.
func DateOf(t time.Time) DateOnly {
	y, m, d := t.Date()
	return DateOnly{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d DateOnly) String() string { return d.Time.Format(dateLayout) }

// AddDays uses AddDate so month and year boundaries are handled by the time package.
func (d DateOnly) AddDays(n int) DateOnly { return DateOnly{d.Time.AddDate(0, 0, n)} }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Records ────────────────────────────────────────────────────────── */

// Profile maps to user_profile. It is owned by the external profile
// collaborator; the ledger only reads it. Every field is nullable so that a
// half-filled profile still loads, and computations report which field is missing.
type Profile struct {
	UserID        int64      `json:"user_id"        db:"user_id"`
	Sex           *string    `json:"sex"            db:"sex"`
	Age           *int       `json:"age"            db:"age"`
	HeightCM      *float64   `json:"height_cm"      db:"height_cm"`
	StartWeight   *float64   `json:"start_weight"   db:"start_weight"`
	ActivityLevel *string    `json:"activity_level" db:"activity_level"`
	GoalType      *string    `json:"goal_type"      db:"goal_type"`
	GoalWeight    *float64   `json:"goal_weight"    db:"goal_weight"`
	GoalDate      *DateOnly  `json:"goal_date"      db:"goal_date"`
	BodyFatPct    *float64   `json:"body_fat_pct"   db:"body_fat_pct"`
	LeanMassKG    *float64   `json:"lean_mass_kg"   db:"lean_mass_kg"`
	UpdatedAt     *time.Time `json:"updated_at"     db:"updated_at"`
}

// Day maps to day_logs, one row per (user, date).
type Day struct {
	UserID        int64    `json:"user_id"        db:"user_id"`
	Date          DateOnly `json:"date"           db:"date"`
	MorningWeight *float64 `json:"morning_weight" db:"morning_weight"`
	IsClosed      bool     `json:"is_closed"      db:"is_closed"`
}

// MealEntry maps to meals. PlannedEventID is set only for entries spawned by
// marking a planned meal done, and is unique across the table.
type MealEntry struct {
	ID             string    `json:"id"               db:"id"`
	UserID         int64     `json:"user_id"          db:"user_id"`
	Date           DateOnly  `json:"date"             db:"date"`
	Time           string    `json:"time"             db:"time_of_day"`
	Description    string    `json:"description"      db:"description"`
	Calories       float64   `json:"calories"         db:"calories"`
	Provenance     *string   `json:"provenance"       db:"provenance"`
	PlannedEventID *string   `json:"planned_event_id" db:"planned_event_id"`
	CreatedAt      time.Time `json:"created_at"       db:"created_at"`
}

// WorkoutEntry maps to workouts. Calories are stored as a positive burn.
type WorkoutEntry struct {
	ID             string    `json:"id"               db:"id"`
	UserID         int64     `json:"user_id"          db:"user_id"`
	Date           DateOnly  `json:"date"             db:"date"`
	Time           string    `json:"time"             db:"time_of_day"`
	Description    string    `json:"description"      db:"description"`
	DurationMin    *int      `json:"duration_min"     db:"duration_min"`
	Calories       float64   `json:"calories_burned"  db:"calories_burned"`
	Provenance     *string   `json:"provenance"       db:"provenance"`
	PlannedEventID *string   `json:"planned_event_id" db:"planned_event_id"`
	CreatedAt      time.Time `json:"created_at"       db:"created_at"`
}

// PlannedEvent maps to planned_events. LinkedActualID is a weak reference to
// the meal or workout created when the event was marked done.
type PlannedEvent struct {
	ID               string        `json:"id"                db:"id"`
	UserID           int64         `json:"user_id"           db:"user_id"`
	Date             DateOnly      `json:"date"              db:"date"`
	Time             string        `json:"time"              db:"time_of_day"`
	Kind             EventKind     `json:"kind"              db:"kind"`
	Title            string        `json:"title"             db:"title"`
	ExpectedCalories *float64      `json:"expected_calories" db:"expected_calories"`
	DurationMin      *int          `json:"duration_min"      db:"duration_min"`
	Status           PlannedStatus `json:"status"            db:"status"`
	Notes            string        `json:"notes"             db:"notes"`
	LinkedActualID   *string       `json:"linked_actual_id"  db:"linked_actual_id"`
	CreatedAt        time.Time     `json:"created_at"        db:"created_at"`
}

// DailySummary maps to daily_summaries. It is derived data: recompute is its
// only writer and every write overwrites the row for (user, date).
type DailySummary struct {
	UserID          int64     `json:"user_id"          db:"user_id"`
	Date            DateOnly  `json:"date"             db:"date"`
	CaloriesIn      float64   `json:"calories_in"      db:"calories_in"`
	RestCalories    float64   `json:"rest_calories"    db:"rest_calories"`
	WorkoutCalories float64   `json:"workout_calories" db:"workout_calories"`
	CaloriesOut     float64   `json:"calories_out"     db:"calories_out"`
	NetCalories     float64   `json:"net_calories"     db:"net_calories"`
	UpdatedAt       time.Time `json:"updated_at"       db:"updated_at"`
}

// WeeklyPlan maps to weekly_plans, keyed by (user, ISO year, ISO week).
type WeeklyPlan struct {
	UserID    int64     `json:"user_id"    db:"user_id"`
	ISOYear   int       `json:"iso_year"   db:"iso_year"`
	ISOWeek   int       `json:"iso_week"   db:"iso_week"`
	Content   string    `json:"content"    db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
