package ledger

import (
	"context"
	"time"
)

// ProfileProvider is the read side of the external profile collaborator.
// GetProfile returns (nil, nil) when the user has no profile yet.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
}

// ProfileWriter seeds profiles. Only operator tooling and tests use it.
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, p Profile) error
}

// DayPatch is a partial update of a day row; nil fields are left unchanged.
type DayPatch struct {
	MorningWeight *float64
	IsClosed      *bool
}

// Queries is the per-user persistence surface. Implementations run each call
// either directly or inside the transaction passed to WithTx.
type Queries interface {
	ProfileProvider

	GetDay(ctx context.Context, userID int64, date DateOnly) (*Day, error)
	UpsertDay(ctx context.Context, userID int64, date DateOnly, patch DayPatch) (Day, error)
	ListDays(ctx context.Context, userID int64, from, to DateOnly) ([]Day, error)

	InsertMeal(ctx context.Context, m MealEntry) error
	GetMeal(ctx context.Context, userID int64, id string) (*MealEntry, error)
	DeleteMeal(ctx context.Context, userID int64, id string) (bool, error)
	ListMeals(ctx context.Context, userID int64, date DateOnly) ([]MealEntry, error)

	InsertWorkout(ctx context.Context, w WorkoutEntry) error
	GetWorkout(ctx context.Context, userID int64, id string) (*WorkoutEntry, error)
	DeleteWorkout(ctx context.Context, userID int64, id string) (bool, error)
	ListWorkouts(ctx context.Context, userID int64, date DateOnly) ([]WorkoutEntry, error)

	InsertPlanned(ctx context.Context, e PlannedEvent) error
	GetPlanned(ctx context.Context, userID int64, id string) (*PlannedEvent, error)
	ListPlanned(ctx context.Context, userID int64, date DateOnly) ([]PlannedEvent, error)
	ListPlannedRange(ctx context.Context, userID int64, from, to DateOnly) ([]PlannedEvent, error)
	// SetPlannedStatus moves the event from `from` to `to` and optionally links
	// an actual entry. It reports false when the event was not in `from`.
	SetPlannedStatus(ctx context.Context, userID int64, id string, from, to PlannedStatus, linkedActualID *string) (bool, error)
	DeletePlanned(ctx context.Context, userID int64, id string) (bool, error)
	DeletePlannedRange(ctx context.Context, userID int64, from, to DateOnly) (int64, error)

	UpsertSummary(ctx context.Context, s DailySummary) error
	GetSummary(ctx context.Context, userID int64, date DateOnly) (*DailySummary, error)
	ListSummaries(ctx context.Context, userID int64, from, to DateOnly) ([]DailySummary, error)

	UpsertWeeklyPlan(ctx context.Context, p WeeklyPlan) error
	GetWeeklyPlan(ctx context.Context, userID int64, isoYear, isoWeek int) (*WeeklyPlan, error)
}

// Store adds transactions to Queries. WithTx serializes writers for the same
// user; fn must only use the Queries it is given.
type Store interface {
	Queries
	WithTx(ctx context.Context, userID int64, fn func(q Queries) error) error
}

// Clock lets tests pin timestamps.
type Clock func() time.Time
