package ledger_test

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lg/energy-ledger/internal/ledger"
	"lg/energy-ledger/internal/store/sqlite"
)

const userID int64 = 7

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ledger.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...ledger.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func date(t *testing.T, s string) ledger.DateOnly {
	t.Helper()
	d, err := ledger.ParseDate(s)
	require.NoError(t, err)
	return d
}

// referenceProfile is the F/30/165 cm/60 kg/light profile: rest ≈ 1815.34 kcal.
func referenceProfile(id int64, goal string) ledger.Profile {
	return ledger.Profile{
		UserID:        id,
		Sex:           ptr("F"),
		Age:           ptr(30),
		HeightCM:      ptr(165.0),
		StartWeight:   ptr(60.0),
		ActivityLevel: ptr("light"),
		GoalType:      ptr(goal),
	}
}

const referenceRest = 1815.34375

func newService(t *testing.T) (*ledger.Service, *sqlite.Store, *recordingPublisher) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.UpsertProfile(context.Background(), referenceProfile(userID, "maintenance")))

	pub := &recordingPublisher{}
	svc := ledger.NewService(store,
		ledger.WithPublisher(pub),
		ledger.WithClock(func() time.Time { return fixedNow }),
	)
	return svc, store, pub
}

/* ─── Recompute ──────────────────────────────────────────────────────── */

func TestRecomputeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	day := date(t, "2026-10-14")

	_, err := svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Time: "08:00", Description: "Oats", Calories: 500})
	require.NoError(t, err)
	_, err = svc.InsertWorkout(ctx, userID, ledger.WorkoutInput{Date: day, Time: "18:00", Description: "Run", DurationMin: ptr(30), Calories: 300})
	require.NoError(t, err)

	first, err := svc.Recompute(ctx, userID, day)
	require.NoError(t, err)
	second, err := svc.Recompute(ctx, userID, day)
	require.NoError(t, err)

	require.Equal(t, first.CaloriesIn, second.CaloriesIn)
	require.Equal(t, first.CaloriesOut, second.CaloriesOut)
	require.Equal(t, first.NetCalories, second.NetCalories)

	require.Equal(t, 500.0, second.CaloriesIn)
	require.InDelta(t, referenceRest, second.RestCalories, 1e-6)
	require.Equal(t, 300.0, second.WorkoutCalories)
	require.InDelta(t, referenceRest+300, second.CaloriesOut, 1e-6)
	require.InDelta(t, 500-referenceRest-300, second.NetCalories, 1e-6)

	stored, err := store.GetSummary(ctx, userID, day)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, second.NetCalories, stored.NetCalories)
}

func TestDeleteOverwritesSummary(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	day := date(t, "2026-10-14")

	a, err := svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Time: "08:00", Description: "Eggs", Calories: 300})
	require.NoError(t, err)
	b, err := svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Time: "13:00", Description: "Pasta", Calories: 700})
	require.NoError(t, err)
	require.Equal(t, 1000.0, b.Summary.CaloriesIn)

	sum, err := svc.DeleteMeal(ctx, userID, a.ID)
	require.NoError(t, err)
	require.Equal(t, 700.0, sum.CaloriesIn)

	_, err = svc.DeleteMeal(ctx, userID, a.ID)
	require.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestMorningWeightDrivesRestCalories(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	day := date(t, "2026-10-14")

	res, err := svc.SetMorningWeight(ctx, userID, day, 70)
	require.NoError(t, err)
	require.NotNil(t, res.Summary)
	// 700 + 1031.25 - 150 - 161 = 1420.25, × 1.375
	require.InDelta(t, 1420.25*1.375, res.Summary.RestCalories, 1e-6)

	_, err = svc.SetMorningWeight(ctx, userID, day, 0)
	require.ErrorIs(t, err, ledger.ErrInvalidRange)
	_, err = svc.SetMorningWeight(ctx, userID, day, 501)
	require.ErrorIs(t, err, ledger.ErrInvalidRange)
}

func TestMissingProfileRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	day := date(t, "2026-10-14")
	const stranger int64 = 99

	_, err := svc.InsertMeal(ctx, stranger, ledger.MealInput{Date: day, Time: "08:00", Description: "Toast", Calories: 200})
	require.ErrorIs(t, err, ledger.ErrMissingProfileData)

	meals, err := store.ListMeals(ctx, stranger, day)
	require.NoError(t, err)
	require.Empty(t, meals)
	d, err := store.GetDay(ctx, stranger, day)
	require.NoError(t, err)
	require.Nil(t, d)
}

func TestInsertValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	day := date(t, "2026-10-14")

	_, err := svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Description: "Cake", Calories: -1})
	require.ErrorIs(t, err, ledger.ErrInvalidRange)
	_, err = svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Description: " ", Calories: 10})
	require.ErrorIs(t, err, ledger.ErrInvalidRange)
	_, err = svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Time: "8:00", Description: "Cake", Calories: 10})
	require.ErrorIs(t, err, ledger.ErrInvalidRange)
	_, err = svc.InsertWorkout(ctx, userID, ledger.WorkoutInput{Date: day, Description: "Row", DurationMin: ptr(0), Calories: 10})
	require.ErrorIs(t, err, ledger.ErrInvalidRange)
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Description: "Cake", Calories: bad})
		require.ErrorIs(t, err, ledger.ErrInvalidRange)
		_, err = svc.InsertWorkout(ctx, userID, ledger.WorkoutInput{Date: day, Description: "Row", Calories: bad})
		require.ErrorIs(t, err, ledger.ErrInvalidRange)
		_, err = svc.AddPlanned(ctx, userID, ledger.PlannedInput{Date: day, Time: "13:00", Kind: ledger.KindMeal, Title: "Lunch", ExpectedCalories: ptr(bad)})
		require.ErrorIs(t, err, ledger.ErrInvalidRange)
	}
	_, err = svc.SetMorningWeight(ctx, userID, day, math.NaN())
	require.ErrorIs(t, err, ledger.ErrInvalidRange)

	res, err := svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Description: "Cake", Calories: 10})
	require.NoError(t, err)
	view, err := svc.DayDetail(ctx, userID, day)
	require.NoError(t, err)
	require.Len(t, view.Meals, 1)
	require.Equal(t, res.ID, view.Meals[0].ID)
	require.Equal(t, "12:00", view.Meals[0].Time)
}

/* ─── Closed days ────────────────────────────────────────────────────── */

func TestClosedDayRejectsMutations(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newService(t)
	day := date(t, "2026-10-14")

	meal, err := svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Time: "08:00", Description: "Oats", Calories: 400})
	require.NoError(t, err)
	planned, err := svc.AddPlanned(ctx, userID, ledger.PlannedInput{Date: day, Time: "13:00", Kind: ledger.KindMeal, Title: "Lunch", ExpectedCalories: ptr(600.0)})
	require.NoError(t, err)

	closed, err := svc.CloseDay(ctx, userID, day)
	require.NoError(t, err)
	require.True(t, closed.Day.IsClosed)
	snapshot := *closed.Summary

	_, err = svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Time: "20:00", Description: "Pizza", Calories: 900})
	require.ErrorIs(t, err, ledger.ErrDayClosed)
	_, err = svc.InsertWorkout(ctx, userID, ledger.WorkoutInput{Date: day, Time: "20:00", Description: "Walk", Calories: 100})
	require.ErrorIs(t, err, ledger.ErrDayClosed)
	_, err = svc.DeleteMeal(ctx, userID, meal.ID)
	require.ErrorIs(t, err, ledger.ErrDayClosed)
	_, err = svc.SetMorningWeight(ctx, userID, day, 61)
	require.ErrorIs(t, err, ledger.ErrDayClosed)
	_, err = svc.AddPlanned(ctx, userID, ledger.PlannedInput{Date: day, Time: "17:00", Kind: ledger.KindMeal, Title: "Snack"})
	require.ErrorIs(t, err, ledger.ErrDayClosed)
	_, err = svc.MarkDone(ctx, userID, planned.ID)
	require.ErrorIs(t, err, ledger.ErrDayClosed)
	_, err = svc.SkipPlanned(ctx, userID, planned.ID)
	require.ErrorIs(t, err, ledger.ErrDayClosed)
	require.ErrorIs(t, svc.DeletePlanned(ctx, userID, planned.ID), ledger.ErrDayClosed)
	_, err = svc.Recompute(ctx, userID, day)
	require.ErrorIs(t, err, ledger.ErrDayClosed)

	again, err := svc.CloseDay(ctx, userID, day)
	require.NoError(t, err)
	require.Equal(t, snapshot.NetCalories, again.Summary.NetCalories)

	view, err := svc.DayDetail(ctx, userID, day)
	require.NoError(t, err)
	require.Len(t, view.Meals, 1)
	require.Equal(t, snapshot.NetCalories, view.Summary.NetCalories)

	reopened, err := svc.ReopenDay(ctx, userID, day)
	require.NoError(t, err)
	require.False(t, reopened.Day.IsClosed)
	require.NotNil(t, reopened.Summary, "reopening keeps the cached summary")

	_, err = svc.InsertMeal(ctx, userID, ledger.MealInput{Date: day, Time: "20:00", Description: "Pizza", Calories: 900})
	require.NoError(t, err)

	require.Contains(t, pub.types(), ledger.EventDayClosed)
	require.Contains(t, pub.types(), ledger.EventDayReopened)
}

func TestReopenOpenDayIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	day := date(t, "2026-10-15")

	res, err := svc.ReopenDay(ctx, userID, day)
	require.NoError(t, err)
	require.False(t, res.Day.IsClosed)
	require.Nil(t, res.Summary)

	d, err := store.GetDay(ctx, userID, day)
	require.NoError(t, err)
	require.Nil(t, d, "reopening must not create a day row")
}

/* ─── Planned events ─────────────────────────────────────────────────── */

func TestMarkDoneExactlyOnce(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	day := date(t, "2026-10-14")

	ev, err := svc.AddPlanned(ctx, userID, ledger.PlannedInput{Date: day, Time: "13:00", Kind: ledger.KindMeal, Title: "Lunch", ExpectedCalories: ptr(600.0)})
	require.NoError(t, err)
	require.Equal(t, ledger.StatusPlanned, ev.Status)

	d, err := store.GetDay(ctx, userID, day)
	require.NoError(t, err)
	require.Nil(t, d, "planning must not create a day row")

	first, err := svc.MarkDone(ctx, userID, ev.ID)
	require.NoError(t, err)
	require.False(t, first.Replay)
	require.NotEmpty(t, first.ActualID)
	require.Equal(t, ledger.StatusDone, first.Event.Status)

	second, err := svc.MarkDone(ctx, userID, ev.ID)
	require.NoError(t, err)
	require.True(t, second.Replay)
	require.Equal(t, first.ActualID, second.ActualID)

	meals, err := store.ListMeals(ctx, userID, day)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	require.Equal(t, "[Planned] Lunch", meals[0].Description)
	require.Equal(t, 600.0, meals[0].Calories)
	require.NotNil(t, meals[0].PlannedEventID)
	require.Equal(t, ev.ID, *meals[0].PlannedEventID)
	require.JSONEq(t, fmt.Sprintf(`{"source":"plan","planned_event_id":%q}`, ev.ID), *meals[0].Provenance)

	sum, err := store.GetSummary(ctx, userID, day)
	require.NoError(t, err)
	require.Equal(t, 600.0, sum.CaloriesIn)

	stored, err := store.GetPlanned(ctx, userID, ev.ID)
	require.NoError(t, err)
	require.Equal(t, first.ActualID, *stored.LinkedActualID)
}

func TestMarkDoneWorkoutUsesPlannedDuration(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	day := date(t, "2026-10-14")

	ev, err := svc.AddPlanned(ctx, userID, ledger.PlannedInput{Date: day, Time: "19:00", Kind: ledger.KindWorkout, Title: "Run", DurationMin: ptr(30)})
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, userID, ev.ID)
	require.NoError(t, err)

	workouts, err := store.ListWorkouts(ctx, userID, day)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	require.Equal(t, 0.0, workouts[0].Calories, "no expected calories means zero burn")
	require.Equal(t, 30, *workouts[0].DurationMin)
}

func TestSkipTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	day := date(t, "2026-10-14")

	ev, err := svc.AddPlanned(ctx, userID, ledger.PlannedInput{Date: day, Time: "17:00", Kind: ledger.KindMeal, Title: "Snack", ExpectedCalories: ptr(150.0)})
	require.NoError(t, err)

	skipped, err := svc.SkipPlanned(ctx, userID, ev.ID)
	require.NoError(t, err)
	require.Equal(t, ledger.StatusSkipped, skipped.Status)

	again, err := svc.SkipPlanned(ctx, userID, ev.ID)
	require.NoError(t, err)
	require.Equal(t, ledger.StatusSkipped, again.Status)

	done, err := svc.MarkDone(ctx, userID, ev.ID)
	require.NoError(t, err)
	require.False(t, done.Replay)

	_, err = svc.SkipPlanned(ctx, userID, ev.ID)
	require.ErrorIs(t, err, ledger.ErrInvalidTransition)

	_, err = svc.SkipPlanned(ctx, userID, "missing")
	require.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestDeleteDonePlannedCascades(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	day := date(t, "2026-10-14")

	ev, err := svc.AddPlanned(ctx, userID, ledger.PlannedInput{Date: day, Time: "13:00", Kind: ledger.KindMeal, Title: "Lunch", ExpectedCalories: ptr(600.0)})
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, userID, ev.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlanned(ctx, userID, ev.ID))

	meals, err := store.ListMeals(ctx, userID, day)
	require.NoError(t, err)
	require.Empty(t, meals)
	sum, err := store.GetSummary(ctx, userID, day)
	require.NoError(t, err)
	require.Equal(t, 0.0, sum.CaloriesIn)

	require.ErrorIs(t, svc.DeletePlanned(ctx, userID, ev.ID), ledger.ErrNotFound)
}

func TestDeleteLinkedEntryRequiresPlannedDelete(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	day := date(t, "2026-10-14")

	meal, err := svc.AddPlanned(ctx, userID, ledger.PlannedInput{Date: day, Time: "13:00", Kind: ledger.KindMeal, Title: "Lunch", ExpectedCalories: ptr(600.0)})
	require.NoError(t, err)
	run, err := svc.AddPlanned(ctx, userID, ledger.PlannedInput{Date: day, Time: "19:00", Kind: ledger.KindWorkout, Title: "Run", DurationMin: ptr(30), ExpectedCalories: ptr(300.0)})
	require.NoError(t, err)
	mealDone, err := svc.MarkDone(ctx, userID, meal.ID)
	require.NoError(t, err)
	runDone, err := svc.MarkDone(ctx, userID, run.ID)
	require.NoError(t, err)

	_, err = svc.DeleteMeal(ctx, userID, mealDone.ActualID)
	require.ErrorIs(t, err, ledger.ErrInvalidTransition)
	_, err = svc.DeleteWorkout(ctx, userID, runDone.ActualID)
	require.ErrorIs(t, err, ledger.ErrInvalidTransition)

	replay, err := svc.MarkDone(ctx, userID, meal.ID)
	require.NoError(t, err)
	require.True(t, replay.Replay)
	linked, err := store.GetMeal(ctx, userID, replay.ActualID)
	require.NoError(t, err)
	require.NotNil(t, linked, "replay must point at an existing entry")

	sum, err := store.GetSummary(ctx, userID, day)
	require.NoError(t, err)
	require.Equal(t, 600.0, sum.CaloriesIn)
	require.Equal(t, 300.0, sum.WorkoutCalories)
}

/* ─── Weekly plan ────────────────────────────────────────────────────── */

func findEvent(t *testing.T, events []ledger.PlannedEvent, day, title string) ledger.PlannedEvent {
	t.Helper()
	for _, e := range events {
		if e.Date.String() == day && e.Title == title {
			return e
		}
	}
	t.Fatalf("no %q event on %s", title, day)
	return ledger.PlannedEvent{}
}

type eventShape struct {
	Date, Time, Kind, Title, Status, Notes string
	Calories                               float64
}

func shapes(events []ledger.PlannedEvent) []eventShape {
	out := make([]eventShape, 0, len(events))
	for _, e := range events {
		s := eventShape{Date: e.Date.String(), Time: e.Time, Kind: string(e.Kind), Title: e.Title, Status: string(e.Status), Notes: e.Notes}
		if e.ExpectedCalories != nil {
			s.Calories = *e.ExpectedCalories
		}
		out = append(out, s)
	}
	return out
}

func TestMaterializeWeekIsDeterministic(t *testing.T) {
	ctx := context.Background()
	svc, store, pub := newService(t)
	monday := date(t, "2026-10-12")
	input := ledger.WeekPlanInput{
		WeekStart: monday,
		Workouts: []ledger.WorkoutSlot{
			{Date: date(t, "2026-10-13"), Time: "07:00", Title: "Run", DurationMin: 30},
			{Date: date(t, "2026-10-17"), Title: "Gym", DurationMin: 60},
		},
		PlanText: "Keep it simple.",
	}

	first, err := svc.MaterializeWeek(ctx, userID, input)
	require.NoError(t, err)
	require.Len(t, first.Events, 30)
	require.InDelta(t, referenceRest, first.TargetIntake, 1e-6)
	require.Equal(t, []float64{454, 635, 182, 544}, first.MealAllocation)
	require.Equal(t, 2026, first.ISOYear)
	require.Equal(t, 42, first.ISOWeek)

	second, err := svc.MaterializeWeek(ctx, userID, input)
	require.NoError(t, err)
	require.Equal(t, shapes(first.Events), shapes(second.Events))

	stored, err := store.ListPlannedRange(ctx, userID, monday, monday.AddDays(6))
	require.NoError(t, err)
	require.Len(t, stored, 30, "regeneration replaces the week instead of appending")

	plan, err := svc.GetWeeklyPlan(ctx, userID, date(t, "2026-10-15"))
	require.NoError(t, err)
	require.Equal(t, "Keep it simple.", plan.Content)

	require.Contains(t, pub.types(), ledger.EventWeekMaterialized)
}

func TestMaterializeWeekReusesCachedText(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	monday := date(t, "2026-10-12")

	_, err := svc.MaterializeWeek(ctx, userID, ledger.WeekPlanInput{WeekStart: monday, PlanText: "Cached narrative"})
	require.NoError(t, err)
	res, err := svc.MaterializeWeek(ctx, userID, ledger.WeekPlanInput{WeekStart: monday})
	require.NoError(t, err)
	require.Equal(t, "Cached narrative", res.Plan.Content)
	require.Equal(t, "Cached narrative", res.Events[0].Notes)

	next, err := svc.MaterializeWeek(ctx, userID, ledger.WeekPlanInput{WeekStart: monday.AddDays(7)})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(next.Plan.Content, "Goal: maintenance."))
}

func TestRematerializeWeekDropsDoneEntries(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	monday := date(t, "2026-10-12")
	input := ledger.WeekPlanInput{
		WeekStart: monday,
		Workouts:  []ledger.WorkoutSlot{{Date: monday, Time: "07:00", Title: "Run", DurationMin: 30}},
	}

	first, err := svc.MaterializeWeek(ctx, userID, input)
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, userID, findEvent(t, first.Events, "2026-10-12", "Breakfast (plan)").ID)
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, userID, findEvent(t, first.Events, "2026-10-12", "Run").ID)
	require.NoError(t, err)
	before, err := store.GetSummary(ctx, userID, monday)
	require.NoError(t, err)
	require.Equal(t, 454.0, before.CaloriesIn)
	require.Equal(t, 300.0, before.WorkoutCalories)

	second, err := svc.MaterializeWeek(ctx, userID, input)
	require.NoError(t, err)
	stored, err := store.ListPlannedRange(ctx, userID, monday, monday.AddDays(6))
	require.NoError(t, err)
	require.Len(t, stored, 29)
	for _, e := range stored {
		require.Equal(t, ledger.StatusPlanned, e.Status)
	}

	view, err := svc.DayDetail(ctx, userID, monday)
	require.NoError(t, err)
	require.Empty(t, view.Meals)
	require.Empty(t, view.Workouts)
	require.Equal(t, 0.0, view.Summary.CaloriesIn)
	require.Equal(t, 0.0, view.Summary.WorkoutCalories)

	_, err = svc.MarkDone(ctx, userID, findEvent(t, second.Events, "2026-10-12", "Breakfast (plan)").ID)
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, userID, findEvent(t, second.Events, "2026-10-12", "Run").ID)
	require.NoError(t, err)

	meals, err := store.ListMeals(ctx, userID, monday)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	require.Equal(t, "[Planned] Breakfast (plan)", meals[0].Description)
	after, err := store.GetSummary(ctx, userID, monday)
	require.NoError(t, err)
	require.Equal(t, before.CaloriesIn, after.CaloriesIn)
	require.Equal(t, before.WorkoutCalories, after.WorkoutCalories)
}

func TestMaterializeWeekRejections(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	monday := date(t, "2026-10-12")

	_, err := svc.MaterializeWeek(ctx, userID, ledger.WeekPlanInput{WeekStart: monday.AddDays(1)})
	require.ErrorIs(t, err, ledger.ErrInvalidRange)

	_, err = svc.MaterializeWeek(ctx, userID, ledger.WeekPlanInput{
		WeekStart: monday,
		Workouts:  []ledger.WorkoutSlot{{Date: monday.AddDays(7), DurationMin: 30}},
	})
	require.ErrorIs(t, err, ledger.ErrInvalidRange)

	_, err = svc.CloseDay(ctx, userID, monday.AddDays(2))
	require.NoError(t, err)
	_, err = svc.MaterializeWeek(ctx, userID, ledger.WeekPlanInput{WeekStart: monday})
	require.ErrorIs(t, err, ledger.ErrDayClosed)

	events, err := store.ListPlannedRange(ctx, userID, monday, monday.AddDays(6))
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestMaterializeWeekClampsLossTarget(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	p := referenceProfile(userID, "loss")
	p.Age = ptr(80)
	p.HeightCM = ptr(150.0)
	p.StartWeight = ptr(45.0)
	p.ActivityLevel = ptr("sedentary")
	require.NoError(t, store.UpsertProfile(ctx, p))

	res, err := svc.MaterializeWeek(ctx, userID, ledger.WeekPlanInput{WeekStart: date(t, "2026-10-12")})
	require.NoError(t, err)
	require.Equal(t, 1200.0, res.TargetIntake)
}

/* ─── Reports ────────────────────────────────────────────────────────── */

func TestPeriodStatsCountsClosedDaysOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	closedDay := date(t, "2026-10-13")
	openDay := date(t, "2026-10-14")

	_, err := svc.InsertMeal(ctx, userID, ledger.MealInput{Date: closedDay, Time: "08:00", Description: "Oats", Calories: 2000})
	require.NoError(t, err)
	_, err = svc.CloseDay(ctx, userID, closedDay)
	require.NoError(t, err)
	_, err = svc.InsertMeal(ctx, userID, ledger.MealInput{Date: openDay, Time: "08:00", Description: "Oats", Calories: 900})
	require.NoError(t, err)

	stats, err := svc.PeriodStats(ctx, userID, date(t, "2026-10-12"), date(t, "2026-10-18"))
	require.NoError(t, err)
	require.Equal(t, 1, stats.ClosedDays)
	require.Equal(t, 2000.0, stats.CaloriesIn)
	require.InDelta(t, 2000-referenceRest, stats.NetCalories, 1e-6)
	require.Len(t, stats.Days, 2)

	_, err = svc.PeriodStats(ctx, userID, openDay, closedDay)
	require.ErrorIs(t, err, ledger.ErrInvalidRange)
}

func TestMonthCalendarFillsGaps(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.SetMorningWeight(ctx, userID, date(t, "2026-10-05"), 59.5)
	require.NoError(t, err)
	_, err = svc.MaterializeWeek(ctx, userID, ledger.WeekPlanInput{WeekStart: date(t, "2026-10-12")})
	require.NoError(t, err)

	cells, err := svc.MonthCalendar(ctx, userID, 2026, time.October)
	require.NoError(t, err)
	require.Len(t, cells, 31)
	require.Equal(t, "2026-10-01", cells[0].Date.String())
	require.Equal(t, "2026-10-31", cells[30].Date.String())

	fifth := cells[4]
	require.True(t, fifth.Logged)
	require.Equal(t, 59.5, *fifth.MorningWeight)
	require.NotNil(t, fifth.NetCalories)

	require.Equal(t, 4, cells[11].PlannedCount)
	require.False(t, cells[11].Logged)
	require.Nil(t, cells[11].NetCalories)

	_, err = svc.MonthCalendar(ctx, userID, 2026, 13)
	require.ErrorIs(t, err, ledger.ErrInvalidRange)
}

func TestRefreshSummariesSkipsClosedDays(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	closedDay := date(t, "2026-10-13")
	openDay := date(t, "2026-10-14")

	_, err := svc.InsertMeal(ctx, userID, ledger.MealInput{Date: closedDay, Time: "08:00", Description: "Oats", Calories: 500})
	require.NoError(t, err)
	closed, err := svc.CloseDay(ctx, userID, closedDay)
	require.NoError(t, err)
	_, err = svc.InsertMeal(ctx, userID, ledger.MealInput{Date: openDay, Time: "08:00", Description: "Oats", Calories: 500})
	require.NoError(t, err)

	p := referenceProfile(userID, "maintenance")
	p.ActivityLevel = ptr("active")
	require.NoError(t, store.UpsertProfile(ctx, p))

	refreshed, err := svc.RefreshSummaries(ctx, userID, closedDay, openDay)
	require.NoError(t, err)
	require.Len(t, refreshed, 1)
	require.Equal(t, openDay.String(), refreshed[0].Date.String())
	require.InDelta(t, 1320.25*1.725, refreshed[0].RestCalories, 1e-6)

	kept, err := store.GetSummary(ctx, userID, closedDay)
	require.NoError(t, err)
	require.Equal(t, closed.Summary.RestCalories, kept.RestCalories)
}

func TestProfileEnergy(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	view, err := svc.ProfileEnergy(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, view.Energy)
	require.InDelta(t, 1320.25, view.Energy.BMR, 1e-6)
	require.Empty(t, view.Missing)

	p := referenceProfile(userID, "maintenance")
	p.Age = nil
	require.NoError(t, store.UpsertProfile(ctx, p))
	view, err = svc.ProfileEnergy(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "age", view.Missing)
	require.Nil(t, view.Energy)

	_, err = svc.ProfileEnergy(ctx, 404)
	require.ErrorIs(t, err, ledger.ErrNotFound)
}
