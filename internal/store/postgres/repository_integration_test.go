//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"lg/energy-ledger/internal/ledger"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("ledger"),
		postgrescontainer.WithUsername("ledger"),
		postgrescontainer.WithPassword("ledger"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	runMigrations(t, ctx, connStr)

	s, err := Open(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	t.Helper()
	files, err := filepath.Glob(resolvePath(t, "../../../db/*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	sort.Strings(files)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, path := range files {
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr, filepath.Base(path))
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

func ptr[T any](v T) *T { return &v }

func TestRepositoryDaysAndSummaries(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	day, err := ledger.ParseDate("2026-10-14")
	require.NoError(t, err)

	require.NoError(t, s.UpsertProfile(ctx, ledger.Profile{
		UserID: 1, Sex: ptr("F"), Age: ptr(30), HeightCM: ptr(165.0), StartWeight: ptr(60.0),
	}))
	p, err := s.GetProfile(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 30, *p.Age)
	require.Nil(t, p.ActivityLevel)

	d, err := s.UpsertDay(ctx, 1, day, ledger.DayPatch{MorningWeight: ptr(60.5)})
	require.NoError(t, err)
	d, err = s.UpsertDay(ctx, 1, day, ledger.DayPatch{IsClosed: ptr(true)})
	require.NoError(t, err)
	require.True(t, d.IsClosed)
	require.Equal(t, 60.5, *d.MorningWeight)

	sum := ledger.DailySummary{UserID: 1, Date: day, CaloriesIn: 500, RestCalories: 1800, CaloriesOut: 1800, NetCalories: -1300, UpdatedAt: time.Now().UTC()}
	require.NoError(t, s.UpsertSummary(ctx, sum))
	sum.CaloriesIn = 900
	require.NoError(t, s.UpsertSummary(ctx, sum))

	got, err := s.GetSummary(ctx, 1, day)
	require.NoError(t, err)
	require.Equal(t, 900.0, got.CaloriesIn)
	require.Equal(t, "2026-10-14", got.Date.String())
}

func TestRepositoryPlannedCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	day, err := ledger.ParseDate("2026-10-14")
	require.NoError(t, err)

	ev := ledger.PlannedEvent{
		ID: uuid.NewString(), UserID: 1, Date: day, Time: "13:00", Kind: ledger.KindMeal,
		Title: "Lunch", ExpectedCalories: ptr(600.0), Status: ledger.StatusPlanned, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.InsertPlanned(ctx, ev))

	mealID := uuid.NewString()
	err = s.WithTx(ctx, 1, func(q ledger.Queries) error {
		if err := q.InsertMeal(ctx, ledger.MealEntry{
			ID: mealID, UserID: 1, Date: day, Time: "13:00", Description: "[Planned] Lunch",
			Calories: 600, PlannedEventID: &ev.ID, CreatedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		ok, err := q.SetPlannedStatus(ctx, 1, ev.ID, ledger.StatusPlanned, ledger.StatusDone, &mealID)
		require.True(t, ok)
		return err
	})
	require.NoError(t, err)

	ok, err := s.SetPlannedStatus(ctx, 1, ev.ID, ledger.StatusPlanned, ledger.StatusDone, ptr("other"))
	require.NoError(t, err)
	require.False(t, ok)

	dup := ledger.MealEntry{ID: uuid.NewString(), UserID: 1, Date: day, Time: "13:00", Description: "dup", PlannedEventID: &ev.ID, CreatedAt: time.Now().UTC()}
	require.Error(t, s.InsertMeal(ctx, dup), "planned_event_id is unique")

	stored, err := s.GetPlanned(ctx, 1, ev.ID)
	require.NoError(t, err)
	require.Equal(t, ledger.StatusDone, stored.Status)
	require.Equal(t, mealID, *stored.LinkedActualID)

	n, err := s.DeletePlannedRange(ctx, 1, day.AddDays(-2), day.AddDays(4))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestServiceAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	require.NoError(t, s.UpsertProfile(ctx, ledger.Profile{
		UserID: 3, Sex: ptr("F"), Age: ptr(30), HeightCM: ptr(165.0), StartWeight: ptr(60.0),
		ActivityLevel: ptr("light"), GoalType: ptr("maintenance"),
	}))
	svc := ledger.NewService(s)
	monday, err := ledger.ParseDate("2026-10-12")
	require.NoError(t, err)

	week, err := svc.MaterializeWeek(ctx, 3, ledger.WeekPlanInput{WeekStart: monday})
	require.NoError(t, err)
	require.Len(t, week.Events, 28)

	res, err := svc.MarkDone(ctx, 3, week.Events[0].ID)
	require.NoError(t, err)
	replay, err := svc.MarkDone(ctx, 3, week.Events[0].ID)
	require.NoError(t, err)
	require.True(t, replay.Replay)
	require.Equal(t, res.ActualID, replay.ActualID)

	view, err := svc.DayDetail(ctx, 3, monday)
	require.NoError(t, err)
	require.Len(t, view.Meals, 1)
	require.Equal(t, 454.0, view.Summary.CaloriesIn)

	_, err = svc.MaterializeWeek(ctx, 3, ledger.WeekPlanInput{WeekStart: monday})
	require.NoError(t, err)
	view, err = svc.DayDetail(ctx, 3, monday)
	require.NoError(t, err)
	require.Empty(t, view.Meals)
	require.Equal(t, 0.0, view.Summary.CaloriesIn)
}
