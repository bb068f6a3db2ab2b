// Package sqlite implements the ledger store on an embedded SQLite file for
// single-user local runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"lg/energy-ledger/internal/ledger"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

// Store owns the database handle. The pool is capped at one connection, so
// transactions are serialized and fn passed to WithTx must not call back into
// the Store itself.
type Store struct {
	*queries
	db *sql.DB
}

var (
	_ ledger.Store         = (*Store)(nil)
	_ ledger.ProfileWriter = (*Store)(nil)
)

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if err := ApplyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{queries: &queries{db: db}, db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn in a transaction; any error rolls back.
func (s *Store) WithTx(ctx context.Context, userID int64, fn func(q ledger.Queries) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(&queries{db: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx for user %d: %w", userID, err)
	}
	return nil
}

/* ─── Scan helpers ───────────────────────────────────────────────────── */

type scanner interface {
	Scan(dest ...any) error
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func parseDate(s string) (ledger.DateOnly, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ledger.DateOnly{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return ledger.DateOnly{Time: d}, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

func affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// collect scans every row with scan and closes rows.
func collect[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// optional maps sql.ErrNoRows to (nil, nil).
func optional[T any](v T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

/* ─── Profile ────────────────────────────────────────────────────────── */

func (q *queries) GetProfile(ctx context.Context, userID int64) (*ledger.Profile, error) {
	row := q.db.QueryRowContext(ctx, `
SELECT user_id, sex, age, height_cm, start_weight, activity_level, goal_type,
       goal_weight, goal_date, body_fat_pct, lean_mass_kg, updated_at
FROM user_profile WHERE user_id = ?`, userID)

	var p ledger.Profile
	var sex, activity, goalType, goalDate, updatedAt sql.NullString
	var age sql.NullInt64
	var height, startWeight, goalWeight, bodyFatPct, leanMassKG sql.NullFloat64
	err := row.Scan(&p.UserID, &sex, &age, &height, &startWeight, &activity, &goalType,
		&goalWeight, &goalDate, &bodyFatPct, &leanMassKG, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.Sex = stringPtr(sex)
	p.Age = intPtr(age)
	p.HeightCM = floatPtr(height)
	p.StartWeight = floatPtr(startWeight)
	p.ActivityLevel = stringPtr(activity)
	p.GoalType = stringPtr(goalType)
	p.GoalWeight = floatPtr(goalWeight)
	p.BodyFatPct = floatPtr(bodyFatPct)
	p.LeanMassKG = floatPtr(leanMassKG)
	if goalDate.Valid {
		d, err := parseDate(goalDate.String)
		if err != nil {
			return nil, err
		}
		p.GoalDate = &d
	}
	if updatedAt.Valid {
		t, err := parseTime(updatedAt.String)
		if err != nil {
			return nil, err
		}
		p.UpdatedAt = &t
	}
	return &p, nil
}

func (q *queries) UpsertProfile(ctx context.Context, p ledger.Profile) error {
	var goalDate *string
	if p.GoalDate != nil {
		s := p.GoalDate.String()
		goalDate = &s
	}
	_, err := q.db.ExecContext(ctx, `
INSERT INTO user_profile(user_id, sex, age, height_cm, start_weight, activity_level, goal_type,
                         goal_weight, goal_date, body_fat_pct, lean_mass_kg, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
  sex = excluded.sex,
  age = excluded.age,
  height_cm = excluded.height_cm,
  start_weight = excluded.start_weight,
  activity_level = excluded.activity_level,
  goal_type = excluded.goal_type,
  goal_weight = excluded.goal_weight,
  goal_date = excluded.goal_date,
  body_fat_pct = excluded.body_fat_pct,
  lean_mass_kg = excluded.lean_mass_kg,
  updated_at = excluded.updated_at
`, p.UserID, p.Sex, p.Age, p.HeightCM, p.StartWeight, p.ActivityLevel, p.GoalType,
		p.GoalWeight, goalDate, p.BodyFatPct, p.LeanMassKG, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

/* ─── Days ───────────────────────────────────────────────────────────── */

const dayColumns = `user_id, date, morning_weight, is_closed`

func scanDay(s scanner) (ledger.Day, error) {
	var (
		d      ledger.Day
		date   string
		weight sql.NullFloat64
	)
	if err := s.Scan(&d.UserID, &date, &weight, &d.IsClosed); err != nil {
		return ledger.Day{}, err
	}
	var err error
	if d.Date, err = parseDate(date); err != nil {
		return ledger.Day{}, err
	}
	d.MorningWeight = floatPtr(weight)
	return d, nil
}

func (q *queries) GetDay(ctx context.Context, userID int64, date ledger.DateOnly) (*ledger.Day, error) {
	day, err := optional[ledger.Day](scanDay(q.db.QueryRowContext(ctx,
		`SELECT `+dayColumns+` FROM day_logs WHERE user_id = ? AND date = ?`, userID, date.String())))
	if err != nil {
		return nil, fmt.Errorf("get day: %w", err)
	}
	return day, nil
}

func (q *queries) UpsertDay(ctx context.Context, userID int64, date ledger.DateOnly, patch ledger.DayPatch) (ledger.Day, error) {
	if _, err := q.db.ExecContext(ctx, `
INSERT INTO day_logs(user_id, date, morning_weight, is_closed)
VALUES(?, ?, ?, COALESCE(?, 0))
ON CONFLICT(user_id, date) DO UPDATE SET
  morning_weight = COALESCE(excluded.morning_weight, day_logs.morning_weight),
  is_closed = COALESCE(?, day_logs.is_closed)
`, userID, date.String(), patch.MorningWeight, patch.IsClosed, patch.IsClosed); err != nil {
		return ledger.Day{}, fmt.Errorf("upsert day: %w", err)
	}
	day, err := scanDay(q.db.QueryRowContext(ctx,
		`SELECT `+dayColumns+` FROM day_logs WHERE user_id = ? AND date = ?`, userID, date.String()))
	if err != nil {
		return ledger.Day{}, fmt.Errorf("reload day: %w", err)
	}
	return day, nil
}

func (q *queries) ListDays(ctx context.Context, userID int64, from, to ledger.DateOnly) ([]ledger.Day, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+dayColumns+` FROM day_logs WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date ASC`,
		userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	return collect(rows, scanDay)
}
