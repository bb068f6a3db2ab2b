package sqlite

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

// Dates are stored as YYYY-MM-DD text and timestamps as RFC 3339 text so that
// range filters compare lexically.
var migrations = []migration{
	{
		version: 1,
		name:    "energy_ledger_schema",
		sql: `
CREATE TABLE IF NOT EXISTS user_profile (
  user_id INTEGER PRIMARY KEY,
  sex TEXT,
  age INTEGER,
  height_cm REAL,
  start_weight REAL,
  activity_level TEXT,
  goal_type TEXT,
  goal_weight REAL,
  goal_date TEXT,
  body_fat_pct REAL,
  lean_mass_kg REAL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS day_logs (
  user_id INTEGER NOT NULL,
  date TEXT NOT NULL,
  morning_weight REAL,
  is_closed INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (user_id, date)
);

CREATE TABLE IF NOT EXISTS meals (
  id TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  date TEXT NOT NULL,
  time_of_day TEXT NOT NULL,
  description TEXT NOT NULL,
  calories REAL NOT NULL CHECK (calories >= 0),
  provenance TEXT,
  planned_event_id TEXT UNIQUE,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals(user_id, date);

CREATE TABLE IF NOT EXISTS workouts (
  id TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  date TEXT NOT NULL,
  time_of_day TEXT NOT NULL,
  description TEXT NOT NULL,
  duration_min INTEGER CHECK (duration_min > 0),
  calories_burned REAL NOT NULL CHECK (calories_burned >= 0),
  provenance TEXT,
  planned_event_id TEXT UNIQUE,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, date);

CREATE TABLE IF NOT EXISTS planned_events (
  id TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  date TEXT NOT NULL,
  time_of_day TEXT NOT NULL,
  kind TEXT NOT NULL CHECK (kind IN ('meal', 'workout')),
  title TEXT NOT NULL,
  expected_calories REAL,
  duration_min INTEGER,
  status TEXT NOT NULL DEFAULT 'planned' CHECK (status IN ('planned', 'done', 'skipped')),
  notes TEXT NOT NULL DEFAULT '',
  linked_actual_id TEXT,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_planned_user_date ON planned_events(user_id, date);

CREATE TABLE IF NOT EXISTS daily_summaries (
  user_id INTEGER NOT NULL,
  date TEXT NOT NULL,
  calories_in REAL NOT NULL,
  rest_calories REAL NOT NULL,
  workout_calories REAL NOT NULL,
  calories_out REAL NOT NULL,
  net_calories REAL NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (user_id, date)
);

CREATE TABLE IF NOT EXISTS weekly_plans (
  user_id INTEGER NOT NULL,
  iso_year INTEGER NOT NULL,
  iso_week INTEGER NOT NULL,
  content TEXT NOT NULL,
  created_at TEXT NOT NULL,
  PRIMARY KEY (user_id, iso_year, iso_week)
);
`,
	},
}

// ApplyMigrations brings the schema up to date. Each version runs in its own
// transaction and is recorded in schema_migrations.
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}
	return nil
}
