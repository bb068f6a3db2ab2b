package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DayView is everything logged and planned for one date.
type DayView struct {
	Date     DateOnly       `json:"date"`
	Day      *Day           `json:"day"`
	Meals    []MealEntry    `json:"meals"`
	Workouts []WorkoutEntry `json:"workouts"`
	Planned  []PlannedEvent `json:"planned"`
	Summary  *DailySummary  `json:"summary"`
}

// DayDetail loads a single date. A date with nothing logged returns empty lists.
func (s *Service) DayDetail(ctx context.Context, userID int64, date DateOnly) (DayView, error) {
	view := DayView{Date: date}
	var err error
	if view.Day, err = s.store.GetDay(ctx, userID, date); err != nil {
		return DayView{}, fmt.Errorf("load day: %w", err)
	}
	if view.Meals, err = s.store.ListMeals(ctx, userID, date); err != nil {
		return DayView{}, fmt.Errorf("list meals: %w", err)
	}
	if view.Workouts, err = s.store.ListWorkouts(ctx, userID, date); err != nil {
		return DayView{}, fmt.Errorf("list workouts: %w", err)
	}
	if view.Planned, err = s.store.ListPlanned(ctx, userID, date); err != nil {
		return DayView{}, fmt.Errorf("list planned: %w", err)
	}
	if view.Summary, err = s.store.GetSummary(ctx, userID, date); err != nil {
		return DayView{}, fmt.Errorf("load summary: %w", err)
	}
	return view, nil
}

// ListDays returns the logged days in [from, to].
func (s *Service) ListDays(ctx context.Context, userID int64, from, to DateOnly) ([]Day, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.store.ListDays(ctx, userID, from, to)
}

// ListSummaries returns the cached summaries in [from, to].
func (s *Service) ListSummaries(ctx context.Context, userID int64, from, to DateOnly) ([]DailySummary, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.store.ListSummaries(ctx, userID, from, to)
}

// ListPlanned returns the planned events for one date ordered by time.
func (s *Service) ListPlanned(ctx context.Context, userID int64, date DateOnly) ([]PlannedEvent, error) {
	return s.store.ListPlanned(ctx, userID, date)
}

// ListPlannedRange returns the planned events in [from, to].
func (s *Service) ListPlannedRange(ctx context.Context, userID int64, from, to DateOnly) ([]PlannedEvent, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	return s.store.ListPlannedRange(ctx, userID, from, to)
}

/* ─── Dashboard ──────────────────────────────────────────────────────── */

// DayStat is one row of the dashboard table.
type DayStat struct {
	Date          DateOnly      `json:"date"`
	MorningWeight *float64      `json:"morning_weight"`
	IsClosed      bool          `json:"is_closed"`
	Summary       *DailySummary `json:"summary"`
}

// PeriodStats aggregates closed days only: an open day's numbers are not final.
type PeriodStats struct {
	Start       DateOnly  `json:"start"`
	End         DateOnly  `json:"end"`
	ClosedDays  int       `json:"closed_days"`
	CaloriesIn  float64   `json:"calories_in"`
	CaloriesOut float64   `json:"calories_out"`
	NetCalories float64   `json:"net_calories"`
	Days        []DayStat `json:"days"`
}

// PeriodStats returns per-day rows for logged days plus totals over closed days.
func (s *Service) PeriodStats(ctx context.Context, userID int64, from, to DateOnly) (PeriodStats, error) {
	if err := validateRange(from, to); err != nil {
		return PeriodStats{}, err
	}
	days, err := s.store.ListDays(ctx, userID, from, to)
	if err != nil {
		return PeriodStats{}, fmt.Errorf("list days: %w", err)
	}
	summaries, err := s.store.ListSummaries(ctx, userID, from, to)
	if err != nil {
		return PeriodStats{}, fmt.Errorf("list summaries: %w", err)
	}
	byDate := summariesByDate(summaries)

	stats := PeriodStats{Start: from, End: to, Days: make([]DayStat, 0, len(days))}
	for _, d := range days {
		row := DayStat{Date: d.Date, MorningWeight: d.MorningWeight, IsClosed: d.IsClosed}
		if sum, ok := byDate[d.Date.String()]; ok {
			row.Summary = &sum
			if d.IsClosed {
				stats.ClosedDays++
				stats.CaloriesIn += sum.CaloriesIn
				stats.CaloriesOut += sum.CaloriesOut
				stats.NetCalories += sum.NetCalories
			}
		}
		stats.Days = append(stats.Days, row)
	}
	return stats, nil
}

/* ─── Calendar ───────────────────────────────────────────────────────── */

// CalendarDay is one cell of the month view.
type CalendarDay struct {
	Date          DateOnly `json:"date"`
	Logged        bool     `json:"logged"`
	MorningWeight *float64 `json:"morning_weight"`
	IsClosed      bool     `json:"is_closed"`
	NetCalories   *float64 `json:"net_calories"`
	PlannedCount  int      `json:"planned_count"`
}

// MonthCalendar returns one cell per day of the month, gap-filled so days
// with no data still appear.
func (s *Service) MonthCalendar(ctx context.Context, userID int64, year int, month time.Month) ([]CalendarDay, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return nil, invalidf("invalid month %d-%02d", year, month)
	}
	first := DateOnly{time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)}
	last := DateOnly{first.AddDate(0, 1, -1)}

	days, err := s.store.ListDays(ctx, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	summaries, err := s.store.ListSummaries(ctx, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	planned, err := s.store.ListPlannedRange(ctx, userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("list planned: %w", err)
	}

	dayByDate := make(map[string]Day, len(days))
	for _, d := range days {
		dayByDate[d.Date.String()] = d
	}
	sumByDate := summariesByDate(summaries)
	plannedCount := make(map[string]int)
	for _, p := range planned {
		plannedCount[p.Date.String()]++
	}

	var out []CalendarDay
	for d := first; !d.After(last.Time); d = d.AddDays(1) {
		key := d.String()
		cell := CalendarDay{Date: d, PlannedCount: plannedCount[key]}
		if day, ok := dayByDate[key]; ok {
			cell.Logged = true
			cell.MorningWeight = day.MorningWeight
			cell.IsClosed = day.IsClosed
		}
		if sum, ok := sumByDate[key]; ok {
			net := sum.NetCalories
			cell.NetCalories = &net
		}
		out = append(out, cell)
	}
	return out, nil
}

func summariesByDate(summaries []DailySummary) map[string]DailySummary {
	m := make(map[string]DailySummary, len(summaries))
	for _, s := range summaries {
		m[s.Date.String()] = s
	}
	return m
}

/* ─── Profile ────────────────────────────────────────────────────────── */

// ProfileView is the profile plus what the ledger derives from it.
// Missing names the first required field that is unset, if any.
type ProfileView struct {
	Profile      Profile   `json:"profile"`
	Energy       *Energy   `json:"energy"`
	TargetIntake *float64  `json:"target_intake"`
	Allocation   []float64 `json:"meal_allocation"`
	Missing      string    `json:"missing_field,omitempty"`
}

// ProfileEnergy computes BMR, rest calories and the daily target at the
// profile's start weight.
func (s *Service) ProfileEnergy(ctx context.Context, userID int64) (ProfileView, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		return ProfileView{}, fmt.Errorf("%w: profile for user %d", ErrNotFound, userID)
	}
	view := ProfileView{Profile: *p}
	energy, target, err := DailyTarget(p)
	var missing *MissingFieldError
	switch {
	case errors.As(err, &missing):
		view.Missing = missing.Field
	case err != nil:
		return ProfileView{}, err
	default:
		view.Energy = &energy
		view.TargetIntake = &target
		view.Allocation = AllocateMeals(target)
	}
	return view, nil
}
