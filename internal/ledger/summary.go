package ledger

import "time"

// SummaryInput is everything the recompute needs for one (user, date).
// Day may be nil when nothing has been logged yet.
type SummaryInput struct {
	UserID   int64
	Date     DateOnly
	Profile  *Profile
	Day      *Day
	Meals    []MealEntry
	Workouts []WorkoutEntry
}

// summaryWeight prefers the day's morning weight and falls back to the
// profile's start weight.
func summaryWeight(p *Profile, d *Day) (float64, error) {
	if d != nil && d.MorningWeight != nil && *d.MorningWeight > 0 {
		return *d.MorningWeight, nil
	}
	if p != nil && p.StartWeight != nil && *p.StartWeight > 0 {
		return *p.StartWeight, nil
	}
	return 0, missingField("weight")
}

// ComputeSummary derives the daily energy balance. It is pure: the same input
// always yields the same figures, so recomputing is idempotent. Values are
// not rounded; rounding is a presentation concern.
func ComputeSummary(in SummaryInput, now time.Time) (DailySummary, Energy, error) {
	if in.Profile == nil {
		return DailySummary{}, Energy{}, missingField("profile")
	}
	weight, err := summaryWeight(in.Profile, in.Day)
	if err != nil {
		return DailySummary{}, Energy{}, err
	}
	energy, err := RestEnergy(in.Profile, weight)
	if err != nil {
		return DailySummary{}, Energy{}, err
	}

	var caloriesIn, workoutCalories float64
	for _, m := range in.Meals {
		caloriesIn += m.Calories
	}
	for _, w := range in.Workouts {
		workoutCalories += w.Calories
	}
	caloriesOut := energy.RestCalories + workoutCalories

	return DailySummary{
		UserID:          in.UserID,
		Date:            in.Date,
		CaloriesIn:      caloriesIn,
		RestCalories:    energy.RestCalories,
		WorkoutCalories: workoutCalories,
		CaloriesOut:     caloriesOut,
		NetCalories:     caloriesIn - caloriesOut,
		UpdatedAt:       now,
	}, energy, nil
}
