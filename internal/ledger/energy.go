package ledger

import (
	"math"
	"strings"
)

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// defaultActivityLevel applies when the profile has no level or an unknown one.
const defaultActivityLevel = "light"

const (
	// minimumDailyIntake is a safety clamp on weight-loss targets, not a recommendation.
	minimumDailyIntake = 1200.0
	lossDeficit        = 500.0
	gainSurplus        = 250.0
)

// ValidActivityLevel reports whether level is one of the known activity levels.
func ValidActivityLevel(level string) bool {
	_, ok := activityMultipliers[level]
	return ok
}

// ActivityFactor returns the TDEE multiplier for level. defaulted is true when
// level is nil or unknown and the "light" factor was used instead.
func ActivityFactor(level *string) (factor float64, defaulted bool) {
	if level != nil {
		if mult, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(*level))]; ok {
			return mult, false
		}
	}
	return activityMultipliers[defaultActivityLevel], true
}

// normalizeSex accepts M/F and male/female in any case.
func normalizeSex(sex string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(sex)) {
	case "m", "male":
		return "M", true
	case "f", "female":
		return "F", true
	}
	return "", false
}

// MifflinStJeor computes BMR in kcal/day. sex must be "M" or "F".
func MifflinStJeor(sex string, weightKG, heightCM float64, age int) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if sex == "M" {
		return bmr + 5
	}
	return bmr - 161
}

// bodyStats are the profile fields BMR cannot do without.
type bodyStats struct {
	sex      string
	age      int
	heightCM float64
}

func requireBodyStats(p *Profile) (bodyStats, error) {
	if p == nil {
		return bodyStats{}, missingField("profile")
	}
	if p.Sex == nil {
		return bodyStats{}, missingField("sex")
	}
	sex, ok := normalizeSex(*p.Sex)
	if !ok {
		return bodyStats{}, missingField("sex")
	}
	if p.Age == nil || *p.Age <= 0 {
		return bodyStats{}, missingField("age")
	}
	if p.HeightCM == nil || *p.HeightCM <= 0 {
		return bodyStats{}, missingField("height_cm")
	}
	return bodyStats{sex: sex, age: *p.Age, heightCM: *p.HeightCM}, nil
}

// Energy is the BMR/TDEE breakdown for a profile at a given body weight.
type Energy struct {
	WeightKG               float64 `json:"weight_kg"`
	BMR                    float64 `json:"bmr"`
	ActivityFactor         float64 `json:"activity_factor"`
	ActivityLevelDefaulted bool    `json:"activity_level_defaulted"`
	RestCalories           float64 `json:"rest_calories"`
}

// RestEnergy computes BMR (Mifflin-St Jeor) and rest calories (BMR × activity
// factor) for p at weightKG. Missing sex, age or height is an error; a missing
// activity level falls back to "light" and is reported in the result.
func RestEnergy(p *Profile, weightKG float64) (Energy, error) {
	stats, err := requireBodyStats(p)
	if err != nil {
		return Energy{}, err
	}
	if weightKG <= 0 {
		return Energy{}, missingField("weight")
	}
	bmr := MifflinStJeor(stats.sex, weightKG, stats.heightCM, stats.age)
	factor, defaulted := ActivityFactor(p.ActivityLevel)
	return Energy{
		WeightKG:               weightKG,
		BMR:                    bmr,
		ActivityFactor:         factor,
		ActivityLevelDefaulted: defaulted,
		RestCalories:           bmr * factor,
	}, nil
}

// TargetIntake derives the daily calorie target from rest calories and the goal.
// Loss targets never go below minimumDailyIntake.
func TargetIntake(goalType *string, restCalories float64) float64 {
	goal := ""
	if goalType != nil {
		goal = strings.ToLower(strings.TrimSpace(*goalType))
	}
	switch goal {
	case "loss":
		return math.Max(restCalories-lossDeficit, minimumDailyIntake)
	case "gain":
		return restCalories + gainSurplus
	default:
		return restCalories
	}
}

// DailyTarget computes rest calories at the profile's start weight and the
// goal-driven intake target. Used for planning, where no per-day weight exists yet.
func DailyTarget(p *Profile) (Energy, float64, error) {
	if _, err := requireBodyStats(p); err != nil {
		return Energy{}, 0, err
	}
	if p.StartWeight == nil || *p.StartWeight <= 0 {
		return Energy{}, 0, missingField("start_weight")
	}
	energy, err := RestEnergy(p, *p.StartWeight)
	if err != nil {
		return Energy{}, 0, err
	}
	return energy, TargetIntake(p.GoalType, energy.RestCalories), nil
}

/* ─── Workout heuristics ─────────────────────────────────────────────── */

// workoutRates maps title keywords to kcal burned per minute. First match wins.
var workoutRates = []struct {
	keywords   []string
	kcalPerMin float64
}{
	{[]string{"run", "jog", "corsa"}, 10},
	{[]string{"strength", "weight", "gym", "lift", "pesi", "forza"}, 6},
	{[]string{"walk", "hike", "cammin"}, 5},
	{[]string{"cycl", "bike", "spin", "cicl"}, 8},
}

const defaultWorkoutRate = 7.5

// WorkoutRate returns the heuristic kcal/minute for a workout title.
func WorkoutRate(title string) float64 {
	t := strings.ToLower(title)
	for _, r := range workoutRates {
		for _, kw := range r.keywords {
			if strings.Contains(t, kw) {
				return r.kcalPerMin
			}
		}
	}
	return defaultWorkoutRate
}

// EstimateWorkoutCalories multiplies the title's heuristic rate by the duration.
func EstimateWorkoutCalories(title string, durationMin int) float64 {
	if durationMin <= 0 {
		return 0
	}
	return WorkoutRate(title) * float64(durationMin)
}

/* ─── Calendar helpers ───────────────────────────────────────────────── */

// MondayOf returns the Monday of d's week. Uses AddDate to safely handle
// month/year boundaries.
func MondayOf(d DateOnly) DateOnly {
	weekday := int(d.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // treat Sunday as day 7 so Mon=1..Sun=7
	}
	return d.AddDays(-(weekday - 1))
}
