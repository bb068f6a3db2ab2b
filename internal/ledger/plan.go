package ledger

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// MealSlot is one of the four daily meals a week plan allocates calories to.
type MealSlot struct {
	Name     string
	Time     string
	Fraction float64
}

// MealSlots splits the daily target. Fractions sum to 1; dinner is last and
// absorbs the rounding remainder.
var MealSlots = []MealSlot{
	{Name: "Breakfast", Time: "08:00", Fraction: 0.25},
	{Name: "Lunch", Time: "13:00", Fraction: 0.35},
	{Name: "Snack", Time: "17:00", Fraction: 0.10},
	{Name: "Dinner", Time: "20:30", Fraction: 0.30},
}

const (
	defaultWorkoutTime  = "19:00"
	defaultWorkoutTitle = "Workout"
	planNotesLimit      = 350
)

// WorkoutSlot is a workout the user intends to do during the week.
type WorkoutSlot struct {
	Date        DateOnly `json:"date"`
	Time        string   `json:"time"`
	Title       string   `json:"title"`
	DurationMin int      `json:"duration_min"`
}

// AllocateMeals rounds each slot to whole kcal and gives the last slot the
// remainder so the slots always sum to round(target).
func AllocateMeals(target float64) []float64 {
	total := math.Round(target)
	out := make([]float64, len(MealSlots))
	var allocated float64
	for i, slot := range MealSlots {
		if i == len(MealSlots)-1 {
			out[i] = total - allocated
			break
		}
		out[i] = math.Round(target * slot.Fraction)
		allocated += out[i]
	}
	return out
}

// truncateNotes cuts the plan narrative to planNotesLimit runes.
func truncateNotes(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= planNotesLimit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:planNotesLimit])) + "…"
}

// defaultPlanText is the narrative stored when no plan text was supplied
// and none is cached for the week.
func defaultPlanText(goalType *string, rest, target float64, workouts []WorkoutSlot) string {
	goal := "maintenance"
	if goalType != nil && *goalType != "" {
		goal = *goalType
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s. Daily target %.0f kcal (rest %.0f kcal).\n", goal, target, rest)
	alloc := AllocateMeals(target)
	for i, slot := range MealSlots {
		fmt.Fprintf(&b, "%s at %s: %.0f kcal.\n", slot.Name, slot.Time, alloc[i])
	}
	if len(workouts) == 0 {
		b.WriteString("No workouts planned.")
	} else {
		fmt.Fprintf(&b, "%d workout(s) planned.", len(workouts))
	}
	return b.String()
}

// normalizeSlot fills in the default time and title.
func normalizeSlot(w WorkoutSlot) WorkoutSlot {
	if strings.TrimSpace(w.Time) == "" {
		w.Time = defaultWorkoutTime
	}
	if strings.TrimSpace(w.Title) == "" {
		w.Title = defaultWorkoutTitle
	}
	return w
}

// validateWeek checks the week start and every workout slot.
func validateWeek(weekStart DateOnly, workouts []WorkoutSlot) error {
	if weekStart.Weekday() != time.Monday {
		return invalidf("week_start %s is not a Monday", weekStart)
	}
	weekEnd := weekStart.AddDays(6)
	for i, w := range workouts {
		w = normalizeSlot(w)
		if w.Date.Before(weekStart.Time) || w.Date.After(weekEnd.Time) {
			return invalidf("workout %d on %s is outside week %s..%s", i, w.Date, weekStart, weekEnd)
		}
		if w.DurationMin <= 0 {
			return invalidf("workout %d: duration_min must be > 0", i)
		}
		if err := validateClock(w.Time); err != nil {
			return err
		}
	}
	return nil
}

// PlanWeek expands a week into planned events: four meal slots for each of the
// seven days followed by the workout slots in input order. It is pure; ids,
// user and timestamps are assigned by the caller.
func PlanWeek(weekStart DateOnly, target float64, workouts []WorkoutSlot, planText string) []PlannedEvent {
	notes := truncateNotes(planText)
	alloc := AllocateMeals(target)

	events := make([]PlannedEvent, 0, 7*len(MealSlots)+len(workouts))
	for day := 0; day < 7; day++ {
		date := weekStart.AddDays(day)
		for i, slot := range MealSlots {
			kcal := alloc[i]
			events = append(events, PlannedEvent{
				Date:             date,
				Time:             slot.Time,
				Kind:             KindMeal,
				Title:            slot.Name + " (plan)",
				ExpectedCalories: &kcal,
				Status:           StatusPlanned,
				Notes:            notes,
			})
		}
	}
	for _, w := range workouts {
		w = normalizeSlot(w)
		kcal := EstimateWorkoutCalories(w.Title, w.DurationMin)
		duration := w.DurationMin
		events = append(events, PlannedEvent{
			Date:             w.Date,
			Time:             w.Time,
			Kind:             KindWorkout,
			Title:            w.Title,
			ExpectedCalories: &kcal,
			DurationMin:      &duration,
			Status:           StatusPlanned,
			Notes:            "Planned workout",
		})
	}
	return events
}
