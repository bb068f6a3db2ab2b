package main

import (
	"encoding/json"
	"strings"

	"lg/energy-ledger/internal/ledger"
)

// Request bodies. Dates use ledger.DateOnly so a malformed date fails binding
// with a 400. Nullable fields use pointers to tell "not provided" from zero.

// putDayRequest is the request body for PUT /api/days/:date.
type putDayRequest struct {
	MorningWeight *float64 `json:"morning_weight"`
	IsClosed      *bool    `json:"is_closed"`
}

// createMealRequest is the request body for POST /api/meals. Date defaults to
// today. Provenance is any JSON the calorie estimator attached; it is stored as-is.
type createMealRequest struct {
	Date        *ledger.DateOnly `json:"date"`
	Time        string           `json:"time"`
	Description string           `json:"description"`
	Calories    *float64         `json:"calories"`
	Provenance  json.RawMessage  `json:"provenance"`
}

// createWorkoutRequest is the request body for POST /api/workouts. When
// calories_burned is omitted it is estimated from the description and duration.
type createWorkoutRequest struct {
	Date           *ledger.DateOnly `json:"date"`
	Time           string           `json:"time"`
	Description    string           `json:"description"`
	DurationMin    *int             `json:"duration_min"`
	CaloriesBurned *float64         `json:"calories_burned"`
	Provenance     json.RawMessage  `json:"provenance"`
}

// createPlannedRequest is the request body for POST /api/planned.
type createPlannedRequest struct {
	Date             ledger.DateOnly `json:"date"`
	Time             string          `json:"time"`
	Kind             string          `json:"kind"`
	Title            string          `json:"title"`
	ExpectedCalories *float64        `json:"expected_calories"`
	DurationMin      *int            `json:"duration_min"`
	Notes            string          `json:"notes"`
}

// weekPlanRequest is the request body for POST /api/weekly-plan. week_start
// defaults to the current Monday.
type weekPlanRequest struct {
	WeekStart *ledger.DateOnly     `json:"week_start"`
	Workouts  []ledger.WorkoutSlot `json:"workouts"`
	PlanText  string               `json:"plan_text"`
}

// provenanceText turns the raw provenance JSON into the stored text form.
// Absent and null both mean no provenance.
func provenanceText(raw json.RawMessage) *string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}
	return &s
}
