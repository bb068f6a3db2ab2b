package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/energy-ledger/internal/ledger"
)

// createMeal logs a meal and returns its id with the recomputed summary.
// POST /api/meals. Defaults date to today and time to now if omitted.
func (h *Handler) createMeal(c *gin.Context) {
	var body createMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Calories == nil {
		apiError(c, http.StatusBadRequest, "calories is required")
		return
	}
	date := h.today()
	if body.Date != nil {
		date = *body.Date
	}

	res, err := h.svc.InsertMeal(c, userID(c), ledger.MealInput{
		Date:        date,
		Time:        body.Time,
		Description: body.Description,
		Calories:    *body.Calories,
		Provenance:  provenanceText(body.Provenance),
	})
	if err != nil {
		ledgerError(c, "createMeal", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// createWorkout logs a workout. POST /api/workouts.
// Without calories_burned, the burn is estimated from description and duration.
func (h *Handler) createWorkout(c *gin.Context) {
	var body createWorkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	var calories float64
	switch {
	case body.CaloriesBurned != nil:
		calories = *body.CaloriesBurned
	case body.DurationMin != nil && *body.DurationMin > 0:
		calories = ledger.EstimateWorkoutCalories(body.Description, *body.DurationMin)
	default:
		apiError(c, http.StatusBadRequest, "calories_burned or duration_min is required")
		return
	}
	date := h.today()
	if body.Date != nil {
		date = *body.Date
	}

	res, err := h.svc.InsertWorkout(c, userID(c), ledger.WorkoutInput{
		Date:        date,
		Time:        body.Time,
		Description: body.Description,
		DurationMin: body.DurationMin,
		Calories:    calories,
		Provenance:  provenanceText(body.Provenance),
	})
	if err != nil {
		ledgerError(c, "createWorkout", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// deleteMeal removes a meal and returns the recomputed summary.
// DELETE /api/meals/:id.
func (h *Handler) deleteMeal(c *gin.Context) {
	sum, err := h.svc.DeleteMeal(c, userID(c), c.Param("id"))
	if err != nil {
		ledgerError(c, "deleteMeal", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// deleteWorkout removes a workout and returns the recomputed summary.
// DELETE /api/workouts/:id.
func (h *Handler) deleteWorkout(c *gin.Context) {
	sum, err := h.svc.DeleteWorkout(c, userID(c), c.Param("id"))
	if err != nil {
		ledgerError(c, "deleteWorkout", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
