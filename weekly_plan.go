package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/energy-ledger/internal/ledger"
)

// materializeWeek (re)writes a week of planned events.
// POST /api/weekly-plan. Reapplying the same week replaces its planned events;
// omitting plan_text reuses the narrative stored for that week.
func (h *Handler) materializeWeek(c *gin.Context) {
	var body weekPlanRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	weekStart := ledger.MondayOf(h.today())
	if body.WeekStart != nil {
		weekStart = *body.WeekStart
	}

	res, err := h.svc.MaterializeWeek(c, userID(c), ledger.WeekPlanInput{
		WeekStart: weekStart,
		Workouts:  body.Workouts,
		PlanText:  body.PlanText,
	})
	if err != nil {
		ledgerError(c, "materializeWeek", err)
		return
	}
	if res.PriorWeek == nil {
		res.PriorWeek = []ledger.DailySummary{}
	}
	c.JSON(http.StatusOK, res)
}

// getWeeklyPlan returns the stored narrative for the week containing week_start.
// GET /api/weekly-plan?week_start=YYYY-MM-DD (defaults to the current week).
func (h *Handler) getWeeklyPlan(c *gin.Context) {
	date, ok := dateQuery(c, "week_start", ledger.MondayOf(h.today()))
	if !ok {
		return
	}
	plan, err := h.svc.GetWeeklyPlan(c, userID(c), date)
	if err != nil {
		ledgerError(c, "getWeeklyPlan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
