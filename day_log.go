package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/energy-ledger/internal/ledger"
)

// getDays lists the logged days in a range.
// GET /api/days?start=YYYY-MM-DD&end=YYYY-MM-DD (defaults to the current week).
func (h *Handler) getDays(c *gin.Context) {
	from, to, ok := h.rangeQuery(c)
	if !ok {
		return
	}
	days, err := h.svc.ListDays(c, userID(c), from, to)
	if err != nil {
		ledgerError(c, "getDays", err)
		return
	}
	if days == nil {
		days = []ledger.Day{}
	}
	c.JSON(http.StatusOK, days)
}

// getDay returns everything logged and planned for one date.
// GET /api/days/:date. A date with nothing logged returns empty lists.
func (h *Handler) getDay(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	view, err := h.svc.DayDetail(c, userID(c), date)
	if err != nil {
		ledgerError(c, "getDay", err)
		return
	}
	// Ensure lists are empty arrays (not null) in JSON
	if view.Meals == nil {
		view.Meals = []ledger.MealEntry{}
	}
	if view.Workouts == nil {
		view.Workouts = []ledger.WorkoutEntry{}
	}
	if view.Planned == nil {
		view.Planned = []ledger.PlannedEvent{}
	}
	c.JSON(http.StatusOK, view)
}

// putDay sets the morning weight and/or closed flag.
// PUT /api/days/:date. Omitted fields keep their current value.
func (h *Handler) putDay(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var body putDayRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.UpsertDayLog(c, userID(c), date, ledger.DayLogInput{
		MorningWeight: body.MorningWeight,
		IsClosed:      body.IsClosed,
	})
	if err != nil {
		ledgerError(c, "putDay", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// closeDay finalizes a day. POST /api/days/:date/close.
func (h *Handler) closeDay(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	res, err := h.svc.CloseDay(c, userID(c), date)
	if err != nil {
		ledgerError(c, "closeDay", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// reopenDay makes a closed day editable again. POST /api/days/:date/reopen.
func (h *Handler) reopenDay(c *gin.Context) {
	date, ok := dateParam(c)
	if !ok {
		return
	}
	res, err := h.svc.ReopenDay(c, userID(c), date)
	if err != nil {
		ledgerError(c, "reopenDay", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
