package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lg/energy-ledger/internal/ledger"
)

// getPlanned lists planned events for one date, or for a range.
// GET /api/planned?date=YYYY-MM-DD, or ?start&end.
func (h *Handler) getPlanned(c *gin.Context) {
	var (
		events []ledger.PlannedEvent
		err    error
	)
	if c.Query("date") != "" {
		date, ok := dateQuery(c, "date", h.today())
		if !ok {
			return
		}
		events, err = h.svc.ListPlanned(c, userID(c), date)
	} else {
		from, to, ok := h.rangeQuery(c)
		if !ok {
			return
		}
		events, err = h.svc.ListPlannedRange(c, userID(c), from, to)
	}
	if err != nil {
		ledgerError(c, "getPlanned", err)
		return
	}
	if events == nil {
		events = []ledger.PlannedEvent{}
	}
	c.JSON(http.StatusOK, events)
}

// createPlanned adds a single planned meal or workout. POST /api/planned.
func (h *Handler) createPlanned(c *gin.Context) {
	var body createPlannedRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date.IsZero() {
		apiError(c, http.StatusBadRequest, "date is required")
		return
	}
	ev, err := h.svc.AddPlanned(c, userID(c), ledger.PlannedInput{
		Date:             body.Date,
		Time:             body.Time,
		Kind:             ledger.EventKind(body.Kind),
		Title:            body.Title,
		ExpectedCalories: body.ExpectedCalories,
		DurationMin:      body.DurationMin,
		Notes:            body.Notes,
	})
	if err != nil {
		ledgerError(c, "createPlanned", err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// markPlannedDone converts a planned event into an actual entry.
// POST /api/planned/:id/done. Repeating the call returns the same entry with
// replay=true and 200 instead of 201.
func (h *Handler) markPlannedDone(c *gin.Context) {
	res, err := h.svc.MarkDone(c, userID(c), c.Param("id"))
	if err != nil {
		ledgerError(c, "markPlannedDone", err)
		return
	}
	status := http.StatusCreated
	if res.Replay {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// skipPlanned marks a planned event skipped. POST /api/planned/:id/skip.
func (h *Handler) skipPlanned(c *gin.Context) {
	ev, err := h.svc.SkipPlanned(c, userID(c), c.Param("id"))
	if err != nil {
		ledgerError(c, "skipPlanned", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// deletePlanned removes a planned event. Returns 204 on success.
// DELETE /api/planned/:id. A done event takes its logged entry with it.
func (h *Handler) deletePlanned(c *gin.Context) {
	if err := h.svc.DeletePlanned(c, userID(c), c.Param("id")); err != nil {
		ledgerError(c, "deletePlanned", err)
		return
	}
	c.Status(http.StatusNoContent)
}
