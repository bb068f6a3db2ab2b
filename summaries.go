package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lg/energy-ledger/internal/ledger"
)

// getSummaries returns the stored daily summaries in a range.
// GET /api/summaries?start&end (defaults to the current week).
func (h *Handler) getSummaries(c *gin.Context) {
	from, to, ok := h.rangeQuery(c)
	if !ok {
		return
	}
	sums, err := h.svc.ListSummaries(c, userID(c), from, to)
	if err != nil {
		ledgerError(c, "getSummaries", err)
		return
	}
	if sums == nil {
		sums = []ledger.DailySummary{}
	}
	c.JSON(http.StatusOK, sums)
}

// refreshSummaries recomputes every open logged day in a range, e.g. after
// the profile changed. POST /api/summaries/refresh?start&end.
func (h *Handler) refreshSummaries(c *gin.Context) {
	from, to, ok := h.rangeQuery(c)
	if !ok {
		return
	}
	sums, err := h.svc.RefreshSummaries(c, userID(c), from, to)
	if err != nil {
		ledgerError(c, "refreshSummaries", err)
		return
	}
	if sums == nil {
		sums = []ledger.DailySummary{}
	}
	c.JSON(http.StatusOK, sums)
}

// getStats returns per-day rows and closed-day totals for the dashboard.
// GET /api/stats?start&end.
func (h *Handler) getStats(c *gin.Context) {
	from, to, ok := h.rangeQuery(c)
	if !ok {
		return
	}
	stats, err := h.svc.PeriodStats(c, userID(c), from, to)
	if err != nil {
		ledgerError(c, "getStats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getCalendar returns one cell per day of a month.
// GET /api/calendar?year=2026&month=10 (defaults to the current month).
func (h *Handler) getCalendar(c *gin.Context) {
	now := h.now()
	year, ok := intQuery(c, "year", now.Year())
	if !ok {
		return
	}
	month, ok := intQuery(c, "month", int(now.Month()))
	if !ok {
		return
	}
	cells, err := h.svc.MonthCalendar(c, userID(c), year, time.Month(month))
	if err != nil {
		ledgerError(c, "getCalendar", err)
		return
	}
	c.JSON(http.StatusOK, cells)
}
