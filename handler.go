package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lg/energy-ledger/internal/ledger"
)

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	svc *ledger.Service
	now func() time.Time // overridable for tests
}

func newHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// ledgerError maps a service error to its HTTP status. Only unexpected errors
// are logged; the rest are the caller's fault and already described by err.
func ledgerError(c *gin.Context, fn string, err error) {
	var missing *ledger.MissingFieldError
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "missing_field": missing.Field})
	case errors.Is(err, ledger.ErrMissingProfileData):
		apiError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrInvalidRange):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		apiError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrDayClosed), errors.Is(err, ledger.ErrInvalidTransition):
		apiError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("[%s] %v", fn, err)
		apiError(c, http.StatusInternalServerError, "internal error")
	}
}

/* ─── Request helpers ─────────────────────────────────────────────────── */

func userID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}

// today is the server's current date.
func (h *Handler) today() ledger.DateOnly {
	return ledger.DateOf(h.now())
}

// dateParam parses the :date path parameter.
func dateParam(c *gin.Context) (ledger.DateOnly, bool) {
	d, err := ledger.ParseDate(c.Param("date"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return ledger.DateOnly{}, false
	}
	return d, true
}

// dateQuery parses an optional YYYY-MM-DD query parameter, falling back to def.
func dateQuery(c *gin.Context, name string, def ledger.DateOnly) (ledger.DateOnly, bool) {
	s := c.Query(name)
	if s == "" {
		return def, true
	}
	d, err := ledger.ParseDate(s)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+name+", expected YYYY-MM-DD")
		return ledger.DateOnly{}, false
	}
	return d, true
}

// rangeQuery reads ?start&end. Both default to the Mon–Sun week containing today.
func (h *Handler) rangeQuery(c *gin.Context) (from, to ledger.DateOnly, ok bool) {
	monday := ledger.MondayOf(h.today())
	if from, ok = dateQuery(c, "start", monday); !ok {
		return
	}
	to, ok = dateQuery(c, "end", from.AddDays(6))
	return
}

// intQuery parses an optional integer query parameter.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	s := c.Query(name)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+name+", expected an integer")
		return 0, false
	}
	return n, true
}

/* ─── Routes ──────────────────────────────────────────────────────────── */

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine, userHeader string) {
	api := router.Group("/api", userMiddleware(userHeader))

	api.GET("/profile", h.getProfile)

	api.GET("/days", h.getDays)
	api.GET("/days/:date", h.getDay)
	api.PUT("/days/:date", h.putDay)
	api.POST("/days/:date/close", h.closeDay)
	api.POST("/days/:date/reopen", h.reopenDay)

	api.POST("/meals", h.createMeal)
	api.DELETE("/meals/:id", h.deleteMeal)
	api.POST("/workouts", h.createWorkout)
	api.DELETE("/workouts/:id", h.deleteWorkout)

	api.GET("/planned", h.getPlanned)
	api.POST("/planned", h.createPlanned)
	api.DELETE("/planned/:id", h.deletePlanned)
	api.POST("/planned/:id/done", h.markPlannedDone)
	api.POST("/planned/:id/skip", h.skipPlanned)

	api.GET("/summaries", h.getSummaries)
	api.POST("/summaries/refresh", h.refreshSummaries)
	api.GET("/stats", h.getStats)
	api.GET("/calendar", h.getCalendar)

	api.POST("/weekly-plan", h.materializeWeek)
	api.GET("/weekly-plan", h.getWeeklyPlan)
}
