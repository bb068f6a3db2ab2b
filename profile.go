package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getProfile returns the user's profile with computed BMR, rest calories,
// daily target and meal allocation. When a required field is unset the
// computed fields are null and missing_field names it.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	view, err := h.svc.ProfileEnergy(c, userID(c))
	if err != nil {
		ledgerError(c, "getProfile", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
