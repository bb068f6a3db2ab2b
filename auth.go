package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// userMiddleware reads the user id the upstream gateway put in header and sets
// user_id on the context. Requests without a positive numeric id are rejected.
func userMiddleware(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(header))
		if raw == "" {
			apiError(c, http.StatusUnauthorized, "missing "+header+" header")
			c.Abort()
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			apiError(c, http.StatusUnauthorized, "invalid "+header+" header")
			c.Abort()
			return
		}

		c.Set("user_id", id)
		c.Next()
	}
}
