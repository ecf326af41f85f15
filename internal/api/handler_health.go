package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

// GetHealth reports whether the service can reach its database.
func (h *Handler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "error",
			"database": "down",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "up",
	})
}
