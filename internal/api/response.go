package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"movie-catalog-backend/internal/catalog"
	"movie-catalog-backend/internal/notification"
)

// envelope is the body of every catalog response.
type envelope struct {
	Data interface{} `json:"data"`
	Meta gin.H       `json:"meta"`
}

// respond writes data in the envelope. extra is merged into meta.
func (h *Handler) respond(c *gin.Context, status int, data interface{}, extra gin.H) {
	meta := gin.H{
		"timestamp": h.clock.Now().UTC().Format(time.RFC3339Nano),
		"path":      c.Request.URL.Path,
	}
	for k, v := range extra {
		meta[k] = v
	}
	c.JSON(status, envelope{Data: data, Meta: meta})
}

// respondError maps service errors to status codes. Unexpected errors are
// logged and hidden from the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, notification.ErrMovieNotFound),
		errors.Is(err, notification.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, catalog.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
