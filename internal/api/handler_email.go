package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type sendMovieEmailRequest struct {
	To        string `json:"to" binding:"required,email"`
	MovieName string `json:"movieName" binding:"required"`
	WatchURL  string `json:"watchUrl" binding:"required,url"`
}

// SendMovieAvailableEmail handles POST /email/send-movie-available.
func (h *Handler) SendMovieAvailableEmail(c *gin.Context) {
	var req sendMovieEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingError(err))
		return
	}

	if err := h.notifier.Send(c.Request.Context(), req.To, req.MovieName, req.WatchURL); err != nil {
		_ = c.Error(err)
		h.log.Warn().Err(err).Str("to", req.To).Msg("direct movie email failed")
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "failed to send email"})
		return
	}

	h.respond(c, http.StatusOK, gin.H{"message": "email sent"}, nil)
}
