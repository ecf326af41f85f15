package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"movie-catalog-backend/internal/mw"
)

const subscribedMessage = "Inscrição na notificação do filme realizada com sucesso."

// SubscribeToMovie handles POST /notifications/movies/:movieId.
func (h *Handler) SubscribeToMovie(c *gin.Context) {
	if err := h.subscriptions.Subscribe(c.Request.Context(), mw.UserID(c), c.Param("movieId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": subscribedMessage})
}

// UnsubscribeFromMovie handles DELETE /notifications/movies/:movieId.
func (h *Handler) UnsubscribeFromMovie(c *gin.Context) {
	if err := h.subscriptions.Unsubscribe(c.Request.Context(), mw.UserID(c), c.Param("movieId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMovieSubscriptionStatus handles GET /notifications/movies/:movieId/status.
func (h *Handler) GetMovieSubscriptionStatus(c *gin.Context) {
	subscribed, err := h.subscriptions.Status(c.Request.Context(), mw.UserID(c), c.Param("movieId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isSubscribed": subscribed})
}
