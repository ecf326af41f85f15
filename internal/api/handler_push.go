package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"movie-catalog-backend/internal/model"
	"movie-catalog-backend/internal/mw"
)

type putPushDeviceRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutPushDevice registers or refreshes the caller's browser push endpoint.
func (h *Handler) PutPushDevice(c *gin.Context) {
	var req putPushDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingError(err))
		return
	}

	device := &model.PushDevice{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
		UserID:   mw.UserID(c),
	}
	if err := h.store.UpsertPushDevice(c.Request.Context(), device); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

type deletePushDeviceRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeletePushDevice removes one of the caller's push endpoints.
func (h *Handler) DeletePushDevice(c *gin.Context) {
	var req deletePushDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingError(err))
		return
	}

	if err := h.store.DeletePushDevice(c.Request.Context(), mw.UserID(c), req.Endpoint); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetVAPIDPublicKey returns the VAPID public key to the client.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vapid keys are not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publicKey": h.webpush.VAPIDPublicKey})
}
