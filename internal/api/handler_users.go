package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingError(err))
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, user, nil)
}

type authenticateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Authenticate handles POST /authenticate.
func (h *Handler) Authenticate(c *gin.Context) {
	var req authenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingError(err))
		return
	}

	token, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, gin.H{"token": token}, nil)
}
