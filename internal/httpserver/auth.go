package httpserver

import (
	"errors"
	"net/http"

	"crm-backoffice/internal/domain"
	"crm-backoffice/internal/service/auth"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *api) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "email and password required"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	_, access, refresh, err := h.deps.AuthSvc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid credentials"})
			return
		}
		h.respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": access, "refreshToken": refresh})
}

func (h *api) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "refreshToken required"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	access, next, err := h.deps.AuthSvc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid or expired refresh token"})
			return
		}
		h.respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": access, "refreshToken": next})
}

func (h *api) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "refreshToken required"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	if err := h.deps.AuthSvc.Logout(ctx, req.RefreshToken); err != nil {
		h.respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Logged out"})
}
