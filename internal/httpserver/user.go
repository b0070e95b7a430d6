package httpserver

import (
	"errors"
	"net/http"

	"crm-backoffice/internal/domain"
	usersvc "crm-backoffice/internal/service/user"
	"github.com/gin-gonic/gin"
)

func (h *api) createUser(c *gin.Context) {
	var in usersvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	u, err := h.deps.UserSvc.Create(ctx, in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"msg": "Email already in use"})
			return
		}
		h.respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *api) updateUser(c *gin.Context) {
	var in usersvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	u, err := h.deps.UserSvc.Update(ctx, c.Param("userId"), in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"msg": "Email already in use"})
			return
		}
		h.respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *api) deleteUser(c *gin.Context) {
	ctx, cancel := h.storageCtx(c)
	defer cancel()

	if err := h.deps.UserSvc.Delete(ctx, c.Param("userId")); err != nil {
		h.respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User deleted"})
}
