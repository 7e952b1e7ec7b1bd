package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopora/backend/internal/service"
	"github.com/shopora/backend/pkg/global"
	"github.com/shopora/backend/pkg/models"
)

func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{
		"status":  "OK",
		"storage": h.StorageMode,
	}))
}

func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data"))
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	result, err := h.Users.Register(ctx, req)
	if err != nil {
		if service.IsDomainError(err) {
			c.JSON(http.StatusBadRequest, global.ErrorResponse(err.Error()))
			return
		}
		serverError(c, "register user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    result.User,
		"message": "Registration successful!",
	})
}

func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data"))
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	result, err := h.Users.Login(ctx, req)
	if err != nil {
		if service.IsDomainError(err) {
			c.JSON(http.StatusBadRequest, global.ErrorResponse(err.Error()))
			return
		}
		serverError(c, "login user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   result.Token,
		"user":    result.User,
		"message": "Login successful!",
	})
}

func (h *Handlers) GetMe(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetMe(ctx, currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse(err.Error()))
			return
		}
		serverError(c, "get user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data"))
		return
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.UpdateProfile(ctx, currentUserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, global.ErrorResponse("First name and last name are required"))
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, global.ErrorResponse(err.Error()))
		default:
			serverError(c, "update user", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"message": "Profile updated successfully!",
	})
}

func (h *Handlers) DeleteAccount(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.DeleteAccount(ctx, currentUserID(c)); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse(err.Error()))
			return
		}
		serverError(c, "delete user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User account deleted successfully",
	})
}

func (h *Handlers) ListUsers(c *gin.Context) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.ListUsers(ctx)
	if err != nil {
		serverError(c, "list users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
		"count":   len(users),
	})
}
