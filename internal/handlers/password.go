package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/middleware"
	"github.com/userhub/userhub/internal/services"
	"github.com/userhub/userhub/pkg/logger"
	"github.com/userhub/userhub/pkg/response"
	"gorm.io/gorm"
)

type PasswordHandler struct {
	userService *services.UserService
}

func NewPasswordHandler(db *gorm.DB, queue services.TaskQueue) *PasswordHandler {
	return &PasswordHandler{
		userService: services.NewUserService(db, queue),
	}
}

// Forgot issues a password reset proof. The response is identical whether
// or not the address belongs to an account, so this endpoint cannot be
// used to probe for registered emails.
// POST /api/password/forgot
func (h *PasswordHandler) Forgot(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.userService.ForgotPassword(req.Email); err != nil {
		logger.Error().Err(err).Msg("forgot-password failed on storage")
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, "if the account exists, a reset mail has been sent", nil)
}

type resetPasswordRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Reset consumes a reset proof and installs the new password
// POST /api/password/reset
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	ok, err := h.userService.ResetPassword(userID, req.Token, req.NewPassword)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.BadRequest(c, "invalid token or user")
		return
	}

	response.SuccessMessage(c, "password reset successfully", nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// Change updates the password of the authenticated user
// POST /api/password/change
func (h *PasswordHandler) Change(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.userService.ChangePassword(middleware.GetUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			response.BadRequest(c, "current password is incorrect")
		case errors.Is(err, services.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			response.Error(c, err)
		}
		return
	}

	response.SuccessMessage(c, "password changed successfully", nil)
}
