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

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB, queue services.TaskQueue) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db, queue),
	}
}

// Register creates a new account
// POST /api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrUsernameTaken) {
			response.BadRequest(c, "registration failed, email or username might already exist")
			return
		}
		logger.Error().Err(err).Msg("registration failed on storage")
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"user_id": user.ID})
}

// GetProfile returns the authenticated user's profile
// GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, profile)
}

// UpdateProfile updates the authenticated user's profile
// PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.UpdateProfile(middleware.GetUserID(c), &req); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, "profile updated", nil)
}

// UserExists reports whether an account exists
// GET /api/users/:id/exists
func (h *UserHandler) UserExists(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	exists, err := h.userService.Exists(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"exists": exists})
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendConfirmationEmail issues a fresh confirmation proof. The answer is
// the same whether or not the address belongs to an account.
// POST /api/email/send-confirmation
func (h *UserHandler) SendConfirmationEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.userService.SendConfirmationEmail(req.Email); err != nil {
		logger.Error().Err(err).Msg("confirmation mail failed on storage")
		response.Error(c, err)
		return
	}

	response.SuccessMessage(c, "if the account exists, a confirmation mail has been sent", nil)
}

type confirmEmailRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Token  string `json:"token" binding:"required"`
}

// ConfirmEmail consumes a confirmation proof
// POST /api/email/confirm
func (h *UserHandler) ConfirmEmail(c *gin.Context) {
	var req confirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	ok, err := h.userService.ConfirmEmail(userID, req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.BadRequest(c, "invalid or expired token")
		return
	}

	response.SuccessMessage(c, "email confirmed successfully", nil)
}
