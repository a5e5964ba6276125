package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/userhub/userhub/internal/config"
	"github.com/userhub/userhub/internal/services"
	"github.com/userhub/userhub/internal/utils"
	"github.com/userhub/userhub/pkg/logger"
	"github.com/userhub/userhub/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, cfg),
	}
}

// Login handles credential authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	device := utils.NormalizeUserAgent(c.GetHeader("User-Agent"))
	result, err := h.authService.Login(&req, c.ClientIP(), device)
	if err != nil {
		logger.Error().Err(err).Msg("login failed on storage")
		response.Error(c, err)
		return
	}

	writeLoginResult(c, result, "login successful")
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	device := utils.NormalizeUserAgent(c.GetHeader("User-Agent"))
	result, err := h.authService.Refresh(&req, c.ClientIP(), device)
	if err != nil {
		logger.Error().Err(err).Msg("refresh failed on storage")
		response.Error(c, err)
		return
	}

	writeLoginResult(c, result, "token refreshed successfully")
}

// Revoke invalidates a refresh token (logout)
// POST /api/auth/revoke
func (h *AuthHandler) Revoke(c *gin.Context) {
	var req services.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	revoked, err := h.authService.Revoke(&req, c.ClientIP())
	if err != nil {
		logger.Error().Err(err).Msg("revoke failed on storage")
		response.Error(c, err)
		return
	}
	if !revoked {
		response.BadRequest(c, "invalid token or token already revoked")
		return
	}

	response.SuccessMessage(c, "token revoked successfully", nil)
}

// writeLoginResult maps a terminal login status to the HTTP answer. All
// failures share a 401 so status codes leak nothing beyond the message.
func writeLoginResult(c *gin.Context, result *services.LoginResult, successMsg string) {
	switch result.Status {
	case services.StatusAuthenticated:
		response.SuccessMessage(c, successMsg, result)
	case services.StatusRequiresTwoFactor:
		response.SuccessMessage(c, "two-factor authentication required", result)
	default:
		response.UnauthorizedData(c, result.Message, gin.H{
			"status":             result.Status,
			"remaining_attempts": result.RemainingAttempts,
		})
	}
}
