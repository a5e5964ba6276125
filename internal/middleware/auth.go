package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/utils"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextClientID = "client_id"
	ContextRoles    = "roles"
)

// AuthRequired is a middleware that checks for a valid bearer access token
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextClientID, claims.ClientID)
		c.Set(ContextRoles, claims.Roles)

		c.Next()
	}
}

// AdminRequired is a middleware that checks for the admin role
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, role := range GetRoles(c) {
			if role == "admin" {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		c.Abort()
	}
}

// GetUserID gets the current user id from context
func GetUserID(c *gin.Context) uuid.UUID {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uuid.UUID)
	}
	return uuid.Nil
}

// GetUsername gets the current username from context
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get(ContextUsername); exists {
		return username.(string)
	}
	return ""
}

// GetRoles gets the current user's roles from context
func GetRoles(c *gin.Context) []string {
	if roles, exists := c.Get(ContextRoles); exists {
		return roles.([]string)
	}
	return nil
}
