package main

import (
	"github.com/gin-gonic/gin"
	"github.com/userhub/userhub/internal/middleware"
	"github.com/userhub/userhub/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential endpoints
	credentialLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "userhub"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", credentialLimiter.Middleware())
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.POST("/revoke", svc.authHandler.Revoke)
		}

		// Registration and recovery (public, rate limited)
		public := api.Group("", credentialLimiter.Middleware())
		{
			public.POST("/register", svc.userHandler.Register)
			public.POST("/password/forgot", svc.passwordHandler.Forgot)
			public.POST("/password/reset", svc.passwordHandler.Reset)
			public.POST("/email/send-confirmation", svc.userHandler.SendConfirmationEmail)
			public.POST("/email/confirm", svc.userHandler.ConfirmEmail)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Profile
			protected.GET("/profile", svc.userHandler.GetProfile)
			protected.PUT("/profile", svc.userHandler.UpdateProfile)
			protected.POST("/password/change", svc.passwordHandler.Change)
			protected.GET("/users/:id/exists", svc.userHandler.UserExists)

			// Addresses
			protected.POST("/addresses", svc.addressHandler.Save)
			protected.GET("/addresses", svc.addressHandler.List)
			protected.GET("/addresses/:id", svc.addressHandler.Get)
			protected.DELETE("/addresses/:id", svc.addressHandler.Delete)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/audit-logs", svc.auditHandler.List)
		}
	}
}
