package main

import (
	"context"

	"github.com/userhub/userhub/internal/config"
	"github.com/userhub/userhub/internal/handlers"
	"github.com/userhub/userhub/internal/models"
	"github.com/userhub/userhub/internal/services"
	"github.com/userhub/userhub/internal/utils"
	"github.com/userhub/userhub/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	taskQueue       services.TaskQueue
	worker          *services.Worker
	janitor         *services.Janitor
	authHandler     *handlers.AuthHandler
	userHandler     *handlers.UserHandler
	passwordHandler *handlers.PasswordHandler
	addressHandler  *handlers.AddressHandler
	auditHandler    *handlers.AuditLogHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	if err := utils.SetJWTSecret(cfg.JWT.Secret); err != nil {
		logger.Fatalf("Refusing to start: %v", err)
	}
	utils.SetJWTIssuer(cfg.JWT.Issuer)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default clients and roles
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	db := models.GetDB()

	// Initialize email delivery (uses Redis queue if enabled, otherwise sync mode)
	emailService := services.NewEmailService(&cfg.SMTP)
	deliver := func(ctx context.Context, task *services.EmailTask) error {
		return emailService.Send(task.To, task.Subject, task.Body)
	}

	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(deliver)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(deliver)
			worker.Start()
		}
	}

	// Start nightly token and audit log cleanup
	refreshService := services.NewRefreshTokenService(db, cfg.JWT.RefreshTokenDays)
	auditService := services.NewAuditService(db)
	janitor := services.NewJanitor(db, refreshService, auditService, cfg.Audit.RetentionDays)
	janitor.Start()

	return &appServices{
		taskQueue:       taskQueue,
		worker:          worker,
		janitor:         janitor,
		authHandler:     handlers.NewAuthHandler(db, cfg),
		userHandler:     handlers.NewUserHandler(db, taskQueue),
		passwordHandler: handlers.NewPasswordHandler(db, taskQueue),
		addressHandler:  handlers.NewAddressHandler(db),
		auditHandler:    handlers.NewAuditLogHandler(db),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.janitor.Stop()
	logger.Info().Msg("Schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
