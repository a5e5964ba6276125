package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/userhub/userhub/internal/models"
	"github.com/userhub/userhub/pkg/logger"
	"gorm.io/gorm"
)

// How long expired/revoked refresh tokens stay around for audit before
// the janitor removes them.
const refreshTokenRetention = 30 * 24 * time.Hour

// Janitor runs the nightly cleanup: refresh tokens past their audit
// retention, lapsed proof tokens, and audit logs past the configured
// retention.
type Janitor struct {
	db            *gorm.DB
	refresh       *RefreshTokenService
	audit         *AuditService
	retentionDays int
	scheduler     *cron.Cron
}

func NewJanitor(db *gorm.DB, refresh *RefreshTokenService, audit *AuditService, auditRetentionDays int) *Janitor {
	return &Janitor{
		db:            db,
		refresh:       refresh,
		audit:         audit,
		retentionDays: auditRetentionDays,
	}
}

// Start schedules the cleanup at 03:30 every night.
func (j *Janitor) Start() {
	j.scheduler = cron.New()

	if _, err := j.scheduler.AddFunc("30 3 * * *", j.RunOnce); err != nil {
		logger.Errorf("[Janitor] Failed to schedule cleanup: %v", err)
		return
	}

	j.scheduler.Start()
	logger.Infof("[Janitor] Scheduled nightly cleanup")
}

func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}

// RunOnce performs one cleanup pass. Exported so operations can trigger it
// out of schedule.
func (j *Janitor) RunOnce() {
	if purged, err := j.refresh.PurgeExpired(refreshTokenRetention); err != nil {
		logger.Errorf("[Janitor] Refresh token purge failed: %v", err)
	} else if purged > 0 {
		logger.Infof("[Janitor] Purged %d stale refresh tokens", purged)
	}

	result := j.db.Where("expires_at < ? OR consumed_at IS NOT NULL", time.Now().Add(-24*time.Hour)).
		Delete(&models.ProofToken{})
	if result.Error != nil {
		logger.Errorf("[Janitor] Proof token purge failed: %v", result.Error)
	} else if result.RowsAffected > 0 {
		logger.Infof("[Janitor] Purged %d proof tokens", result.RowsAffected)
	}

	if removed, err := j.audit.CleanupOldLogs(j.retentionDays); err != nil {
		logger.Errorf("[Janitor] Audit log cleanup failed: %v", err)
	} else if removed > 0 {
		logger.Infof("[Janitor] Removed %d audit records", removed)
	}
}
