package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/models"
	"github.com/userhub/userhub/pkg/logger"
	"gorm.io/gorm"
)

// AuditService records security events to the audit_logs table. Writes are
// best-effort: a failed audit insert is logged but never fails the request
// that produced it.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// AuditEntry carries the optional context of an event.
type AuditEntry struct {
	UserID   *uuid.UUID
	Username string
	ClientID string
	Detail   string
	IP       string
	Device   string
}

func (s *AuditService) Record(event string, entry AuditEntry) {
	record := models.AuditLog{
		Event:    event,
		UserID:   entry.UserID,
		Username: entry.Username,
		ClientID: entry.ClientID,
		Detail:   entry.Detail,
		IP:       entry.IP,
		Device:   entry.Device,
	}
	if err := s.db.Create(&record).Error; err != nil {
		logger.Error().Err(err).Str("event", event).Msg("failed to write audit log")
	}
}

type AuditListRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"max=100"`
	Event     string `form:"event"`
	UserID    string `form:"user_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type AuditListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Items    []models.AuditLog `json:"items"`
}

func (s *AuditService) List(req *AuditListRequest) (*AuditListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var logs []models.AuditLog
	var total int64

	query := s.db.Model(&models.AuditLog{})

	if req.Event != "" {
		query = query.Where("event = ?", req.Event)
	}
	if req.UserID != "" {
		query = query.Where("user_id = ?", req.UserID)
	}
	if req.StartDate != "" {
		query = query.Where("created_at >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("created_at <= ?", req.EndDate+" 23:59:59")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return &AuditListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}

// CleanupOldLogs deletes audit records older than retentionDays and
// returns how many were removed.
func (s *AuditService) CleanupOldLogs(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
