package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/userhub/userhub/internal/services"
	"github.com/userhub/userhub/pkg/response"
	"gorm.io/gorm"
)

type AuditLogHandler struct {
	auditService *services.AuditService
}

func NewAuditLogHandler(db *gorm.DB) *AuditLogHandler {
	return &AuditLogHandler{
		auditService: services.NewAuditService(db),
	}
}

// List returns a page of audit records, newest first
// GET /api/admin/audit-logs
func (h *AuditLogHandler) List(c *gin.Context) {
	var req services.AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.auditService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
