package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/models"
)

func TestAuditRecordAndList(t *testing.T) {
	db := openTestDB(t, "audit_record")
	svc := NewAuditService(db)
	userID := uuid.New()

	svc.Record(models.AuditLoginFailed, AuditEntry{
		UserID: &userID, Username: "alice", ClientID: "web", IP: "127.0.0.1", Device: "Chrome-120_Windows",
	})
	svc.Record(models.AuditLoginSuccess, AuditEntry{
		UserID: &userID, Username: "alice", ClientID: "web", IP: "127.0.0.1", Device: "Chrome-120_Windows",
	})
	svc.Record(models.AuditTokenRevoked, AuditEntry{IP: "10.0.0.1"})

	result, err := svc.List(&AuditListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if result.Total != 3 {
		t.Errorf("Total = %d, expected 3", result.Total)
	}
	if result.Page != 1 || result.PageSize != 20 {
		t.Errorf("defaults not applied: page=%d size=%d", result.Page, result.PageSize)
	}

	filtered, err := svc.List(&AuditListRequest{Event: models.AuditLoginFailed})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if filtered.Total != 1 {
		t.Errorf("filtered Total = %d, expected 1", filtered.Total)
	}
	if len(filtered.Items) != 1 || filtered.Items[0].Event != models.AuditLoginFailed {
		t.Errorf("filtered items = %+v", filtered.Items)
	}
}

func TestAuditList_Pagination(t *testing.T) {
	db := openTestDB(t, "audit_pagination")
	svc := NewAuditService(db)

	for i := 0; i < 25; i++ {
		svc.Record(models.AuditLoginFailed, AuditEntry{Username: "bob"})
	}

	page2, err := svc.List(&AuditListRequest{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page2.Total != 25 {
		t.Errorf("Total = %d, expected 25", page2.Total)
	}
	if len(page2.Items) != 10 {
		t.Errorf("len(Items) = %d, expected 10", len(page2.Items))
	}
}

func TestCleanupOldLogs(t *testing.T) {
	db := openTestDB(t, "audit_cleanup")
	svc := NewAuditService(db)

	old := models.AuditLog{Event: models.AuditLoginFailed, CreatedAt: time.Now().AddDate(0, 0, -120)}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("failed to seed old log: %v", err)
	}
	svc.Record(models.AuditLoginSuccess, AuditEntry{Username: "carol"})

	removed, err := svc.CleanupOldLogs(90)
	if err != nil {
		t.Fatalf("CleanupOldLogs() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, expected 1", removed)
	}

	var remaining int64
	db.Model(&models.AuditLog{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("remaining = %d, expected 1", remaining)
	}

	// Zero retention disables cleanup.
	removed, err = svc.CleanupOldLogs(0)
	if err != nil {
		t.Fatalf("CleanupOldLogs() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d with retention disabled, expected 0", removed)
	}
}
