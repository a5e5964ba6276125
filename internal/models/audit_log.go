package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit event names recorded by the auth flows.
const (
	AuditLoginSuccess    = "login_success"
	AuditLoginFailed     = "login_failed"
	AuditLockout         = "lockout"
	AuditTokenRefreshed  = "token_refreshed"
	AuditTokenRevoked    = "token_revoked"
	AuditPasswordChanged = "password_changed"
	AuditPasswordReset   = "password_reset"
	AuditEmailConfirmed  = "email_confirmed"
	AuditUserRegistered  = "user_registered"
)

// AuditLog is a persisted security event. UserID is nullable because some
// events (unknown client, unknown account) have no resolved user.
type AuditLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Event     string     `gorm:"size:50;index;not null" json:"event"`
	UserID    *uuid.UUID `gorm:"type:char(36);index" json:"user_id,omitempty"`
	Username  string     `gorm:"size:100" json:"username,omitempty"`
	ClientID  string     `gorm:"size:50" json:"client_id,omitempty"`
	Detail    string     `gorm:"size:255" json:"detail,omitempty"`
	IP        string     `gorm:"size:64" json:"ip,omitempty"`
	Device    string     `gorm:"size:150" json:"device,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
