package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a session credential scoped to (user, client, device).
// Only a SHA-256 hash of the opaque value is stored; the composite index
// backs the rotation scan for active tuple matches. Rows are kept after
// revocation for audit.
type RefreshToken struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:char(36);index:idx_refresh_tuple,priority:1;not null" json:"user_id"`
	ClientID          string     `gorm:"size:50;index:idx_refresh_tuple,priority:2;not null" json:"client_id"`
	Device            string     `gorm:"size:150;index:idx_refresh_tuple,priority:3" json:"device"`
	TokenHash         string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt         time.Time  `gorm:"index;not null" json:"expires_at"`
	RevokedAt         *time.Time `gorm:"index:idx_refresh_tuple,priority:4" json:"revoked_at,omitempty"`
	RevokedByIP       string     `gorm:"size:64" json:"revoked_by_ip,omitempty"`
	ReplacedByTokenID *uint      `gorm:"index" json:"replaced_by_token_id,omitempty"`
	CreatedByIP       string     `gorm:"size:64" json:"created_by_ip,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// Active reports whether the token can still be exchanged: not revoked and
// not past its expiry.
func (t *RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
