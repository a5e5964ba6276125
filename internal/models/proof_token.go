package models

import (
	"time"

	"github.com/google/uuid"
)

// Proof token purposes
const (
	ProofPurposeEmailConfirm  = "email_confirm"
	ProofPurposePasswordReset = "password_reset"
)

// ProofToken is a single-use side-channel credential for email confirmation
// and password reset. Consumption flips ConsumedAt exactly once; a consumed
// or expired token never verifies again.
type ProofToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:char(36);index;not null" json:"user_id"`
	Purpose    string     `gorm:"size:30;index;not null" json:"purpose"`
	TokenHash  string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"index;not null" json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (ProofToken) TableName() string { return "proof_tokens" }
