package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account. The password column holds a bcrypt hash and
// is never serialized. Lockout bookkeeping (AccessFailedCount, LockoutEnd)
// is mutated only through CredentialStore so concurrent attempts cannot
// lose updates.
type User struct {
	ID                uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Username          string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email             string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password          string         `gorm:"size:255" json:"-"`
	FullName          string         `gorm:"size:255" json:"full_name"`
	PhoneNumber       string         `gorm:"size:30" json:"phone_number"`
	ProfilePhotoURL   string         `gorm:"size:500" json:"profile_photo_url"`
	EmailConfirmed    bool           `gorm:"default:false" json:"email_confirmed"`
	TwoFactorEnabled  bool           `gorm:"default:false" json:"two_factor_enabled"`
	IsActive          bool           `json:"is_active"`
	AccessFailedCount int            `gorm:"default:0" json:"-"`
	LockoutEnd        *time.Time     `json:"-"`
	LastLoginAt       *time.Time     `json:"last_login_at"`
	Roles             []Role         `gorm:"many2many:user_roles" json:"roles,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// Role is a named authority carried as a claim on access tokens.
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:50;not null" json:"name"`
}

func (Role) TableName() string { return "roles" }
