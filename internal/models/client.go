package models

import "time"

// Client is a registered caller identity ("web", "android", "ios").
// Login and refresh fail before any user lookup when the client is
// unknown or disabled.
type Client struct {
	ClientID    string    `gorm:"primaryKey;size:50" json:"client_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Client) TableName() string { return "clients" }
