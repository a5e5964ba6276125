package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a postal-address book entry owned by a user.
type Address struct {
	ID                uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:char(36);index;not null" json:"user_id"`
	AddressLine1      string    `gorm:"size:255;not null" json:"address_line1"`
	AddressLine2      string    `gorm:"size:255" json:"address_line2"`
	City              string    `gorm:"size:100" json:"city"`
	State             string    `gorm:"size:100" json:"state"`
	PostalCode        string    `gorm:"size:20" json:"postal_code"`
	Country           string    `gorm:"size:100" json:"country"`
	IsDefaultBilling  bool      `gorm:"default:false" json:"is_default_billing"`
	IsDefaultShipping bool      `gorm:"default:false" json:"is_default_shipping"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Address) TableName() string { return "addresses" }
