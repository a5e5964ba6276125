package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/models"
	"gorm.io/gorm"
)

// AddressService is the postal-address book. Every operation is scoped to
// the owning user; an address id from another account behaves like a
// missing one.
type AddressService struct {
	db *gorm.DB
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

type AddressRequest struct {
	ID                *uuid.UUID `json:"id,omitempty"`
	AddressLine1      string     `json:"address_line1" binding:"required"`
	AddressLine2      string     `json:"address_line2"`
	City              string     `json:"city"`
	State             string     `json:"state"`
	PostalCode        string     `json:"postal_code"`
	Country           string     `json:"country"`
	IsDefaultBilling  bool       `json:"is_default_billing"`
	IsDefaultShipping bool       `json:"is_default_shipping"`
}

// AddOrUpdate creates the address when the id is absent or unknown, and
// overwrites it otherwise. Returns the effective address id.
func (s *AddressService) AddOrUpdate(userID uuid.UUID, req *AddressRequest) (uuid.UUID, error) {
	if req.ID != nil {
		var existing models.Address
		err := s.db.Where("id = ? AND user_id = ?", *req.ID, userID).First(&existing).Error
		if err == nil {
			existing.AddressLine1 = req.AddressLine1
			existing.AddressLine2 = req.AddressLine2
			existing.City = req.City
			existing.State = req.State
			existing.PostalCode = req.PostalCode
			existing.Country = req.Country
			existing.IsDefaultBilling = req.IsDefaultBilling
			existing.IsDefaultShipping = req.IsDefaultShipping
			if err := s.db.Save(&existing).Error; err != nil {
				return uuid.Nil, err
			}
			return existing.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, err
		}
	}

	address := models.Address{
		ID:                uuid.New(),
		UserID:            userID,
		AddressLine1:      req.AddressLine1,
		AddressLine2:      req.AddressLine2,
		City:              req.City,
		State:             req.State,
		PostalCode:        req.PostalCode,
		Country:           req.Country,
		IsDefaultBilling:  req.IsDefaultBilling,
		IsDefaultShipping: req.IsDefaultShipping,
	}
	if err := s.db.Create(&address).Error; err != nil {
		return uuid.Nil, err
	}
	return address.ID, nil
}

func (s *AddressService) List(userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	if err := s.db.Where("user_id = ?", userID).Order("created_at").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

func (s *AddressService) Get(userID, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// Delete removes the address and reports whether anything was deleted.
func (s *AddressService) Delete(userID, addressID uuid.UUID) (bool, error) {
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&models.Address{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
