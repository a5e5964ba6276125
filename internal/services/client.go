package services

import (
	"errors"

	"github.com/userhub/userhub/internal/models"
	"gorm.io/gorm"
)

// ClientService answers whether a caller-supplied client id names a known,
// active client. Pure lookup, no side effects.
type ClientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

func (s *ClientService) IsValidClient(clientID string) (bool, error) {
	if clientID == "" {
		return false, nil
	}

	var client models.Client
	err := s.db.Where("client_id = ?", clientID).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return client.IsActive, nil
}

func (s *ClientService) List() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Order("client_id").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}
