package services

import (
	"testing"

	"github.com/userhub/userhub/internal/models"
)

func TestIsValidClient(t *testing.T) {
	db := openTestDB(t, "client_valid")
	svc := NewClientService(db)

	tests := []struct {
		clientID string
		expected bool
	}{
		{"web", true},
		{"android", true},
		{"legacy", false}, // registered but deactivated
		{"desktop", false},
		{"", false},
	}

	for _, tt := range tests {
		valid, err := svc.IsValidClient(tt.clientID)
		if err != nil {
			t.Fatalf("IsValidClient(%q) error = %v", tt.clientID, err)
		}
		if valid != tt.expected {
			t.Errorf("IsValidClient(%q) = %v, expected %v", tt.clientID, valid, tt.expected)
		}
	}
}

func TestDeactivatedClientPersistsOnCreate(t *testing.T) {
	db := openTestDB(t, "client_inactive_create")

	client := &models.Client{ClientID: "kiosk", Name: "Kiosk", IsActive: false}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var stored models.Client
	if err := db.First(&stored, "client_id = ?", "kiosk").Error; err != nil {
		t.Fatalf("First() error = %v", err)
	}
	if stored.IsActive {
		t.Error("client created inactive was stored as active")
	}
}

func TestClientList(t *testing.T) {
	db := openTestDB(t, "client_list")
	svc := NewClientService(db)

	clients, err := svc.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(clients) != 3 {
		t.Errorf("len(clients) = %d, expected 3", len(clients))
	}
}
