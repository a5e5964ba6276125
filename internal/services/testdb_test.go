package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/models"
	"github.com/userhub/userhub/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens an isolated in-memory database. The name keeps shared
// cache connections of one test apart from other tests running in the
// same process.
func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Client{},
		&models.RefreshToken{},
		&models.ProofToken{},
		&models.Address{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	seedClients(t, db)
	return db
}

func seedClients(t *testing.T, db *gorm.DB) {
	t.Helper()

	clients := []models.Client{
		{ClientID: "web", Name: "Web", IsActive: true},
		{ClientID: "android", Name: "Android", IsActive: true},
		{ClientID: "legacy", Name: "Legacy", IsActive: false},
	}
	for _, client := range clients {
		if err := db.Create(&client).Error; err != nil {
			t.Fatalf("failed to seed client %s: %v", client.ClientID, err)
		}
	}

	for _, name := range []string{"admin", "customer"} {
		if err := db.Create(&models.Role{Name: name}).Error; err != nil {
			t.Fatalf("failed to seed role %s: %v", name, err)
		}
	}
}

type testUserOpts struct {
	emailConfirmed   bool
	twoFactorEnabled bool
	inactive         bool
	failedCount      int
	lockoutEnd       *time.Time
}

// seedUser inserts a user with the given password and returns it.
func seedUser(t *testing.T, db *gorm.DB, username, email, password string, opts testUserOpts) *models.User {
	t.Helper()

	hashed, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		ID:                uuid.New(),
		Username:          username,
		Email:             email,
		Password:          hashed,
		EmailConfirmed:    opts.emailConfirmed,
		TwoFactorEnabled:  opts.twoFactorEnabled,
		IsActive:          !opts.inactive,
		AccessFailedCount: opts.failedCount,
		LockoutEnd:        opts.lockoutEnd,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}

	var role models.Role
	if err := db.Where("name = ?", "customer").First(&role).Error; err != nil {
		t.Fatalf("failed to load customer role: %v", err)
	}
	if err := db.Model(&user).Association("Roles").Append(&role); err != nil {
		t.Fatalf("failed to assign role: %v", err)
	}

	return &user
}
