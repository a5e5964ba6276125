package models

import (
	"fmt"

	"github.com/userhub/userhub/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Role{},
		&Client{},
		&RefreshToken{},
		&ProofToken{},
		&Address{},
		&AuditLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates the registered clients and base roles when they
// do not exist yet.
func SeedDefaultData() error {
	defaultClients := []Client{
		{ClientID: "web", Name: "Web", Description: "Browser frontend", IsActive: true},
		{ClientID: "android", Name: "Android", Description: "Android app", IsActive: true},
		{ClientID: "ios", Name: "iOS", Description: "iOS app", IsActive: true},
	}

	for _, client := range defaultClients {
		var count int64
		DB.Model(&Client{}).Where("client_id = ?", client.ClientID).Count(&count)
		if count == 0 {
			if err := DB.Create(&client).Error; err != nil {
				return err
			}
		}
	}

	defaultRoles := []string{"admin", "customer"}
	for _, name := range defaultRoles {
		var count int64
		DB.Model(&Role{}).Where("name = ?", name).Count(&count)
		if count == 0 {
			if err := DB.Create(&Role{Name: name}).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
