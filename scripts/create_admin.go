package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/userhub/userhub/internal/config"
	"github.com/userhub/userhub/internal/models"
	"github.com/userhub/userhub/internal/utils"
)

// Creates an admin account with a confirmed email. Usage:
//
//	go run scripts/create_admin.go <username> <email> <password>
func main() {
	if len(os.Args) != 4 {
		fmt.Println("usage: create_admin <username> <email> <password>")
		os.Exit(1)
	}
	username, email, password := os.Args[1], os.Args[2], os.Args[3]

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	if err := models.AutoMigrate(); err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		os.Exit(1)
	}
	if err := models.SeedDefaultData(); err != nil {
		fmt.Printf("Failed to seed default data: %v\n", err)
		os.Exit(1)
	}

	db := models.GetDB()

	var count int64
	db.Model(&models.User{}).Where("username = ? OR email = ?", username, email).Count(&count)
	if count > 0 {
		fmt.Println("A user with that username or email already exists")
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Printf("Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	user := models.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		Password:       hashed,
		EmailConfirmed: true,
		IsActive:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		fmt.Printf("Failed to create user: %v\n", err)
		os.Exit(1)
	}

	var role models.Role
	if err := db.Where("name = ?", "admin").First(&role).Error; err != nil {
		fmt.Printf("Failed to load admin role: %v\n", err)
		os.Exit(1)
	}
	if err := db.Model(&user).Association("Roles").Append(&role); err != nil {
		fmt.Printf("Failed to assign admin role: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created admin user %s (%s)\n", username, user.ID)
}
