package controllers

import (
	"errors"
	"os"

	"github.com/Nikhil-737/DigiKart/config"
	"github.com/Nikhil-737/DigiKart/models"
	"github.com/Nikhil-737/DigiKart/utils"
	"gorm.io/gorm"
)

// CreateSampleAdmin ensures an admin account exists, using ADMIN_EMAIL and
// ADMIN_PASSWORD from the environment. Intended for first boot and local
// development.
func CreateSampleAdmin() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		utils.LogInfo("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	var existing models.User
	err := config.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if !existing.IsAdmin {
			return config.DB.Model(&existing).Update("is_admin", true).Error
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.WrapError(err, "failed to check for admin account")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return utils.WrapError(err, "failed to hash admin password")
	}

	admin := models.User{
		Username:   "admin",
		Email:      email,
		Password:   hashed,
		IsAdmin:    true,
		IsVerified: true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		return utils.WrapError(err, "failed to create admin account")
	}

	utils.LogInfo("Created admin account for %s", email)
	return nil
}
