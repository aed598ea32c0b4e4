package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/config"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin ensures the configured administrator account exists. A no-op
// when ADMIN_EMAIL / ADMIN_PASSWORD are unset or the account already exists.
func SeedAdmin(cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var existing models.User
	err := DB.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		if existing.Role != "admin" {
			return DB.Model(&existing).Update("role", "admin").Error
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		ID:       uuid.New(),
		Email:    cfg.AdminEmail,
		Password: string(hash),
		Role:     "admin",
	}
	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	slog.Info("admin account seeded", "email", cfg.AdminEmail)
	return nil
}
