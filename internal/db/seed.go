package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-backoffice/internal/auth"
	"github.com/diewo77/go-backoffice/internal/config"
	"github.com/diewo77/go-backoffice/internal/models"
)

// Seed creates the initial CEO account when the users table is empty.
// It is idempotent.
func Seed(gdb *gorm.DB, admin config.AdminConfig, log *zap.Logger) error {
	var count int64
	if err := gdb.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	u := models.User{Username: admin.Username, PasswordHash: hash, Role: models.RoleCEO}
	if err := gdb.Create(&u).Error; err != nil {
		return err
	}
	log.Info("seeded initial user", zap.String("username", u.Username), zap.String("role", u.Role))
	return nil
}
