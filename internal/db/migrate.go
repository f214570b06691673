package db

import (
	"context"

	"gorm.io/gorm"

	"bookly/internal/models"
)

// Migrate performs schema migrations for the persistent models.
func Migrate(ctx context.Context, database *gorm.DB) error {
	return database.WithContext(ctx).AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Book{},
		&models.Review{},
		&models.EmailToken{},
		&models.ResetToken{},
		&models.AuditLog{},
	)
}
