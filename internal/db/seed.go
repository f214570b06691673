package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookly/internal/models"
)

// Seed inserts the closed set of role labels.
func Seed(ctx context.Context, database *gorm.DB) error {
	for _, roleName := range []string{models.RoleUser, models.RoleAdmin} {
		role := models.Role{Name: roleName}
		if err := database.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
