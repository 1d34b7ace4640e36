package db

import (
	"github.com/acessae/acessae-backend/internal/app/model"
	"github.com/acessae/acessae-backend/pkg/logger"
)

// Migrate runs database migrations.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.Location{},
		&model.Review{},
		&model.ReviewCriterion{},
		&model.ReviewPhoto{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
