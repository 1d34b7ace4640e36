package repository

import (
	"github.com/acessae/acessae-backend/internal/app/model"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Replace(token *model.PasswordResetToken) error
	FindByToken(token string) (*model.PasswordResetToken, error)
	DeleteByUserID(userID uint) error
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

// Replace installs the user's single active token, superseding any prior one.
func (r *passwordResetRepository) Replace(token *model.PasswordResetToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).
			Delete(&model.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (r *passwordResetRepository) FindByToken(token string) (*model.PasswordResetToken, error) {
	var reset model.PasswordResetToken
	if err := r.db.Where("token = ?", token).First(&reset).Error; err != nil {
		return nil, err
	}
	return &reset, nil
}

// DeleteByUserID consumes all of a user's tokens.
func (r *passwordResetRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.PasswordResetToken{}).Error
}
