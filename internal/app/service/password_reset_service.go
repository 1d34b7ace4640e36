package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/acessae/acessae-backend/internal/app/model"
	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/pkg/logger"
	"github.com/acessae/acessae-backend/pkg/mailer"
	"github.com/acessae/acessae-backend/pkg/util"
	"gorm.io/gorm"
)

const (
	resetTokenBytes = 32
	resetTokenTTL   = time.Hour
)

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	sender    mailer.Sender
	baseURL   string
}

func NewPasswordResetService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	sender mailer.Sender,
	baseURL string,
) PasswordResetService {
	return &passwordResetService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		sender:    sender,
		baseURL:   baseURL,
	}
}

// RequestReset issues a reset token and mails it. Unknown emails return nil
// so the endpoint never reveals whether an account exists.
func (s *passwordResetService) RequestReset(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("Password reset requested for unknown email", map[string]interface{}{
				"email": email,
			})
			return nil
		}
		return err
	}

	token, err := util.GenerateSecureToken(resetTokenBytes)
	if err != nil {
		return err
	}

	reset := &model.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Replace(reset); err != nil {
		logger.Error("Failed to store reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	body := mailer.ResetPasswordBody(user.Name, resetURL)
	if err := s.sender.Send(user.Email, "Reset your Acessae password", body); err != nil {
		logger.Error("Failed to send reset email", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

// ResetPassword validates the token, sets the new password and consumes
// every token the user holds.
func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	if violation := passwordViolation(newPassword); violation != "" {
		return &ValidationError{Details: map[string]string{
			"newPassword": violation,
		}}
	}

	reset, err := s.resetRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}
	if time.Now().After(reset.ExpiresAt) {
		// Expired tokens are cleaned up on sight.
		_ = s.resetRepo.DeleteByUserID(reset.UserID)
		return ErrResetTokenInvalid
	}

	user, err := s.userRepo.FindByID(reset.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.resetRepo.DeleteByUserID(user.ID); err != nil {
		logger.Warn("Failed to consume reset token", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	logger.Info("Password reset completed", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}
