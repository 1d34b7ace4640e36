package service

import (
	"testing"
	"time"

	"github.com/acessae/acessae-backend/internal/app/model"
	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingSender captures outgoing mail instead of dialing SMTP.
type recordingSender struct {
	to     []string
	bodies []string
}

func (r *recordingSender) Send(to, subject, htmlBody string) error {
	r.to = append(r.to, to)
	r.bodies = append(r.bodies, htmlBody)
	return nil
}

func setupPasswordResetTest(t *testing.T) (PasswordResetService, AuthService, *recordingSender, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	resetRepo := repository.NewPasswordResetRepository(testDB)
	sender := &recordingSender{}

	resetService := NewPasswordResetService(userRepo, resetRepo, sender, "http://localhost:3000")
	authService := NewAuthService(userRepo, "test-secret", 15*time.Minute, 24*time.Hour)

	return resetService, authService, sender, testDB
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	resetService, authService, sender, testDB := setupPasswordResetTest(t)

	user, _, err := authService.Register("Maria Silva", "maria@example.com", "Str0ng!pass")
	require.NoError(t, err)

	t.Run("known email sends mail and stores token", func(t *testing.T) {
		require.NoError(t, resetService.RequestReset("maria@example.com"))

		require.Len(t, sender.to, 1)
		assert.Equal(t, "maria@example.com", sender.to[0])
		assert.Contains(t, sender.bodies[0], "http://localhost:3000/reset-password?token=")

		var token model.PasswordResetToken
		require.NoError(t, testDB.Where("user_id = ?", user.ID).First(&token).Error)
		assert.NotEmpty(t, token.Token)
		assert.True(t, token.ExpiresAt.After(time.Now()))
	})

	t.Run("second request replaces the token", func(t *testing.T) {
		var before model.PasswordResetToken
		require.NoError(t, testDB.Where("user_id = ?", user.ID).First(&before).Error)

		require.NoError(t, resetService.RequestReset("maria@example.com"))

		var tokens []model.PasswordResetToken
		require.NoError(t, testDB.Where("user_id = ?", user.ID).Find(&tokens).Error)
		require.Len(t, tokens, 1, "only one active token per user")
		assert.NotEqual(t, before.Token, tokens[0].Token)
	})

	t.Run("unknown email succeeds silently", func(t *testing.T) {
		sent := len(sender.to)
		require.NoError(t, resetService.RequestReset("nobody@example.com"))
		assert.Len(t, sender.to, sent, "no mail for unknown accounts")
	})
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	resetService, authService, _, testDB := setupPasswordResetTest(t)

	user, _, err := authService.Register("Maria Silva", "maria@example.com", "Str0ng!pass")
	require.NoError(t, err)

	require.NoError(t, resetService.RequestReset("maria@example.com"))
	var reset model.PasswordResetToken
	require.NoError(t, testDB.Where("user_id = ?", user.ID).First(&reset).Error)

	t.Run("weak new password rejected", func(t *testing.T) {
		err := resetService.ResetPassword(reset.Token, "weak")
		_, ok := AsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("valid token sets password and is consumed", func(t *testing.T) {
		require.NoError(t, resetService.ResetPassword(reset.Token, "N3w!passwd"))

		_, _, err := authService.Login("maria@example.com", "N3w!passwd")
		assert.NoError(t, err)
		_, _, err = authService.Login("maria@example.com", "Str0ng!pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		// Token cannot be reused.
		err = resetService.ResetPassword(reset.Token, "An0ther!pw")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	})

	t.Run("unknown token", func(t *testing.T) {
		err := resetService.ResetPassword("deadbeef", "N3w!passwd")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		require.NoError(t, resetService.RequestReset("maria@example.com"))
		var stale model.PasswordResetToken
		require.NoError(t, testDB.Where("user_id = ?", user.ID).First(&stale).Error)

		require.NoError(t, testDB.Model(&stale).
			Update("expires_at", time.Now().Add(-time.Minute)).Error)

		err := resetService.ResetPassword(stale.Token, "N3w!passwd")
		assert.ErrorIs(t, err, ErrResetTokenInvalid)

		// Expired tokens are removed on sight.
		var count int64
		testDB.Model(&model.PasswordResetToken{}).Where("user_id = ?", user.ID).Count(&count)
		assert.Zero(t, count)
	})
}
