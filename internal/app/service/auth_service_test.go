package service

import (
	"testing"
	"time"

	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) (AuthService, repository.UserRepository) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(
		userRepo,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)

	return authService, userRepo
}

func TestAuthService_Register(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	tests := []struct {
		name      string
		userName  string
		email     string
		password  string
		wantErr   error
		wantField string
	}{
		{
			name:     "valid registration",
			userName: "Maria Silva",
			email:    "maria@example.com",
			password: "Str0ng!pass",
		},
		{
			name:     "duplicate email",
			userName: "Other User",
			email:    "maria@example.com",
			password: "Str0ng!pass",
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:      "name too short",
			userName:  "M",
			email:     "short@example.com",
			password:  "Str0ng!pass",
			wantField: "name",
		},
		{
			name:      "invalid email",
			userName:  "Maria Silva",
			email:     "not-an-email",
			password:  "Str0ng!pass",
			wantField: "email",
		},
		{
			name:      "password missing uppercase",
			userName:  "Maria Silva",
			email:     "weak@example.com",
			password:  "str0ng!pass",
			wantField: "password",
		},
		{
			name:      "password missing digit",
			userName:  "Maria Silva",
			email:     "weak@example.com",
			password:  "Strong!pass",
			wantField: "password",
		},
		{
			name:      "password missing special",
			userName:  "Maria Silva",
			email:     "weak@example.com",
			password:  "Str0ngpass",
			wantField: "password",
		},
		{
			name:      "password too short",
			userName:  "Maria Silva",
			email:     "weak@example.com",
			password:  "S1!a",
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(tt.userName, tt.email, tt.password)

			switch {
			case tt.wantField != "":
				ve, ok := AsValidationError(err)
				require.True(t, ok, "expected a validation error, got %v", err)
				assert.Contains(t, ve.Details, tt.wantField)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			default:
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.Equal(t, tt.email, user.Email)
				assert.False(t, user.IsAdmin)
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("Maria Silva", "maria@example.com", "Str0ng!pass")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, tokens, err := authService.Login("maria@example.com", "Str0ng!pass")
		require.NoError(t, err)
		assert.Equal(t, "maria@example.com", user.Email)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := authService.Login("maria@example.com", "Wr0ng!pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := authService.Login("nobody@example.com", "Str0ng!pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, userRepo := setupAuthServiceTest(t)

	user, _, err := authService.Register("Maria Silva", "maria@example.com", "Str0ng!pass")
	require.NoError(t, err)

	t.Run("rename", func(t *testing.T) {
		name := "Maria S. Oliveira"
		updated, err := authService.UpdateProfile(user.ID, ProfileUpdateInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)
	})

	t.Run("non-admin cannot change email", func(t *testing.T) {
		email := "new@example.com"
		updated, err := authService.UpdateProfile(user.ID, ProfileUpdateInput{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "maria@example.com", updated.Email)
	})

	t.Run("admin password change requires current password", func(t *testing.T) {
		admin, _, err := authService.Register("Admin User", "admin@example.com", "Adm1n!pass")
		require.NoError(t, err)
		require.NoError(t, userRepo.Patch(admin.ID, map[string]interface{}{"is_admin": true}))

		wrong := "Wr0ng!pass"
		next := "N3w!passwd"
		_, err = authService.UpdateProfile(admin.ID, ProfileUpdateInput{
			CurrentPassword: &wrong,
			NewPassword:     &next,
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		current := "Adm1n!pass"
		_, err = authService.UpdateProfile(admin.ID, ProfileUpdateInput{
			CurrentPassword: &current,
			NewPassword:     &next,
		})
		require.NoError(t, err)

		_, _, err = authService.Login("admin@example.com", next)
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "Ghost"
		_, err := authService.UpdateProfile(99999, ProfileUpdateInput{Name: &name})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
