package service

import (
	"errors"
	"net/mail"
	"time"
	"unicode"

	"github.com/acessae/acessae-backend/internal/app/model"
	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/pkg/logger"
	"github.com/acessae/acessae-backend/pkg/util"
	"gorm.io/gorm"
)

// ProfileUpdateInput carries the optional self-service profile fields. Email
// and password changes are reserved to administrators; a password change
// requires the current password.
type ProfileUpdateInput struct {
	Name            *string
	Email           *string
	CurrentPassword *string
	NewPassword     *string
}

type AuthService interface {
	Register(name, email, password string) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(name, email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
	})

	if details := validateRegistration(name, email, password); len(details) > 0 {
		return nil, nil, &ValidationError{Details: details}
	}

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	updated := false

	if input.Name != nil {
		if len(*input.Name) < 2 {
			return nil, &ValidationError{Details: map[string]string{
				"name": "name must be at least 2 characters",
			}}
		}
		user.Name = *input.Name
		updated = true
	}

	if user.IsAdmin {
		if input.Email != nil && *input.Email != user.Email {
			if _, err := mail.ParseAddress(*input.Email); err != nil {
				return nil, &ValidationError{Details: map[string]string{
					"email": "invalid email address",
				}}
			}
			taken, err := s.userRepo.EmailTaken(*input.Email, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailAlreadyExists
			}
			user.Email = *input.Email
			updated = true
		}

		if input.NewPassword != nil {
			if input.CurrentPassword == nil || !util.VerifyPassword(user.PasswordHash, *input.CurrentPassword) {
				return nil, ErrInvalidCredentials
			}
			if violation := passwordViolation(*input.NewPassword); violation != "" {
				return nil, &ValidationError{Details: map[string]string{
					"newPassword": violation,
				}}
			}
			hashed, err := util.HashPassword(*input.NewPassword)
			if err != nil {
				return nil, err
			}
			user.PasswordHash = hashed
			updated = true
		}
	}

	if !updated {
		return user, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		user.IsAdmin,
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

func validateRegistration(name, email, password string) map[string]string {
	details := make(map[string]string)
	if len(name) < 2 {
		details["name"] = "name must be at least 2 characters"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		details["email"] = "invalid email address"
	}
	if violation := passwordViolation(password); violation != "" {
		details["password"] = violation
	}
	return details
}

// passwordViolation enforces the registration password policy: minimum
// length plus one upper, one lower, one digit and one special character.
func passwordViolation(password string) string {
	if len(password) < 6 {
		return "password must be at least 6 characters"
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return "password must contain an uppercase letter"
	case !hasLower:
		return "password must contain a lowercase letter"
	case !hasDigit:
		return "password must contain a digit"
	case !hasSpecial:
		return "password must contain a special character"
	}
	return ""
}
