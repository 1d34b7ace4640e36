package service

import (
	"errors"
	"net/mail"

	"github.com/acessae/acessae-backend/internal/app/model"
	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/pkg/logger"
	"github.com/acessae/acessae-backend/pkg/util"
	"gorm.io/gorm"
)

// AdminUserPatch carries the optional fields of an administrative user update.
// Nil means "leave unchanged".
type AdminUserPatch struct {
	Name     *string
	Email    *string
	Password *string
	IsAdmin  *bool
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []model.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

type AdminUserService interface {
	List(page, limit int, search string) (*UserPage, error)
	Get(id uint) (*model.User, error)
	Create(name, email, password string, isAdmin bool) (*model.User, error)
	Update(id uint, patch AdminUserPatch) (*model.User, error)
	Delete(id, actingAdminID uint) error
}

type adminUserService struct {
	userRepo repository.UserRepository
}

func NewAdminUserService(userRepo repository.UserRepository) AdminUserService {
	return &adminUserService{userRepo: userRepo}
}

func (s *adminUserService) List(page, limit int, search string) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, total, err := s.userRepo.List((page-1)*limit, limit, search)
	if err != nil {
		logger.Error("Failed to list users", err, map[string]interface{}{
			"page": page,
		})
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &UserPage{
		Users:      users,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

func (s *adminUserService) Get(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *adminUserService) Create(name, email, password string, isAdmin bool) (*model.User, error) {
	if details := validateRegistration(name, email, password); len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	taken, err := s.userRepo.EmailTaken(email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailAlreadyExists
	}

	hashed, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	logger.Info("User created by admin", map[string]interface{}{
		"user_id":  user.ID,
		"is_admin": isAdmin,
	})
	return user, nil
}

// Update applies a partial patch. Only the supplied fields reach the
// database; an empty patch is rejected rather than silently succeeding.
func (s *adminUserService) Update(id uint, patch AdminUserPatch) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fields := make(map[string]interface{})

	if patch.Name != nil {
		if len(*patch.Name) < 2 {
			return nil, &ValidationError{Details: map[string]string{
				"name": "name must be at least 2 characters",
			}}
		}
		fields["name"] = *patch.Name
	}

	if patch.Email != nil && *patch.Email != user.Email {
		if _, err := mail.ParseAddress(*patch.Email); err != nil {
			return nil, &ValidationError{Details: map[string]string{
				"email": "invalid email address",
			}}
		}
		taken, err := s.userRepo.EmailTaken(*patch.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailAlreadyExists
		}
		fields["email"] = *patch.Email
	}

	if patch.Password != nil {
		if violation := passwordViolation(*patch.Password); violation != "" {
			return nil, &ValidationError{Details: map[string]string{
				"password": violation,
			}}
		}
		hashed, err := util.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hashed
	}

	if patch.IsAdmin != nil {
		fields["is_admin"] = *patch.IsAdmin
	}

	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}

	if err := s.userRepo.Patch(id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		logger.Error("Failed to patch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Info("User updated by admin", map[string]interface{}{
		"user_id": id,
		"fields":  len(fields),
	})
	return s.userRepo.FindByID(id)
}

// Delete removes a user. Admins cannot delete their own account; that keeps
// at least the acting admin alive and avoids self-lockout mid-session.
func (s *adminUserService) Delete(id, actingAdminID uint) error {
	if id == actingAdminID {
		return ErrSelfDeletion
	}

	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	logger.Info("User deleted by admin", map[string]interface{}{
		"user_id":  id,
		"admin_id": actingAdminID,
	})
	return nil
}
