package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/acessae/acessae-backend/internal/app/service"
	apperrors "github.com/acessae/acessae-backend/internal/errors"
	"github.com/acessae/acessae-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AdminUserController struct {
	adminUserService service.AdminUserService
}

func NewAdminUserController(adminUserService service.AdminUserService) *AdminUserController {
	return &AdminUserController{adminUserService: adminUserService}
}

type AdminCreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

type AdminUpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"is_admin"`
}

// List returns a page of users
// GET /api/v1/admin/users?page=&limit=&search=
func (ctrl *AdminUserController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := ctrl.adminUserService.List(page, limit, c.Query("search"))
	if err != nil {
		log.Error("Failed to list users", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	users := make([]gin.H, 0, len(result.Users))
	for i := range result.Users {
		users = append(users, gin.H{
			"id":         result.Users[i].ID,
			"name":       result.Users[i].Name,
			"email":      result.Users[i].Email,
			"is_admin":   result.Users[i].IsAdmin,
			"created_at": result.Users[i].CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"total_pages": result.TotalPages,
			"has_next":    result.HasNext,
			"has_prev":    result.HasPrev,
		},
	})
}

// Get returns a single user by id
// GET /api/v1/admin/users/:id
func (ctrl *AdminUserController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.adminUserService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to get user", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"is_admin":   user.IsAdmin,
			"created_at": user.CreatedAt,
		},
	})
}

// Create registers a user on behalf of an administrator
// POST /api/v1/admin/users
func (ctrl *AdminUserController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	user, err := ctrl.adminUserService.Create(req.Name, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			apperrors.RespondWithValidationError(c, ve.Details)
			return
		}
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apperrors.Conflict(c, apperrors.UserEmailExists, "Email is already in use")
			return
		}
		log.Error("Failed to create user", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    userPayload(user),
	})
}

// Update applies a partial patch to a user
// PUT /api/v1/admin/users/:id
func (ctrl *AdminUserController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	user, err := ctrl.adminUserService.Update(id, service.AdminUserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			apperrors.RespondWithValidationError(c, ve.Details)
			return
		}
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.UserEmailExists, "Email is already in use")
		case errors.Is(err, service.ErrNothingToUpdate):
			apperrors.BadRequest(c, apperrors.UserNothingToPatch, "No fields to update")
		default:
			log.Error("Failed to update user", err, map[string]interface{}{
				"user_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    userPayload(user),
	})
}

// Delete removes a user account
// DELETE /api/v1/admin/users/:id
func (ctrl *AdminUserController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	adminID, _ := middleware.GetUserID(c)

	if err := ctrl.adminUserService.Delete(id, adminID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDeletion):
			apperrors.BadRequest(c, apperrors.UserSelfDeletion, "Administrators cannot delete their own account")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
		default:
			log.Error("Failed to delete user", err, map[string]interface{}{
				"user_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
