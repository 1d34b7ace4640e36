package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acessae/acessae-backend/config"
	"github.com/acessae/acessae-backend/internal/app/controller"
	"github.com/acessae/acessae-backend/internal/app/model"
	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/internal/app/service"
	"github.com/acessae/acessae-backend/internal/db"
	"github.com/acessae/acessae-backend/internal/middleware"
	"github.com/acessae/acessae-backend/internal/storage"
	"github.com/acessae/acessae-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "router-test-secret"

type silentSender struct{}

func (silentSender) Send(to, subject, htmlBody string) error { return nil }

func setupRouterTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	locationRepo := repository.NewLocationRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	resetRepo := repository.NewPasswordResetRepository(testDB)

	authService := service.NewAuthService(userRepo, testJWTSecret, time.Hour, 24*time.Hour)
	locationService := service.NewLocationService(locationRepo)
	reviewService := service.NewReviewService(reviewRepo, locationRepo, store, testDB)
	adminUserService := service.NewAdminUserService(userRepo)
	resetService := service.NewPasswordResetService(userRepo, resetRepo, silentSender{}, "http://localhost:3000")

	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.CORS.AllowedOrigins = []string{"*"}

	r := NewRouter(
		controller.NewAuthController(authService, resetService, reviewService),
		controller.NewLocationController(locationService),
		controller.NewReviewController(reviewService),
		controller.NewAdminUserController(adminUserService),
		controller.NewPhotoController(store),
		middleware.NewAuthMiddleware(testJWTSecret, userRepo),
		cfg,
	)
	return r.Setup(), testDB
}

func seedRouterUser(t *testing.T, testDB *gorm.DB, email string, isAdmin bool) (*model.User, string) {
	t.Helper()

	hashed, err := util.HashPassword("Sturdy1!pass")
	require.NoError(t, err)

	user := &model.User{
		Name:         "Route Tester",
		Email:        email,
		PasswordHash: hashed,
		IsAdmin:      isAdmin,
	}
	require.NoError(t, testDB.Create(user).Error)

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, user.IsAdmin, testJWTSecret, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	return user, tokens.AccessToken
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_ProfileRoutes(t *testing.T) {
	engine, testDB := setupRouterTest(t)
	_, token := seedRouterUser(t, testDB, "profile@example.com", false)

	w := doJSON(t, engine, http.MethodPut, "/api/v1/profile", token, gin.H{
		"name": "Renamed Tester",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Renamed Tester")

	w = doJSON(t, engine, http.MethodGet, "/api/v1/profile/reviews", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "reviews")

	// Both profile routes are authenticated.
	w = doJSON(t, engine, http.MethodPut, "/api/v1/profile", "", gin.H{"name": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AdminUserGet(t *testing.T) {
	engine, testDB := setupRouterTest(t)
	_, adminToken := seedRouterUser(t, testDB, "admin@example.com", true)
	member, memberToken := seedRouterUser(t, testDB, "member@example.com", false)

	path := fmt.Sprintf("/api/v1/admin/users/%d", member.ID)

	w := doJSON(t, engine, http.MethodGet, path, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "member@example.com")

	w = doJSON(t, engine, http.MethodGet, "/api/v1/admin/users/99999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodGet, path, memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_LocationWrite_AnyAuthenticatedUser(t *testing.T) {
	engine, testDB := setupRouterTest(t)
	_, token := seedRouterUser(t, testDB, "member@example.com", false)

	location := &model.Location{Name: "Old Hall", Address: "1 Main St", IsActive: true}
	require.NoError(t, testDB.Create(location).Error)

	body := gin.H{
		"name":    "Renovated Hall",
		"address": "1 Main St",
	}

	path := fmt.Sprintf("/api/v1/locations/%d", location.ID)

	w := doJSON(t, engine, http.MethodPut, path, token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Renovated Hall")

	w = doJSON(t, engine, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Unauthenticated writes stay rejected.
	w = doJSON(t, engine, http.MethodPut, path, "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_LocationList_IncludeInactive(t *testing.T) {
	engine, testDB := setupRouterTest(t)

	active := &model.Location{Name: "Open Library", Address: "2 Main St", IsActive: true}
	inactive := &model.Location{Name: "Closed Museum", Address: "3 Main St", IsActive: false}
	require.NoError(t, testDB.Create(active).Error)
	require.NoError(t, testDB.Create(inactive).Error)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/locations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Open Library")
	assert.NotContains(t, w.Body.String(), "Closed Museum")

	w = doJSON(t, engine, http.MethodGet, "/api/v1/locations?include_inactive=true", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Open Library")
	assert.Contains(t, w.Body.String(), "Closed Museum")
}
