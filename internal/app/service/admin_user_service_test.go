package service

import (
	"fmt"
	"testing"

	"github.com/acessae/acessae-backend/internal/app/model"
	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAdminUserServiceTest(t *testing.T) (AdminUserService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	return NewAdminUserService(userRepo), testDB
}

func seedUsers(t *testing.T, testDB *gorm.DB, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		user := &model.User{
			Name:         fmt.Sprintf("User %02d", i),
			Email:        fmt.Sprintf("user%02d@example.com", i),
			PasswordHash: "hashed",
		}
		require.NoError(t, testDB.Create(user).Error)
	}
}

func TestAdminUserService_List_Pagination(t *testing.T) {
	svc, testDB := setupAdminUserServiceTest(t)
	seedUsers(t, testDB, 25)

	page1, err := svc.List(1, 10, "")
	require.NoError(t, err)
	assert.Len(t, page1.Users, 10)
	assert.EqualValues(t, 25, page1.Total)
	assert.Equal(t, 3, page1.TotalPages)
	assert.True(t, page1.HasNext)
	assert.False(t, page1.HasPrev)

	page3, err := svc.List(3, 10, "")
	require.NoError(t, err)
	assert.Len(t, page3.Users, 5)
	assert.False(t, page3.HasNext)
	assert.True(t, page3.HasPrev)

	// Out-of-range parameters fall back to defaults instead of failing.
	fallback, err := svc.List(0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.Page)
	assert.Equal(t, 10, fallback.Limit)
}

func TestAdminUserService_List_Search(t *testing.T) {
	svc, testDB := setupAdminUserServiceTest(t)
	seedUsers(t, testDB, 5)

	special := &model.User{
		Name:         "Beatriz Costa",
		Email:        "bia@example.com",
		PasswordHash: "hashed",
	}
	require.NoError(t, testDB.Create(special).Error)

	byName, err := svc.List(1, 10, "beatriz")
	require.NoError(t, err)
	require.Len(t, byName.Users, 1)
	assert.Equal(t, "Beatriz Costa", byName.Users[0].Name)

	byEmail, err := svc.List(1, 10, "bia@")
	require.NoError(t, err)
	require.Len(t, byEmail.Users, 1)

	none, err := svc.List(1, 10, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none.Users)
	assert.EqualValues(t, 0, none.Total)
}

func TestAdminUserService_Get(t *testing.T) {
	svc, testDB := setupAdminUserServiceTest(t)
	seedUsers(t, testDB, 1)

	var seeded model.User
	require.NoError(t, testDB.Where("email = ?", "user00@example.com").First(&seeded).Error)

	user, err := svc.Get(seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
	assert.Equal(t, "user00@example.com", user.Email)

	_, err = svc.Get(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminUserService_Create(t *testing.T) {
	svc, _ := setupAdminUserServiceTest(t)

	admin, err := svc.Create("New Admin", "admin@example.com", "Adm1n!pass", true)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	_, err = svc.Create("Dup", "admin@example.com", "Adm1n!pass", false)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = svc.Create("Weak", "weak@example.com", "short", false)
	_, ok := AsValidationError(err)
	assert.True(t, ok)
}

func TestAdminUserService_Update_PartialPatch(t *testing.T) {
	svc, testDB := setupAdminUserServiceTest(t)
	seedUsers(t, testDB, 2)

	var target model.User
	require.NoError(t, testDB.Where("email = ?", "user00@example.com").First(&target).Error)

	t.Run("name only", func(t *testing.T) {
		name := "Renamed User"
		updated, err := svc.Update(target.ID, AdminUserPatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)
		assert.Equal(t, target.Email, updated.Email, "untouched fields survive")
	})

	t.Run("promote to admin", func(t *testing.T) {
		isAdmin := true
		updated, err := svc.Update(target.ID, AdminUserPatch{IsAdmin: &isAdmin})
		require.NoError(t, err)
		assert.True(t, updated.IsAdmin)
	})

	t.Run("email conflict", func(t *testing.T) {
		email := "user01@example.com"
		_, err := svc.Update(target.ID, AdminUserPatch{Email: &email})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		_, err := svc.Update(target.ID, AdminUserPatch{})
		assert.ErrorIs(t, err, ErrNothingToUpdate)
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "Ghost"
		_, err := svc.Update(99999, AdminUserPatch{Name: &name})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAdminUserService_Delete(t *testing.T) {
	svc, testDB := setupAdminUserServiceTest(t)
	seedUsers(t, testDB, 2)

	var acting, target model.User
	require.NoError(t, testDB.Where("email = ?", "user00@example.com").First(&acting).Error)
	require.NoError(t, testDB.Where("email = ?", "user01@example.com").First(&target).Error)

	t.Run("self deletion blocked", func(t *testing.T) {
		err := svc.Delete(acting.ID, acting.ID)
		assert.ErrorIs(t, err, ErrSelfDeletion)
	})

	t.Run("deletes another user", func(t *testing.T) {
		require.NoError(t, svc.Delete(target.ID, acting.ID))

		var count int64
		testDB.Model(&model.User{}).Where("id = ?", target.ID).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.Delete(99999, acting.ID)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
