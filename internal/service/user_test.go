package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/tastetrail/backend/internal/models"
	"github.com/pageza/tastetrail/backend/internal/service"
	"github.com/pageza/tastetrail/backend/internal/testhelpers"
	"github.com/pageza/tastetrail/backend/internal/types"
)

func TestUpdateProfile(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	users := service.NewUserService(db, zaptest.NewLogger(t))
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, models.RoleUser)

	name := "  Renamed "
	allergies := types.StringList{"shellfish", "soy"}
	updated, err := users.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		Name:      &name,
		Allergies: &allergies,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.StringArray{"shellfish", "soy"}, updated.Allergies)
	assert.Equal(t, models.StringArray{"vegetarian"}, updated.DietaryPreferences)

	reloaded, err := users.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)

	blank := " "
	_, err = users.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{Name: &blank})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestChangePassword(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	users := service.NewUserService(db, nil)
	auth := service.NewAuthService(db, testSecret, 0, nil)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, models.RoleUser)

	err := users.ChangePassword(ctx, user.ID, "wrong", "new-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	err = users.ChangePassword(ctx, user.ID, testhelpers.TestPassword, "abc")
	assert.ErrorIs(t, err, service.ErrValidation)

	require.NoError(t, users.ChangePassword(ctx, user.ID, testhelpers.TestPassword, "new-password"))
	_, _, err = auth.Login(ctx, user.Email, "new-password")
	assert.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	users := service.NewUserService(db, nil)
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, models.RoleUser)
	recipe := testhelpers.CreateTestRecipe(t, db, user.ID, "Toast", "2 piece bread")

	collections := service.NewCollectionService(db)
	require.NoError(t, collections.SaveRecipe(ctx, user.ID, recipe.ID))

	assert.ErrorIs(t, users.DeleteAccount(ctx, user.ID, "wrong"), service.ErrInvalidCredentials)
	require.NoError(t, users.DeleteAccount(ctx, user.ID, testhelpers.TestPassword))

	_, err := users.GetProfile(ctx, user.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var saved int64
	require.NoError(t, db.Model(&models.SavedRecipe{}).Where("user_id = ?", user.ID).Count(&saved).Error)
	assert.Zero(t, saved)

	var recipes int64
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&recipes).Error)
	assert.Equal(t, int64(1), recipes, "published recipes survive account deletion")
}

func TestAdminUserManagement(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	users := service.NewUserService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	admin := testhelpers.CreateTestUser(t, db, models.RoleAdmin)
	target := testhelpers.CreateTestUser(t, db, models.RoleUser)
	actor := service.Actor{UserID: admin.ID, Role: admin.Role}

	t.Run("list and filter", func(t *testing.T) {
		all, total, err := users.ListUsers(ctx, types.ListUsersQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, all, 2)

		admins, total, err := users.ListUsers(ctx, types.ListUsersQuery{Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, admin.ID, admins[0].ID)

		found, _, err := users.ListUsers(ctx, types.ListUsersQuery{Search: target.Email[:12]})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, target.ID, found[0].ID)

		page, total, err := users.ListUsers(ctx, types.ListUsersQuery{Page: 2, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, page, 1)
	})

	t.Run("update role", func(t *testing.T) {
		updated, err := users.UpdateRole(ctx, actor, target.ID, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, updated.Role)

		_, err = users.UpdateRole(ctx, actor, target.ID, "superuser")
		assert.ErrorIs(t, err, service.ErrValidation)

		_, err = users.UpdateRole(ctx, actor, admin.ID, models.RoleUser)
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("toggle disabled", func(t *testing.T) {
		updated, err := users.ToggleDisabled(ctx, actor, target.ID)
		require.NoError(t, err)
		assert.True(t, updated.Disabled)

		updated, err = users.ToggleDisabled(ctx, actor, target.ID)
		require.NoError(t, err)
		assert.False(t, updated.Disabled)

		_, err = users.ToggleDisabled(ctx, actor, admin.ID)
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("delete user", func(t *testing.T) {
		assert.ErrorIs(t, users.DeleteUser(ctx, actor, admin.ID), service.ErrValidation)
		require.NoError(t, users.DeleteUser(ctx, actor, target.ID))
		assert.ErrorIs(t, users.DeleteUser(ctx, actor, target.ID), service.ErrNotFound)
	})
}

func TestGrantAdmin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	users := service.NewUserService(db, zaptest.NewLogger(t))
	ctx := context.Background()
	user := testhelpers.CreateTestUser(t, db, models.RoleUser)

	promoted, err := users.GrantAdmin(ctx, "  "+user.Email+" ")
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	again, err := users.GrantAdmin(ctx, user.Email)
	require.NoError(t, err)
	assert.True(t, again.IsAdmin())

	_, err = users.GrantAdmin(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
