package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/tastetrail/backend/internal/models"
)

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/health", "/api/health"} {
		w := api.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "healthy")
	}
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("cook@example.com")
	assert.NotEmpty(t, token)

	t.Run("duplicate email", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/users/register", "", map[string]any{
			"name": "Again", "email": "COOK@example.com", "password": "password123",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/users/register", "", map[string]any{
			"name": "Short", "email": "not-an-email", "password": "123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/users/login", "", map[string]any{
			"email": "cook@example.com", "password": "password123",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"token"`)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("wrong password", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/v1/users/login", "", map[string]any{
			"email": "cook@example.com", "password": "nope-nope",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProfile(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("profile@example.com")

	w := api.do(http.MethodGet, "/api/v1/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/v1/users/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPut, "/api/v1/users/profile", token, map[string]any{
		"name":      "Renamed",
		"allergies": "peanuts, shellfish",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user models.User
	decode(t, w, &user)
	assert.Equal(t, "Renamed", user.Name)
	assert.Equal(t, models.StringArray{"peanuts", "shellfish"}, user.Allergies)
	assert.Equal(t, models.StringArray{"vegetarian"}, user.DietaryPreferences)

	w = api.do(http.MethodPut, "/api/v1/users/password", token, map[string]any{
		"current_password": "wrong-password", "new_password": "newpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPut, "/api/v1/users/password", token, map[string]any{
		"current_password": "password123", "new_password": "newpassword",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodDelete, "/api/v1/users/account", token, map[string]any{"password": "newpassword"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/v1/users/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminUsers(t *testing.T) {
	api := newTestAPI(t)
	adminToken, adminID := api.register("admin@example.com")
	userToken, userID := api.register("member@example.com")

	w := api.do(http.MethodGet, "/api/v1/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, api.db.Model(&models.User{}).Where("id = ?", adminID).Update("role", models.RoleAdmin).Error)

	w = api.do(http.MethodGet, "/api/v1/admin/users?search=member", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page struct {
		Users []models.User `json:"users"`
		Total int64         `json:"total"`
	}
	decode(t, w, &page)
	assert.Equal(t, int64(1), page.Total)

	w = api.do(http.MethodPut, "/api/v1/admin/users/"+adminID+"/role", adminToken, map[string]any{"role": "user"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPut, "/api/v1/admin/users/"+userID+"/disable", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/v1/users/profile", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodDelete, "/api/v1/admin/users/"+userID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodDelete, "/api/v1/admin/users/not-a-uuid", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
