package controllers_test

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Camille", "email": "Camille@Example.com", "password": "motdepasse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var registered struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	decode(t, w, &registered)
	assert.NotZero(t, registered.UserID)
	assert.Equal(t, models.RoleAdmin, registered.Role, "first account is the admin")

	w = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Other", "email": "camille@example.com", "password": "motdepasse",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "camille@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "camille@example.com", "password": "motdepasse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token    string `json:"token"`
		UserRole string `json:"user_role"`
	}
	decode(t, w, &login)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleAdmin, login.UserRole)

	w = env.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]any
	decode(t, w, &me)
	assert.Equal(t, "camille@example.com", me["email"])
	assert.NotContains(t, me, "password")
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	env := setupEnv(t)
	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Léa", "email": "lea@example.com", "password": "court",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Léa", "email": "lea@example.com", "password": strings.Repeat("x", 73),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := setupEnv(t)
	_, token := seedUser(t, env.DB, "Admin", "admin@example.com")

	w := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserAdministration(t *testing.T) {
	env := setupEnv(t)
	admin, adminToken := seedUser(t, env.DB, "Admin", "admin@example.com")
	customer, customerToken := seedUser(t, env.DB, "Client", "client@example.com")
	require.Equal(t, models.RoleCustomer, customer.Role)

	w := env.do(t, http.MethodGet, "/api/users", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []models.User
	decode(t, w, &users)
	assert.Len(t, users, 2)

	customerURL := "/api/users/" + strconv.Itoa(int(customer.ID))
	w = env.do(t, http.MethodPatch, customerURL+"/role", adminToken, map[string]string{"role": "chef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, customerURL+"/role", adminToken, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.User
	require.NoError(t, env.DB.First(&updated, customer.ID).Error)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	w = env.do(t, http.MethodDelete, "/api/users/"+strconv.Itoa(int(admin.ID)), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "admins cannot delete themselves")

	w = env.do(t, http.MethodDelete, customerURL, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, customerURL, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/users/abc", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoleChangesApplyToIssuedTokens(t *testing.T) {
	env := setupEnv(t)
	_, admin := seedUser(t, env.DB, "Admin", "admin@example.com")
	manager, _ := seedUser(t, env.DB, "Gérant", "gerant@example.com")
	url := "/api/users/" + strconv.Itoa(int(manager.ID))

	w := env.do(t, http.MethodPatch, url+"/role", admin, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	managerToken, err := utils.GenerateToken(manager.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/users", managerToken, nil).Code)

	w = env.do(t, http.MethodPatch, url+"/role", admin, map[string]string{"role": "customer"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/users", managerToken, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/auth/me", managerToken, nil).Code)

	w = env.do(t, http.MethodDelete, url, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", managerToken, nil).Code)
	w = env.do(t, http.MethodPost, "/api/reservations", managerToken, map[string]any{
		"reservation_date": "2026-03-11", "reservation_time": "12:30", "number_of_people": 2,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Reservation{}).Count(&count).Error)
	assert.Zero(t, count)
}
