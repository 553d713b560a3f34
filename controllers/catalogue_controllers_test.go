package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-site/models"
)

func createCategory(t *testing.T, env *testEnv, token, name string) models.Category {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/categories", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category models.Category
	decode(t, w, &category)
	return category
}

func createDish(t *testing.T, env *testEnv, token string, categoryID uint, name string, price float64) models.Dish {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/dishes", token, map[string]any{
		"category_id": categoryID, "name": name, "price": price,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var dish models.Dish
	decode(t, w, &dish)
	return dish
}

func TestCategoryCRUD(t *testing.T) {
	env := setupEnv(t)
	_, admin := seedUser(t, env.DB, "Admin", "admin@example.com")
	_, customer := seedUser(t, env.DB, "Client", "client@example.com")

	w := env.do(t, http.MethodPost, "/api/categories", customer, map[string]string{"name": "Entrées"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	category := createCategory(t, env, admin, "Entrées")
	url := fmt.Sprintf("/api/categories/%d", category.ID)

	w = env.do(t, http.MethodGet, url, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, url, admin, map[string]string{"description": "Pour commencer"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &category)
	assert.Equal(t, "Entrées", category.Name)
	assert.Equal(t, "Pour commencer", category.Description)

	createDish(t, env, admin, category.ID, "Velouté", 9)
	w = env.do(t, http.MethodDelete, url, admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	empty := createCategory(t, env, admin, "Desserts")
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", empty.ID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []models.Category
	decode(t, w, &categories)
	assert.Len(t, categories, 1)
}

func TestDishCRUDAndFilters(t *testing.T) {
	env := setupEnv(t)
	_, admin := seedUser(t, env.DB, "Admin", "admin@example.com")
	starters := createCategory(t, env, admin, "Entrées")
	mains := createCategory(t, env, admin, "Plats")

	w := env.do(t, http.MethodPost, "/api/dishes", admin, map[string]any{
		"category_id": 999, "name": "Fantôme", "price": 10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/dishes", admin, map[string]any{
		"category_id": mains.ID, "name": "Négatif", "price": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	soup := createDish(t, env, admin, starters.ID, "Velouté", 9)
	assert.True(t, soup.IsAvailable)
	steak := createDish(t, env, admin, mains.ID, "Entrecôte", 24.5)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/dishes/%d", steak.ID), admin, map[string]any{"is_available": false})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &steak)
	assert.False(t, steak.IsAvailable)

	var dishes []models.Dish
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/dishes?category=%d", mains.ID), "", nil)
	decode(t, w, &dishes)
	require.Len(t, dishes, 1)
	assert.Equal(t, "Entrecôte", dishes[0].Name)

	w = env.do(t, http.MethodGet, "/api/dishes?available=true", "", nil)
	decode(t, w, &dishes)
	require.Len(t, dishes, 1)
	assert.Equal(t, "Velouté", dishes[0].Name)

	w = env.do(t, http.MethodGet, "/api/dishes?category=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/dishes/%d", soup.ID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/dishes/%d", soup.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMenuDishes(t *testing.T) {
	env := setupEnv(t)
	_, admin := seedUser(t, env.DB, "Admin", "admin@example.com")
	category := createCategory(t, env, admin, "Plats")
	soup := createDish(t, env, admin, category.ID, "Velouté", 9)
	steak := createDish(t, env, admin, category.ID, "Entrecôte", 24)
	tart := createDish(t, env, admin, category.ID, "Tarte Tatin", 8)

	w := env.do(t, http.MethodPost, "/api/menus", admin, map[string]any{
		"name": "Formule midi", "price": 29, "dish_ids": []uint{soup.ID, 404},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/menus", admin, map[string]any{
		"name": "Formule midi", "price": 29, "dish_ids": []uint{soup.ID, steak.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var menu models.Menu
	decode(t, w, &menu)
	assert.True(t, menu.IsActive)
	assert.Len(t, menu.Dishes, 2)
	url := fmt.Sprintf("/api/menus/%d", menu.ID)

	w = env.do(t, http.MethodPost, url+"/dishes", admin, map[string]any{"dish_id": tart.ID})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &menu)
	assert.Len(t, menu.Dishes, 3)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("%s/dishes/%d", url, soup.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &menu)
	assert.Len(t, menu.Dishes, 2)

	w = env.do(t, http.MethodPut, url, admin, map[string]any{"dish_ids": []uint{tart.ID}, "is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &menu)
	require.Len(t, menu.Dishes, 1)
	assert.Equal(t, tart.ID, menu.Dishes[0].ID)
	assert.False(t, menu.IsActive)

	var menus []models.Menu
	w = env.do(t, http.MethodGet, "/api/menus?active=true", "", nil)
	decode(t, w, &menus)
	assert.Empty(t, menus)

	// Deleting a dish also detaches it from menus.
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/dishes/%d", tart.ID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, url, "", nil)
	decode(t, w, &menu)
	assert.Empty(t, menu.Dishes)

	w = env.do(t, http.MethodDelete, url, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, url, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavorites(t *testing.T) {
	env := setupEnv(t)
	_, admin := seedUser(t, env.DB, "Admin", "admin@example.com")
	_, customer := seedUser(t, env.DB, "Client", "client@example.com")
	category := createCategory(t, env, admin, "Desserts")
	tart := createDish(t, env, admin, category.ID, "Tarte Tatin", 8)

	w := env.do(t, http.MethodGet, "/api/favorites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/favorites", customer, map[string]any{"dish_id": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/favorites", customer, map[string]any{"dish_id": tart.ID})
	assert.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodPost, "/api/favorites", customer, map[string]any{"dish_id": tart.ID})
	assert.Equal(t, http.StatusOK, w.Code, "adding twice is idempotent")

	w = env.do(t, http.MethodGet, "/api/favorites", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var favorites []models.Favorite
	decode(t, w, &favorites)
	require.Len(t, favorites, 1)
	require.NotNil(t, favorites[0].Dish)
	assert.Equal(t, "Tarte Tatin", favorites[0].Dish.Name)

	w = env.do(t, http.MethodGet, "/api/favorites", admin, nil)
	decode(t, w, &favorites)
	assert.Empty(t, favorites, "favorites are per user")

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", tart.ID), customer, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", tart.ID), customer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
