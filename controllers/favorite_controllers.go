package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/middlewares"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

type FavoriteController struct {
	DB *gorm.DB
}

func NewFavoriteController(db *gorm.DB) *FavoriteController {
	return &FavoriteController{DB: db}
}

// GetFavorites lists the current user's favorite dishes.
func (fc *FavoriteController) GetFavorites(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var favorites []models.Favorite
	if err := fc.DB.Preload("Dish").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&favorites).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of favorites", favorites)
}

// AddFavorite is idempotent: adding a dish twice returns the existing favorite.
func (fc *FavoriteController) AddFavorite(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var body struct {
		DishID uint `json:"dish_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dish models.Dish
	if err := fc.DB.First(&dish, body.DishID).Error; err != nil {
		respondLookupError(c, err, "dish")
		return
	}

	var favorite models.Favorite
	err := fc.DB.Where("user_id = ? AND dish_id = ?", userID, dish.ID).First(&favorite).Error
	if err == nil {
		favorite.Dish = &dish
		utils.RespondJSON(c, http.StatusOK, "Dish already in favorites", favorite)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	favorite = models.Favorite{UserID: userID, DishID: dish.ID}
	if err := fc.DB.Create(&favorite).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	favorite.Dish = &dish
	utils.RespondJSON(c, http.StatusCreated, "Favorite added", favorite)
}

// RemoveFavorite
func (fc *FavoriteController) RemoveFavorite(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	dishID, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	result := fc.DB.Where("user_id = ? AND dish_id = ?", userID, dishID).Delete(&models.Favorite{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("favorite not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Favorite removed", gin.H{"dish_id": dishID})
}
