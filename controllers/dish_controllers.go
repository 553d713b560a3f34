package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

type DishController struct {
	DB *gorm.DB
}

func NewDishController(db *gorm.DB) *DishController {
	return &DishController{DB: db}
}

type dishRequest struct {
	CategoryID  *uint    `json:"category_id"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageUrl    *string  `json:"image_url"`
	IsAvailable *bool    `json:"is_available"`
}

// GetAllDishes mendukung filter ?category=<id> dan ?available=true
func (dc *DishController) GetAllDishes(c *gin.Context) {
	query := dc.DB.Preload("Category").Order("category_id ASC, name ASC")

	if raw := c.Query("category"); raw != "" {
		categoryID, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category ID"))
			return
		}
		query = query.Where("category_id = ?", categoryID)
	}
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}

	var dishes []models.Dish
	if err := query.Find(&dishes).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of dishes", dishes)
}

// GetDishByID
func (dc *DishController) GetDishByID(c *gin.Context) {
	id, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	var dish models.Dish
	if err := dc.DB.Preload("Category").First(&dish, id).Error; err != nil {
		respondLookupError(c, err, "dish")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish detail", dish)
}

// CreateDish
func (dc *DishController) CreateDish(c *gin.Context) {
	var req dishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.CategoryID == nil || req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Price == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category_id, name and price are required"))
		return
	}

	dish := models.Dish{IsAvailable: true}
	if err := dc.apply(&dish, req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := dc.DB.Create(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Dish created", dish)
}

// UpdateDish only changes the fields present in the body.
func (dc *DishController) UpdateDish(c *gin.Context) {
	id, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	var req dishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var dish models.Dish
	if err := dc.DB.First(&dish, id).Error; err != nil {
		respondLookupError(c, err, "dish")
		return
	}

	if err := dc.apply(&dish, req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := dc.DB.Save(&dish).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish updated successfully", dish)
}

// DeleteDish
func (dc *DishController) DeleteDish(c *gin.Context) {
	id, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	err := dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM menu_dishes WHERE dish_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("dish_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Dish{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		respondLookupError(c, err, "dish")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dish deleted", gin.H{"dish_id": id})
}

func (dc *DishController) apply(dish *models.Dish, req dishRequest) error {
	if req.CategoryID != nil {
		var count int64
		if err := dc.DB.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("category %d does not exist", *req.CategoryID)
		}
		dish.CategoryID = *req.CategoryID
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		dish.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return errors.New("price must not be negative")
		}
		dish.Price = *req.Price
	}
	if req.ImageUrl != nil {
		dish.ImageUrl = *req.ImageUrl
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}
	return nil
}
