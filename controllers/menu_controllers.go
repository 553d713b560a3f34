package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

type menuRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	IsActive    *bool    `json:"is_active"`
	DishIDs     *[]uint  `json:"dish_ids"`
}

// GetAllMenus, ?active=true hanya menu aktif
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	query := mc.DB.Preload("Dishes").Order("name ASC")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var menus []models.Menu
	if err := query.Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}

	var menu models.Menu
	if err := mc.DB.Preload("Dishes").First(&menu, id).Error; err != nil {
		respondLookupError(c, err, "menu")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// CreateMenu
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Price == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name and price are required"))
		return
	}

	menu := models.Menu{IsActive: true}
	if err := applyMenu(&menu, req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Dishes").Create(&menu).Error; err != nil {
			return err
		}
		if req.DishIDs != nil {
			return replaceMenuDishes(tx, &menu, *req.DishIDs)
		}
		return nil
	})
	if err != nil {
		respondMenuError(c, err)
		return
	}

	mc.DB.Preload("Dishes").First(&menu, menu.ID)
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenu replaces the dish list when dish_ids is present.
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}

	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		respondLookupError(c, err, "menu")
		return
	}
	if err := applyMenu(&menu, req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Dishes").Save(&menu).Error; err != nil {
			return err
		}
		if req.DishIDs != nil {
			return replaceMenuDishes(tx, &menu, *req.DishIDs)
		}
		return nil
	})
	if err != nil {
		respondMenuError(c, err)
		return
	}

	mc.DB.Preload("Dishes").First(&menu, menu.ID)
	utils.RespondJSON(c, http.StatusOK, "Menu updated successfully", menu)
}

// DeleteMenu
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		menu := models.Menu{ID: id}
		if err := tx.Model(&menu).Association("Dishes").Clear(); err != nil {
			return err
		}
		result := tx.Delete(&models.Menu{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		respondLookupError(c, err, "menu")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}

// AddDish attaches one dish to a menu.
func (mc *MenuController) AddDish(c *gin.Context) {
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}

	var body struct {
		DishID uint `json:"dish_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		respondLookupError(c, err, "menu")
		return
	}
	var dish models.Dish
	if err := mc.DB.First(&dish, body.DishID).Error; err != nil {
		respondLookupError(c, err, "dish")
		return
	}

	if err := mc.DB.Model(&menu).Association("Dishes").Append(&dish); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.DB.Preload("Dishes").First(&menu, menu.ID)
	utils.RespondJSON(c, http.StatusOK, "Dish added to menu", menu)
}

// RemoveDish detaches one dish from a menu.
func (mc *MenuController) RemoveDish(c *gin.Context) {
	id, ok := paramID(c, "menu_id")
	if !ok {
		return
	}
	dishID, ok := paramID(c, "dish_id")
	if !ok {
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		respondLookupError(c, err, "menu")
		return
	}

	if err := mc.DB.Model(&menu).Association("Dishes").Delete(&models.Dish{ID: dishID}); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.DB.Preload("Dishes").First(&menu, menu.ID)
	utils.RespondJSON(c, http.StatusOK, "Dish removed from menu", menu)
}

var errUnknownDish = errors.New("one or more dishes do not exist")

func applyMenu(menu *models.Menu, req menuRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		menu.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return errors.New("price must not be negative")
		}
		menu.Price = *req.Price
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}
	return nil
}

func replaceMenuDishes(tx *gorm.DB, menu *models.Menu, ids []uint) error {
	if len(ids) == 0 {
		return tx.Model(menu).Association("Dishes").Clear()
	}

	var dishes []models.Dish
	if err := tx.Where("id IN ?", ids).Find(&dishes).Error; err != nil {
		return err
	}
	if len(dishes) != len(uniqueIDs(ids)) {
		return errUnknownDish
	}
	return tx.Model(menu).Association("Dishes").Replace(dishes)
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func respondMenuError(c *gin.Context, err error) {
	if errors.Is(err, errUnknownDish) {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, err)
}
