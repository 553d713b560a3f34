package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/database"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

type SettingController struct {
	DB *gorm.DB
}

func NewSettingController(db *gorm.DB) *SettingController {
	return &SettingController{DB: db}
}

type settingRequest struct {
	SiteName    *string `json:"site_name"`
	Tagline     *string `json:"tagline"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	LunchOpen   *string `json:"lunch_open"`
	LunchClose  *string `json:"lunch_close"`
	DinnerOpen  *string `json:"dinner_open"`
	DinnerClose *string `json:"dinner_close"`
	Timezone    *string `json:"timezone"`
}

// GetSettings is public: the pages and the reservation form need the opening hours.
func (sc *SettingController) GetSettings(c *gin.Context) {
	setting, err := database.LoadSettings(sc.DB)
	if err != nil {
		respondLookupError(c, err, "settings")
		return
	}

	schedule, err := setting.Schedule()
	hours := ""
	if err == nil {
		hours = schedule.Describe()
	}
	utils.RespondJSON(c, http.StatusOK, "Settings", gin.H{
		"setting":       setting,
		"opening_hours": hours,
	})
}

// UpdateSettings applies a partial update; the result must still describe
// valid service windows and a known timezone.
func (sc *SettingController) UpdateSettings(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	setting, err := database.LoadSettings(sc.DB)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err != nil {
		setting = models.DefaultSetting("UTC")
	}

	req.apply(&setting)

	if strings.TrimSpace(setting.SiteName) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("site_name is required"))
		return
	}
	schedule, err := setting.Schedule()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	// Columns hold "15:04"; "12:00:00" is stored as "12:00".
	lunch, dinner := schedule.Windows[0], schedule.Windows[1]
	setting.LunchOpen, setting.LunchClose = lunch.Opens(), lunch.Closes()
	setting.DinnerOpen, setting.DinnerClose = dinner.Opens(), dinner.Closes()
	if _, err := time.LoadLocation(setting.Timezone); err != nil || setting.Timezone == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown timezone %q", setting.Timezone))
		return
	}

	if err := sc.DB.Save(&setting).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.InfoLogger.Printf("Settings updated (timezone=%s)", setting.Timezone)
	utils.RespondJSON(c, http.StatusOK, "Settings updated", setting)
}

func (r settingRequest) apply(s *models.Setting) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&s.SiteName, r.SiteName)
	set(&s.Tagline, r.Tagline)
	set(&s.Address, r.Address)
	set(&s.Phone, r.Phone)
	set(&s.Email, r.Email)
	set(&s.LunchOpen, r.LunchOpen)
	set(&s.LunchClose, r.LunchClose)
	set(&s.DinnerOpen, r.DinnerOpen)
	set(&s.DinnerClose, r.DinnerClose)
	set(&s.Timezone, r.Timezone)
}
