package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/restaurant-site/database"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/reservation"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

const exportSheet = "Reservations"

type DashboardController struct {
	DB    *gorm.DB
	Clock reservation.Clock
}

func NewDashboardController(db *gorm.DB, clock reservation.Clock) *DashboardController {
	if clock == nil {
		clock = reservation.SystemClock{}
	}
	return &DashboardController{DB: db, Clock: clock}
}

type FavoriteDishStat struct {
	DishID uint   `json:"dish_id"`
	Name   string `json:"name"`
	Count  int64  `json:"count"`
}

type DashboardStats struct {
	TotalUsers        int64                `json:"total_users"`
	TotalCategories   int64                `json:"total_categories"`
	TotalDishes       int64                `json:"total_dishes"`
	TotalMenus        int64                `json:"total_menus"`
	Reservations      map[string]int64     `json:"reservations"`
	TodayReservations int64                `json:"today_reservations"`
	GuestsToday       int64                `json:"guests_today"`
	Upcoming          []models.Reservation `json:"upcoming"`
	TopFavorites      []FavoriteDishStat   `json:"top_favorites"`
}

// GetDashboardStats aggregates the numbers shown on the admin dashboard.
// "Today" is the current date in the restaurant timezone.
func (dc *DashboardController) GetDashboardStats(c *gin.Context) {
	stats, err := dc.collect()
	if err != nil {
		utils.ErrorLogger.Printf("Error collecting dashboard stats: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}

func (dc *DashboardController) collect() (DashboardStats, error) {
	stats := DashboardStats{Reservations: map[string]int64{}}

	loc, err := dc.location()
	if err != nil {
		return stats, err
	}
	now := dc.Clock.Now()
	today := now.In(loc).Format(reservation.DateLayout)
	active := []string{models.ReservationPending, models.ReservationConfirmed}

	counts := []struct {
		model any
		dst   *int64
	}{
		{&models.User{}, &stats.TotalUsers},
		{&models.Category{}, &stats.TotalCategories},
		{&models.Dish{}, &stats.TotalDishes},
		{&models.Menu{}, &stats.TotalMenus},
	}
	for _, q := range counts {
		if err := dc.DB.Model(q.model).Count(q.dst).Error; err != nil {
			return stats, err
		}
	}

	for _, status := range []string{
		models.ReservationPending, models.ReservationConfirmed,
		models.ReservationCancelled, models.ReservationCompleted,
	} {
		var n int64
		if err := dc.DB.Model(&models.Reservation{}).Where("status = ?", status).Count(&n).Error; err != nil {
			return stats, err
		}
		stats.Reservations[status] = n
	}

	if err := dc.DB.Model(&models.Reservation{}).
		Where("reservation_date = ? AND status IN ?", today, active).
		Count(&stats.TodayReservations).Error; err != nil {
		return stats, err
	}
	if err := dc.DB.Model(&models.Reservation{}).
		Where("reservation_date = ? AND status IN ?", today, active).
		Select("COALESCE(SUM(number_of_people), 0)").Row().Scan(&stats.GuestsToday); err != nil {
		return stats, err
	}

	stats.Upcoming = []models.Reservation{}
	if err := dc.DB.Preload("User").
		Where("reserved_for > ? AND status IN ?", now.UTC(), active).
		Order("reserved_for ASC").Limit(10).
		Find(&stats.Upcoming).Error; err != nil {
		return stats, err
	}

	stats.TopFavorites = []FavoriteDishStat{}
	if err := dc.DB.Model(&models.Favorite{}).
		Select("favorites.dish_id AS dish_id, dishes.name AS name, COUNT(*) AS count").
		Joins("JOIN dishes ON dishes.id = favorites.dish_id").
		Group("favorites.dish_id, dishes.name").
		Order("count DESC").Limit(5).
		Scan(&stats.TopFavorites).Error; err != nil {
		return stats, err
	}

	return stats, nil
}

// ExportReservations streams every reservation as an xlsx workbook.
// ?status= restricts the export to one status.
func (dc *DashboardController) ExportReservations(c *gin.Context) {
	query := dc.DB.Preload("User").Order("reserved_for ASC")
	if status := c.Query("status"); status != "" {
		if !models.ValidReservationStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation status"))
			return
		}
		query = query.Where("status = ?", status)
	}

	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	f, err := BuildReservationWorkbook(reservations)
	if err != nil {
		utils.ErrorLogger.Printf("Error building reservation export: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("reservations-%s.xlsx", dc.Clock.Now().Format("20060102-1504"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		utils.ErrorLogger.Printf("Error writing reservation export: %v", err)
	}
}

// BuildReservationWorkbook lays out one reservation per row under a header row.
func BuildReservationWorkbook(reservations []models.Reservation) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, err
	}

	header := []any{"Code", "Client", "Email", "Date", "Heure", "Personnes", "Statut", "Demandes"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	for i, r := range reservations {
		var name, email string
		if r.User != nil {
			name, email = r.User.Name, r.User.Email
		}
		row := []any{
			r.Code, name, email, r.ReservationDate, r.ReservationTime,
			r.NumberOfPeople, r.Status, strings.TrimSpace(r.SpecialRequests),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// location is the restaurant timezone from settings, UTC when none are stored.
func (dc *DashboardController) location() (*time.Location, error) {
	setting, err := database.LoadSettings(dc.DB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.UTC, nil
		}
		return nil, err
	}
	return setting.Location(), nil
}
