package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/middlewares"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/reservation"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB      *gorm.DB
	Service *services.ReservationService
}

func NewReservationController(db *gorm.DB, service *services.ReservationService) *ReservationController {
	return &ReservationController{DB: db, Service: service}
}

// ValidateReservation lets the form check a request before submitting it.
func (rc *ReservationController) ValidateReservation(c *gin.Context) {
	var in reservation.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := rc.Service.Validate(in)
	if err != nil {
		respondValidationFault(c, err)
		return
	}
	if !res.Accepted {
		utils.RespondJSON(c, http.StatusUnprocessableEntity, "Reservation rejected", res)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation accepted", res)
}

// CreateReservation re-runs the validation server side before storing anything.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	userID, ok := middlewares.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var in reservation.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	r, res, err := rc.Service.Book(userID, in)
	if err != nil {
		respondValidationFault(c, err)
		return
	}
	if !res.Accepted {
		utils.RespondJSON(c, http.StatusUnprocessableEntity, "Reservation rejected", res)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", r)
}

// GetReservations returns the caller's reservations; admins see all of them
// and may filter with ?status= and ?date=.
func (rc *ReservationController) GetReservations(c *gin.Context) {
	userID, _ := middlewares.CurrentUserID(c)
	query := rc.DB.Order("reserved_for ASC")

	if c.GetString(middlewares.CtxRole) == models.RoleAdmin {
		query = query.Preload("User")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if date := c.Query("date"); date != "" {
			query = query.Where("reservation_date = ?", date)
		}
	} else {
		query = query.Where("user_id = ?", userID)
	}

	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetReservationByID
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	r, ok := rc.loadOwned(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", r)
}

// UpdateReservationStatus (admin)
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	r, ok := rc.loadOwned(c)
	if !ok {
		return
	}

	if err := rc.Service.UpdateStatus(&r, body.Status); err != nil {
		respondStatusError(c, err)
		return
	}
	utils.InfoLogger.Printf("Reservation %d status changed to %s", r.ID, r.Status)
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", r)
}

// CancelReservation (owner or admin)
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	r, ok := rc.loadOwned(c)
	if !ok {
		return
	}

	if err := rc.Service.Cancel(&r); err != nil {
		respondStatusError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", r)
}

// loadOwned fetches the reservation named in the path, enforcing that
// customers only reach their own.
func (rc *ReservationController) loadOwned(c *gin.Context) (models.Reservation, bool) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return models.Reservation{}, false
	}

	var r models.Reservation
	if err := rc.DB.First(&r, id).Error; err != nil {
		respondLookupError(c, err, "reservation")
		return models.Reservation{}, false
	}

	userID, _ := middlewares.CurrentUserID(c)
	if c.GetString(middlewares.CtxRole) != models.RoleAdmin && r.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return models.Reservation{}, false
	}
	return r, true
}

func respondValidationFault(c *gin.Context, err error) {
	if errors.Is(err, reservation.ErrContractViolation) {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.ErrorLogger.Printf("Reservation validation failed: %v", err)
	utils.RespondError(c, http.StatusInternalServerError, err)
}

func respondStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrReservationClosed):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
