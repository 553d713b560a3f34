package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-site/database"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/reservation"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

// MsgInvalidDateTime is reported when a non-empty date or time cannot be read.
const MsgInvalidDateTime = "La date ou l'heure est invalide"

var (
	ErrReservationClosed = errors.New("reservation is already cancelled or completed")
	ErrInvalidStatus     = errors.New("invalid reservation status")
)

// ReservationService validates and books reservations against the current settings.
type ReservationService struct {
	DB        *gorm.DB
	Clock     reservation.Clock
	Publisher Publisher
}

func NewReservationService(db *gorm.DB, clock reservation.Clock, publisher Publisher) *ReservationService {
	if clock == nil {
		clock = reservation.SystemClock{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &ReservationService{DB: db, Clock: clock, Publisher: publisher}
}

// Validator builds a validator from the stored opening hours.
func (s *ReservationService) Validator() (reservation.Validator, error) {
	setting, err := database.LoadSettings(s.DB)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return reservation.Validator{}, err
		}
		setting = models.DefaultSetting("UTC")
	}
	return setting.Validator(), nil
}

// Validate runs the reservation rules with the service clock.
func (s *ReservationService) Validate(in reservation.Input) (reservation.Result, error) {
	v, err := s.Validator()
	if err != nil {
		return reservation.Result{}, err
	}
	return s.validate(v, in)
}

func (s *ReservationService) validate(v reservation.Validator, in reservation.Input) (reservation.Result, error) {
	res, err := v.Validate(in, s.Clock.Now())
	if err != nil {
		return res, err
	}
	// The rules skip the time checks when the date or time is unreadable; a
	// booking still needs a real instant.
	if _, ok := v.ReservedFor(in); !ok && strings.TrimSpace(in.Date) != "" && strings.TrimSpace(in.Time) != "" {
		res.Accepted = false
		res.Errors = append(res.Errors, MsgInvalidDateTime)
	}
	return res, nil
}

// Book validates in and, when accepted, stores a pending reservation for userID.
// The returned Result is always set; the reservation only when accepted.
func (s *ReservationService) Book(userID uint, in reservation.Input) (models.Reservation, reservation.Result, error) {
	v, err := s.Validator()
	if err != nil {
		return models.Reservation{}, reservation.Result{}, err
	}

	res, err := s.validate(v, in)
	if err != nil || !res.Accepted {
		return models.Reservation{}, res, err
	}

	at, _ := v.ReservedFor(in)
	size, _, _ := reservation.CoercePartySize(in.PartySize)

	r := models.Reservation{
		Code:            uuid.NewString(),
		UserID:          userID,
		ReservationDate: strings.TrimSpace(in.Date),
		ReservationTime: strings.TrimSpace(in.Time),
		NumberOfPeople:  size,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		ReservedFor:     at.UTC(),
		Status:          models.ReservationPending,
	}
	if err := s.DB.Create(&r).Error; err != nil {
		return models.Reservation{}, res, err
	}

	utils.InfoLogger.Printf("Reservation %s created for user %d (%s %s, %d guests)",
		r.Code, userID, r.ReservationDate, r.ReservationTime, r.NumberOfPeople)
	PublishAsync(s.Publisher, NewReservationEvent(EventReservationCreated, r))
	return r, res, nil
}

// Cancel marks an active reservation as cancelled.
func (s *ReservationService) Cancel(r *models.Reservation) error {
	if !r.Active() {
		return ErrReservationClosed
	}
	r.Status = models.ReservationCancelled
	if err := s.DB.Model(r).Update("status", r.Status).Error; err != nil {
		return err
	}

	PublishAsync(s.Publisher, NewReservationEvent(EventReservationCancelled, *r))
	return nil
}

// UpdateStatus is used by staff to confirm, cancel or complete a reservation.
// Cancelled and completed reservations are final.
func (s *ReservationService) UpdateStatus(r *models.Reservation, status string) error {
	if !models.ValidReservationStatus(status) {
		return ErrInvalidStatus
	}
	if !r.Active() {
		return ErrReservationClosed
	}
	if status == models.ReservationCancelled {
		return s.Cancel(r)
	}
	r.Status = status
	if err := s.DB.Model(r).Update("status", status).Error; err != nil {
		return err
	}

	PublishAsync(s.Publisher, NewReservationEvent(EventReservationUpdated, *r))
	return nil
}
