package models

import (
	"time"

	"github.com/yeremiapane/restaurant-site/reservation"
)

// Setting is the single row of site configuration shown on every page.
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SiteName    string    `gorm:"type:varchar(255);not null" json:"site_name"`
	Tagline     string    `gorm:"type:varchar(255)" json:"tagline"`
	Address     string    `gorm:"type:varchar(255)" json:"address"`
	Phone       string    `gorm:"type:varchar(50)" json:"phone"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	LunchOpen   string    `gorm:"type:varchar(5);not null" json:"lunch_open"`
	LunchClose  string    `gorm:"type:varchar(5);not null" json:"lunch_close"`
	DinnerOpen  string    `gorm:"type:varchar(5);not null" json:"dinner_open"`
	DinnerClose string    `gorm:"type:varchar(5);not null" json:"dinner_close"`
	Timezone    string    `gorm:"type:varchar(64);not null" json:"timezone"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func DefaultSetting(timezone string) Setting {
	return Setting{
		ID:          1,
		SiteName:    "Le Restaurant",
		Tagline:     "Cuisine de saison",
		LunchOpen:   "12:00",
		LunchClose:  "14:30",
		DinnerOpen:  "19:00",
		DinnerClose: "22:30",
		Timezone:    timezone,
	}
}

// Schedule builds the service windows from the opening hours.
func (s Setting) Schedule() (reservation.Schedule, error) {
	lunch, err := reservation.ParseWindow(s.LunchOpen, s.LunchClose)
	if err != nil {
		return reservation.Schedule{}, err
	}
	dinner, err := reservation.ParseWindow(s.DinnerOpen, s.DinnerClose)
	if err != nil {
		return reservation.Schedule{}, err
	}
	return reservation.Schedule{Windows: []reservation.Window{lunch, dinner}}, nil
}

// Location resolves Timezone, falling back to UTC.
func (s Setting) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validator returns a reservation validator for these opening hours. Unparseable
// hours fall back to the default windows.
func (s Setting) Validator() reservation.Validator {
	schedule, err := s.Schedule()
	if err != nil {
		schedule = reservation.DefaultSchedule()
	}
	return reservation.NewValidator(schedule, s.Location())
}
