package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Code            string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"code"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	ReservationDate string    `gorm:"type:varchar(10);not null;index" json:"reservation_date"`
	ReservationTime string    `gorm:"type:varchar(8);not null" json:"reservation_time"`
	NumberOfPeople  int       `gorm:"not null" json:"number_of_people"`
	SpecialRequests string    `gorm:"type:text" json:"special_requests"`
	ReservedFor     time.Time `gorm:"not null;index" json:"reserved_for"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func ValidReservationStatus(status string) bool {
	switch status {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

// BeforeSave stores ReservedFor in UTC. sqlite keeps timestamps as text with
// their offset, so mixed zones would not compare correctly in queries.
func (r *Reservation) BeforeSave(tx *gorm.DB) error {
	r.ReservedFor = r.ReservedFor.UTC()
	return nil
}

// Active reports whether the reservation still holds a table.
func (r Reservation) Active() bool {
	return r.Status == ReservationPending || r.Status == ReservationConfirmed
}
