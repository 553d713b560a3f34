package models

import "time"

// Menu is a fixed-price set of dishes (formule). The association lives in menu_dishes.
type Menu struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255); not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2); not null" json:"price"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	Dishes      []Dish    `gorm:"many2many:menu_dishes;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"dishes"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
