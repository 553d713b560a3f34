package database

import (
	"errors"

	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates every table and makes sure the settings row exists.
func Migrate(db *gorm.DB, timezone string) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	return EnsureSettings(db, timezone)
}

// EnsureSettings inserts the default settings row when none exists yet.
func EnsureSettings(db *gorm.DB, timezone string) error {
	var setting models.Setting
	err := db.First(&setting).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	setting = models.DefaultSetting(timezone)
	if err := db.Create(&setting).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Default settings created (timezone=%s)", timezone)
	return nil
}

// LoadSettings returns the current settings row.
func LoadSettings(db *gorm.DB) (models.Setting, error) {
	var setting models.Setting
	err := db.Order("id ASC").First(&setting).Error
	return setting, err
}
