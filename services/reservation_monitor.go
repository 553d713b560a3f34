package services

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/reservation"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

// ReservationMonitor periodically closes reservations whose service is over
// and purges expired entries from the token blacklist.
type ReservationMonitor struct {
	DB        *gorm.DB
	Clock     reservation.Clock
	Publisher Publisher
	Interval  time.Duration
	Grace     time.Duration
	StopChan  chan struct{}
}

func NewReservationMonitor(db *gorm.DB, clock reservation.Clock, publisher Publisher) *ReservationMonitor {
	return &ReservationMonitor{
		DB:        db,
		Clock:     clock,
		Publisher: publisher,
		Interval:  5 * time.Minute,
		Grace:     2 * time.Hour,
		StopChan:  make(chan struct{}),
	}
}

func (m *ReservationMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := m.CompletePast(); err != nil {
					utils.ErrorLogger.Printf("Error completing past reservations: %v", err)
				}
				if n := utils.PurgeBlacklist(m.Clock.Now()); n > 0 {
					utils.InfoLogger.Printf("Purged %d expired tokens from blacklist", n)
				}
			case <-m.StopChan:
				return
			}
		}
	}()
}

func (m *ReservationMonitor) Stop() {
	close(m.StopChan)
}

// CompletePast marks active reservations older than the grace period as completed.
func (m *ReservationMonitor) CompletePast() (int, error) {
	cutoff := m.Clock.Now().Add(-m.Grace).UTC()

	var past []models.Reservation
	err := m.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status IN ? AND reserved_for < ?",
			[]string{models.ReservationPending, models.ReservationConfirmed}, cutoff).
			Order("reserved_for ASC").
			Limit(500).
			Find(&past).Error; err != nil {
			return err
		}
		if len(past) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(past))
		for _, r := range past {
			ids = append(ids, r.ID)
		}
		return tx.Model(&models.Reservation{}).
			Where("id IN ?", ids).
			Update("status", models.ReservationCompleted).Error
	})
	if err != nil {
		return 0, err
	}

	for _, r := range past {
		r.Status = models.ReservationCompleted
		if m.Publisher != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := m.Publisher.Publish(ctx, NewReservationEvent(EventReservationUpdated, r)); err != nil {
				utils.ErrorLogger.Printf("Failed to publish completion of reservation %d: %v", r.ID, err)
			}
			cancel()
		}
	}
	if len(past) > 0 {
		utils.InfoLogger.Printf("Completed %d past reservations", len(past))
	}
	return len(past), nil
}
