package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-site/database"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/reservation"
	"github.com/yeremiapane/restaurant-site/services"
)

func TestCompletePast(t *testing.T) {
	db := setupTestDB(t, true)
	pub := &recordingPublisher{}

	seed := []models.Reservation{
		{Code: "old-pending", Status: models.ReservationPending, ReservedFor: testNow.Add(-5 * time.Hour)},
		{Code: "old-confirmed", Status: models.ReservationConfirmed, ReservedFor: testNow.Add(-3 * time.Hour)},
		{Code: "within-grace", Status: models.ReservationConfirmed, ReservedFor: testNow.Add(-time.Hour)},
		{Code: "old-cancelled", Status: models.ReservationCancelled, ReservedFor: testNow.Add(-5 * time.Hour)},
		{Code: "tonight", Status: models.ReservationPending, ReservedFor: testNow.Add(10 * time.Hour)},
	}
	for i := range seed {
		seed[i].UserID = 1
		seed[i].ReservationDate = seed[i].ReservedFor.Format(reservation.DateLayout)
		seed[i].ReservationTime = seed[i].ReservedFor.Format("15:04")
		seed[i].NumberOfPeople = 2
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	monitor := services.NewReservationMonitor(db, reservation.FixedClock{At: testNow}, pub)
	monitor.Grace = 2 * time.Hour

	n, err := monitor.CompletePast()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	statuses := map[string]string{}
	var all []models.Reservation
	require.NoError(t, db.Find(&all).Error)
	for _, r := range all {
		statuses[r.Code] = r.Status
	}
	assert.Equal(t, map[string]string{
		"old-pending":   models.ReservationCompleted,
		"old-confirmed": models.ReservationCompleted,
		"within-grace":  models.ReservationConfirmed,
		"old-cancelled": models.ReservationCancelled,
		"tonight":       models.ReservationPending,
	}, statuses)
	assert.Equal(t, []string{services.EventReservationUpdated, services.EventReservationUpdated}, pub.Types())

	n, err = monitor.CompletePast()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMonitorStartStop(t *testing.T) {
	db := setupTestDB(t, true)
	monitor := services.NewReservationMonitor(db, reservation.FixedClock{At: testNow}, nil)
	monitor.Interval = 10 * time.Millisecond

	monitor.Start()
	time.Sleep(30 * time.Millisecond)
	monitor.Stop()
}

func TestCompletePastAcrossTimezones(t *testing.T) {
	db := setupTestDB(t, false)
	require.NoError(t, database.Migrate(db, "Europe/Paris"))

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 07:30 in Paris is 06:30 UTC, 08:30 is 07:30 UTC.
	seed := []models.Reservation{
		{Code: "breakfast", ReservedFor: time.Date(2026, 3, 10, 7, 30, 0, 0, paris)},
		{Code: "brunch", ReservedFor: time.Date(2026, 3, 10, 8, 30, 0, 0, paris)},
	}
	for i := range seed {
		seed[i].UserID = 1
		seed[i].Status = models.ReservationConfirmed
		seed[i].ReservationDate = "2026-03-10"
		seed[i].ReservationTime = seed[i].ReservedFor.Format("15:04")
		seed[i].NumberOfPeople = 2
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	// 09:00 UTC seen from New York; cutoff is 07:00 UTC.
	monitor := services.NewReservationMonitor(db, reservation.FixedClock{At: testNow.In(newYork)}, nil)
	monitor.Grace = 2 * time.Hour

	n, err := monitor.CompletePast()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var breakfast, brunch models.Reservation
	require.NoError(t, db.Where("code = ?", "breakfast").First(&breakfast).Error)
	require.NoError(t, db.Where("code = ?", "brunch").First(&brunch).Error)
	assert.Equal(t, models.ReservationCompleted, breakfast.Status)
	assert.Equal(t, models.ReservationConfirmed, brunch.Status)
	assert.True(t, breakfast.ReservedFor.Equal(seed[0].ReservedFor))
}
