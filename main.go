package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/config"
	"github.com/yeremiapane/restaurant-site/database"
	"github.com/yeremiapane/restaurant-site/realtime"
	"github.com/yeremiapane/restaurant-site/reservation"
	"github.com/yeremiapane/restaurant-site/router"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/utils"
)

func main() {
	cfg := config.Load()

	utils.SetLogLevel(cfg.LogLevel)
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
		utils.UseJSONFormat()
	}
	utils.ConfigureJWT(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db, cfg.Timezone); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	hub := realtime.NewHub()
	defer hub.Close()

	publisher, err := services.NewPublisher(cfg, hub)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to set up event publisher: %v", err)
	}
	defer publisher.Close()

	clock := reservation.SystemClock{}
	reservations := services.NewReservationService(db, clock, publisher)

	monitor := services.NewReservationMonitor(db, clock, publisher)
	monitor.Interval = cfg.ExpiryInterval
	monitor.Grace = cfg.ExpiryGrace
	monitor.Start()
	defer monitor.Stop()

	r, err := router.SetupRouter(router.Deps{
		DB:           db,
		Config:       cfg,
		Hub:          hub,
		Reservations: reservations,
		Clock:        clock,
	})
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to set up router: %v", err)
	}
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Error setting trusted proxies: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server forced to shutdown: %v", err)
	}
}
