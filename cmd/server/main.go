// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/noblehomes/backoffice/internal/config"
	"github.com/noblehomes/backoffice/internal/database"
	"github.com/noblehomes/backoffice/internal/router"
	"github.com/noblehomes/backoffice/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		logrus.Fatal("Failed to run migrations: ", err)
	}

	// Initialize object store
	store, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.Fatal("Failed to initialize object store: ", err)
	}

	// Schedule the orphaned-asset sweep
	scheduler := cron.New()
	if cfg.Sweep.Enabled {
		sweeper := services.NewOrphanSweeper(db, store, cfg.Upload.Namespace,
			time.Duration(cfg.Sweep.GracePeriodMin)*time.Minute)

		if _, err := scheduler.AddFunc(cfg.Sweep.Schedule, func() {
			if _, err := sweeper.Sweep(); err != nil {
				logrus.WithError(err).Error("Orphan sweep failed")
			}
		}); err != nil {
			logrus.Fatal("Failed to schedule orphan sweep: ", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Initialize router
	r := router.Initialize(db, store, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatal("Server forced to shutdown: ", err)
	}

	logrus.Info("Server exited")
}
