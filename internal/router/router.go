// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/noblehomes/backoffice/internal/config"
	"github.com/noblehomes/backoffice/internal/handlers"
	"github.com/noblehomes/backoffice/internal/middleware"
	"github.com/noblehomes/backoffice/internal/services"
)

func Initialize(db *gorm.DB, store services.ObjectStore, cfg *config.Config) *gin.Engine {
	// Initialize services
	uploader := services.NewUploader(store, cfg.Upload.UploadWorkers)
	listingService := services.NewListingService(db, uploader, store, cfg.Upload)
	adminService := services.NewAdminService(db, uploader, store)

	// Initialize handlers
	listingHandler := handlers.NewListingHandler(listingService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		listings := v1.Group("/listings")
		{
			listings.GET("", listingHandler.GetListings)
			listings.GET("/features", listingHandler.GetFeatureCatalog)
			listings.GET("/:id", listingHandler.GetListing)
			listings.POST("", middleware.UploadRateLimit(), listingHandler.CreateListing)
			listings.PUT("/:id", listingHandler.UpdateListing)
			listings.DELETE("/:id", listingHandler.DeleteListing)
		}

		admins := v1.Group("/admins")
		{
			admins.GET("", adminHandler.GetAdmins)
			admins.GET("/:id", adminHandler.GetAdmin)
			admins.POST("", adminHandler.CreateAdmin)
			admins.POST("/:id/avatar", middleware.UploadRateLimit(), adminHandler.UploadAvatar)
		}
	}

	return r
}
