package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/autolavado-hn/carwash-api/config"
	"github.com/autolavado-hn/carwash-api/controllers"
	"github.com/autolavado-hn/carwash-api/middleware"
	"github.com/autolavado-hn/carwash-api/models"
	"github.com/autolavado-hn/carwash-api/services"
)

func main() {
	log.Println("Starting Carwash API server...")

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Service{},
		&models.Quote{},
		&models.HistoryRecord{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Notifications are persisted by a background dispatcher
	services.InitNotificationDispatcher(db)

	// Photo storage is optional; the API runs without it
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Printf("warning: S3 unavailable, photo uploads disabled: %v", err)
		} else {
			services.InitPhotoService(s3Service)
		}
	} else {
		log.Println("AWS_S3_BUCKET not set, photo uploads disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with CORS and all API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	authRequired := middleware.EnsureValidToken(cfg)

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Public catalog
		v1.GET("/services", controllers.GetServices)
		v1.GET("/services/:id", controllers.GetService)

		// User profile
		users := v1.Group("/users", authRequired)
		{
			users.POST("", controllers.CreateUser)
			users.GET("/me", controllers.GetMyProfile)
			users.PUT("/me", controllers.UpdateMyProfile)
		}

		// Vehicles
		vehicles := v1.Group("/vehicles", authRequired)
		{
			vehicles.POST("", controllers.CreateVehicle)
			vehicles.GET("", controllers.GetMyVehicles)
			vehicles.GET("/:id", controllers.GetVehicle)
			vehicles.PUT("/:id", controllers.UpdateVehicle)
			vehicles.DELETE("/:id", controllers.DeleteVehicle)
			vehicles.POST("/:id/photo", controllers.UploadVehiclePhoto)
			vehicles.GET("/:id/oil-change-check", controllers.CheckOilChange)
		}

		// Quotes
		quotes := v1.Group("/quotes", authRequired)
		{
			quotes.POST("", controllers.CreateQuote)
			quotes.GET("", controllers.GetMyQuotes)
			quotes.POST("/estimate", controllers.EstimatePrice)
			quotes.GET("/:id", controllers.GetQuote)
			quotes.POST("/:id/accept", controllers.AcceptQuote)
			quotes.POST("/:id/reject", controllers.RejectQuote)
			quotes.POST("/:id/cancel", controllers.CancelQuote)
		}

		// Service history
		history := v1.Group("/history", authRequired)
		{
			history.GET("", controllers.GetMyHistory)
			history.POST("/:id/rating", controllers.RateService)
		}

		// Notifications
		notifications := v1.Group("/notifications", authRequired)
		{
			notifications.GET("", controllers.GetMyNotifications)
			notifications.POST("/:id/read", controllers.MarkNotificationRead)
		}

		// Admin
		admin := v1.Group("/admin", authRequired)
		{
			admin.GET("/quotes", controllers.GetAllQuotes)
			admin.GET("/quotes/pending", controllers.GetPendingQuotes)
			admin.POST("/quotes/:id/respond", controllers.RespondToQuote)
			admin.POST("/quotes/:id/complete", controllers.CompleteQuote)
			admin.POST("/quotes/:id/cancel", controllers.AdminCancelQuote)

			admin.POST("/services", controllers.CreateService)
			admin.PUT("/services/:id", controllers.UpdateService)
			admin.DELETE("/services/:id", controllers.DeactivateService)

			admin.GET("/reports/quotes", controllers.GetQuotesReport)
			admin.GET("/reports/services", controllers.GetServicesReport)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Carwash API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
