package main

import (
	"log"
	"os"
	"time"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/database"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/handlers"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/middleware"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/notifications"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/repository"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/services"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Constraints AutoMigrate cannot express (active-booking uniqueness)
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Wire the booking core
	notificationRepo := repository.NewNotificationRepo(db)
	dispatcher := notifications.NewDispatcher(notificationRepo, hub, services.UnreadCounter{})
	bookingRepo := repository.NewBookingRepo(db)
	bookings := store.NewBookingStore(bookingRepo, dispatcher)

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
			}

			// Rides routes
			rides := protected.Group("/rides")
			{
				rides.GET("", handlers.GetAvailableRides(db))
				rides.POST("", handlers.CreateRide(db))
				rides.GET("/driver", handlers.GetDriverRides(db))
				rides.POST("/:rideId/cancel", handlers.CancelRide(db, dispatcher))
				rides.POST("/:rideId/remind", handlers.RemindRidePassengers(db, dispatcher))
			}

			// Bookings routes
			booking := protected.Group("/bookings")
			{
				booking.POST("", handlers.CreateBooking(db, bookings))
				booking.GET("", handlers.GetMyBookings(bookings))
				booking.PATCH("/:id/status", handlers.UpdateBookingStatus(bookings, hub))
				booking.POST("/:id/cancel", handlers.CancelBooking(bookings, hub))
			}

			// Notification routes
			inbox := protected.Group("/notifications")
			{
				inbox.GET("", handlers.GetNotifications(notificationRepo))
				inbox.GET("/unread-count", handlers.GetUnreadCount(notificationRepo))
				inbox.PATCH("/:id/read", handlers.MarkNotificationRead(notificationRepo))
				inbox.POST("/read-all", handlers.MarkAllNotificationsRead(notificationRepo))

				// Notification preferences
				inbox.GET("/preferences", handlers.GetNotificationPreferences(db))
				inbox.PUT("/preferences", handlers.UpdateNotificationPreferences(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
