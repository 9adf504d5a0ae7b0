package handlers

import (
	"log"
	"time"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/models"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/notifications"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/services"
	"github.com/Itachi3355/DegreeWheels-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateRide handles the creation of a new ride by a driver
func CreateRide(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Origin        string    `json:"origin" binding:"required"`
			Destination   string    `json:"destination" binding:"required"`
			OriginLat     float64   `json:"originLat"`
			OriginLng     float64   `json:"originLng"`
			DepartureTime time.Time `json:"departureTime" binding:"required"`
			Seats         int       `json:"seats" binding:"required,min=1"`
			Price         float64   `json:"price"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		// Check if the scheduled time is in the future
		if input.DepartureTime.Before(time.Now()) {
			c.JSON(400, gin.H{"error": "Departure time must be in the future"})
			return
		}

		ride := models.Ride{
			DriverID:       userId,
			Origin:         input.Origin,
			Destination:    input.Destination,
			OriginLat:      input.OriginLat,
			OriginLng:      input.OriginLng,
			DepartureTime:  input.DepartureTime,
			SeatsTotal:     input.Seats,
			SeatsAvailable: input.Seats,
			Price:          input.Price,
			Status:         models.RideStatusOpen,
		}

		if err := db.Create(&ride).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create ride"})
			return
		}

		services.InvalidateAvailableRides(c.Request.Context())

		c.JSON(201, ride)
	}
}

// GetAvailableRides lists open rides with a future departure, optionally
// filtered by proximity to a pickup point
func GetAvailableRides(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var near *utils.Point
		var radiusKm float64
		if c.Query("lat") != "" && c.Query("lng") != "" {
			var query struct {
				Lat    float64 `form:"lat"`
				Lng    float64 `form:"lng"`
				Radius float64 `form:"radius"`
			}
			if err := c.ShouldBindQuery(&query); err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			near = &utils.Point{Lat: query.Lat, Lng: query.Lng}
			radiusKm = query.Radius
			if radiusKm <= 0 {
				radiusKm = 10.0
			}
		}

		rides, err := services.GetCachedAvailableRides(ctx)
		if err != nil {
			if err := db.Where("status = ? AND departure_time > ? AND seats_available > 0",
				models.RideStatusOpen, time.Now()).
				Preload("Driver").
				Order("departure_time ASC").
				Find(&rides).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch rides"})
				return
			}
			services.CacheAvailableRides(ctx, rides)
		}

		if near != nil {
			filtered := make([]models.Ride, 0, len(rides))
			for _, ride := range rides {
				if utils.IsWithinRadius(near.Lat, near.Lng, ride.OriginLat, ride.OriginLng, radiusKm) {
					filtered = append(filtered, ride)
				}
			}
			rides = filtered
		}

		c.JSON(200, rides)
	}
}

// GetDriverRides retrieves all rides offered by the authenticated driver
func GetDriverRides(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var rides []models.Ride
		if err := db.Where("driver_id = ?", userId).
			Order("departure_time DESC").
			Find(&rides).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rides"})
			return
		}

		c.JSON(200, rides)
	}
}

// CancelRide cancels a ride, voids its active bookings and notifies every
// affected passenger in one batch
func CancelRide(db *gorm.DB, dispatcher *notifications.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		rideId, ok := parseID(c, "rideId")
		if !ok {
			return
		}

		var ride models.Ride
		if err := db.Preload("Driver").First(&ride, rideId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}

		if ride.DriverID != userId {
			c.JSON(403, gin.H{"error": "Only the driver can cancel this ride"})
			return
		}

		if ride.Status != models.RideStatusOpen {
			c.JSON(400, gin.H{"error": "Ride cannot be cancelled"})
			return
		}

		var affected []models.Booking
		if err := db.Where("ride_id = ? AND status IN ?", ride.ID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusAccepted}).
			Preload("Passenger").
			Find(&affected).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ride bookings"})
			return
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		ride.Status = models.RideStatusCancelled
		if err := tx.Save(&ride).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to cancel ride"})
			return
		}

		if len(affected) > 0 {
			if err := tx.Model(&models.Booking{}).
				Where("ride_id = ? AND status IN ?", ride.ID,
					[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusAccepted}).
				Update("status", models.BookingStatusCancelled).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to cancel ride bookings"})
				return
			}
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to complete transaction"})
			return
		}

		services.InvalidateAvailableRides(c.Request.Context())

		// One notification per affected passenger, single bulk insert
		if len(affected) > 0 {
			passengerIDs := make([]uint, 0, len(affected))
			for _, booking := range affected {
				passengerIDs = append(passengerIDs, booking.PassengerID)
			}
			dispatcher.RideCancelled(c.Request.Context(), passengerIDs, ride.Driver.FullName, ride.Destination)

			for _, booking := range affected {
				var prefs models.NotificationPreference
				err := db.Where("user_id = ?", booking.PassengerID).First(&prefs).Error
				if err == nil && !prefs.EmailEnabled {
					continue
				}
				if err := utils.SendRideCancelledEmail(booking.Passenger.Email, ride.Destination); err != nil {
					log.Printf("Failed to send cancellation email to %s: %v", booking.Passenger.Email, err)
				}
			}
		}

		c.JSON(200, gin.H{
			"message": "Ride cancelled successfully",
			"rideId":  ride.ID,
			"status":  ride.Status,
		})
	}
}

// RemindRidePassengers dispatches reminder notifications (and emails,
// preference permitting) to every confirmed passenger of a ride
func RemindRidePassengers(db *gorm.DB, dispatcher *notifications.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		rideId, ok := parseID(c, "rideId")
		if !ok {
			return
		}

		var ride models.Ride
		if err := db.First(&ride, rideId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}

		if ride.DriverID != userId {
			c.JSON(403, gin.H{"error": "Only the driver can send reminders"})
			return
		}

		var confirmed []models.Booking
		if err := db.Where("ride_id = ? AND status = ?", ride.ID, models.BookingStatusAccepted).
			Preload("Passenger").
			Find(&confirmed).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch ride bookings"})
			return
		}

		if len(confirmed) == 0 {
			c.JSON(200, gin.H{"message": "No confirmed passengers to remind", "reminded": 0})
			return
		}

		passengerIDs := make([]uint, 0, len(confirmed))
		for _, booking := range confirmed {
			passengerIDs = append(passengerIDs, booking.PassengerID)
		}
		dispatcher.RideReminder(c.Request.Context(), passengerIDs, ride.Destination, ride.DepartureTime)

		// Reminder emails ride along, for passengers who kept them enabled
		for _, booking := range confirmed {
			var prefs models.NotificationPreference
			err := db.Where("user_id = ?", booking.PassengerID).First(&prefs).Error
			if err == nil && !prefs.EmailEnabled {
				continue
			}
			if err := utils.SendRideReminderEmail(booking.Passenger.Email, ride.Destination, ride.DepartureTime); err != nil {
				log.Printf("Failed to send reminder email to %s: %v", booking.Passenger.Email, err)
			}
		}

		c.JSON(200, gin.H{
			"message":  "Reminders sent",
			"reminded": len(passengerIDs),
		})
	}
}
