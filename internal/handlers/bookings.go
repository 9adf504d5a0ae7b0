package handlers

import (
	"context"
	"errors"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/models"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/services"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// statusCodeFor maps a failed store result to an HTTP status.
func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, store.ErrDuplicateBooking), errors.Is(err, store.ErrBookingConflict):
		return 409
	case errors.Is(err, store.ErrInvalidTransition):
		return 409
	case errors.Is(err, store.ErrNotFound):
		return 404
	case errors.Is(err, store.ErrUnauthorized):
		return 403
	default:
		return 500
	}
}

// CreateBooking handles a passenger requesting seats on a ride
func CreateBooking(db *gorm.DB, bookings *store.BookingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			RideID      uint   `json:"rideId" binding:"required"`
			Seats       int    `json:"seats" binding:"required,min=1"`
			PickupNotes string `json:"pickupNotes"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var ride models.Ride
		if err := db.First(&ride, input.RideID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}

		if ride.DriverID == userId {
			c.JSON(400, gin.H{"error": "You cannot book a seat on your own ride"})
			return
		}
		if ride.Status != models.RideStatusOpen {
			c.JSON(400, gin.H{"error": "Ride is no longer available"})
			return
		}
		if input.Seats > ride.SeatsAvailable {
			c.JSON(400, gin.H{"error": "Not enough seats available"})
			return
		}

		var passenger models.User
		if err := db.First(&passenger, userId).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to get passenger information"})
			return
		}

		result := bookings.CreateBooking(c.Request.Context(), userId, store.CreateBookingInput{
			RideID:        ride.ID,
			DriverID:      ride.DriverID,
			Seats:         input.Seats,
			PickupNotes:   input.PickupNotes,
			PassengerName: passenger.FullName,
		})

		if !result.Success {
			c.JSON(statusCodeFor(result.Err), gin.H{"success": false, "error": result.Message})
			return
		}

		c.JSON(201, result)
	}
}

// GetMyBookings retrieves both role-partitioned booking lists for the user
func GetMyBookings(bookings *store.BookingStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		asPassenger, asDriver, err := bookings.ListBookings(c.Request.Context(), userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{
			"asPassenger": asPassenger,
			"asDriver":    asDriver,
		})
	}
}

// UpdateBookingStatus updates the status of a booking
func UpdateBookingStatus(bookings *store.BookingStore, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		bookingId, ok := parseID(c, "id")
		if !ok {
			return
		}

		var input struct {
			Status string `json:"status" binding:"required,oneof=accepted declined cancelled completed"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		result := bookings.UpdateStatus(c.Request.Context(), userId, bookingId, models.BookingStatus(input.Status))
		if !result.Success {
			c.JSON(statusCodeFor(result.Err), gin.H{"success": false, "error": result.Message})
			return
		}

		notifyCounterparty(c.Request.Context(), hub, userId, result)

		c.JSON(200, result)
	}
}

// CancelBooking cancels a booking on behalf of either party
func CancelBooking(bookings *store.BookingStore, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		bookingId, ok := parseID(c, "id")
		if !ok {
			return
		}

		result := bookings.CancelBooking(c.Request.Context(), userId, bookingId)
		if !result.Success {
			c.JSON(statusCodeFor(result.Err), gin.H{"success": false, "error": result.Message})
			return
		}

		notifyCounterparty(c.Request.Context(), hub, userId, result)

		c.JSON(200, result)
	}
}

// notifyCounterparty pushes the status change to whichever party did not
// act, and publishes it for external consumers. Best-effort.
func notifyCounterparty(ctx context.Context, hub *services.Hub, actorID uint, result store.Result) {
	booking := result.Booking
	if booking == nil {
		return
	}

	counterparty := booking.PassengerID
	if actorID == booking.PassengerID {
		counterparty = booking.DriverID
	}

	if hub != nil {
		hub.SendBookingUpdate(counterparty, services.BookingUpdate{
			BookingID: booking.ID,
			RideID:    booking.RideID,
			Status:    string(booking.Status),
			Message:   result.Message,
		})
	}

	services.PublishBookingUpdate(ctx, booking.ID, booking.RideID, string(booking.Status))
}
