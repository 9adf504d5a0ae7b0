package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is one passenger's request to occupy seats on a ride.
// DriverID is denormalized from the ride so both role-partitioned
// queries stay single-table filters.
type Booking struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	RideID         uint          `gorm:"column:ride_id;not null;index" json:"rideId"`
	Ride           Ride          `json:"ride"`
	PassengerID    uint          `gorm:"column:passenger_id;not null;index" json:"passengerId"`
	Passenger      User          `gorm:"foreignKey:PassengerID" json:"passenger"`
	DriverID       uint          `gorm:"column:driver_id;not null;index" json:"driverId"`
	SeatsRequested int           `gorm:"column:seats_requested;not null" json:"seatsRequested"`
	PickupNotes    string        `gorm:"column:pickup_notes" json:"pickupNotes"`
	Status         BookingStatus `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "ride_bookings"
}

// IsActive reports whether the booking still occupies its (ride, passenger)
// slot. Only active bookings count toward the one-booking-per-ride rule.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusAccepted
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:  {BookingStatusAccepted, BookingStatusDeclined, BookingStatusCancelled},
	BookingStatusAccepted: {BookingStatusCancelled, BookingStatusCompleted},
	// declined, cancelled and completed are terminal
}

// CanTransition reports whether a booking may move from one status to
// another. No transition is reversible.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusMessage returns the confirmation text shown to the user after a
// status change.
func StatusMessage(status BookingStatus) string {
	switch status {
	case BookingStatusAccepted:
		return "Booking accepted!"
	case BookingStatusDeclined:
		return "Booking declined"
	case BookingStatusCancelled:
		return "Booking cancelled"
	case BookingStatusCompleted:
		return "Ride completed!"
	default:
		return "Booking updated"
	}
}
