package models

import (
	"time"

	"gorm.io/gorm"
)

type RideStatus string

const (
	RideStatusOpen      RideStatus = "open"
	RideStatusCancelled RideStatus = "cancelled"
	RideStatusCompleted RideStatus = "completed"
)

type Ride struct {
	gorm.Model
	DriverID       uint       `gorm:"column:driver_id;not null;index" json:"driverId"`
	Driver         User       `json:"driver"`
	Origin         string     `gorm:"not null" json:"origin"`
	Destination    string     `gorm:"not null" json:"destination"`
	OriginLat      float64    `gorm:"column:origin_lat" json:"originLat"`
	OriginLng      float64    `gorm:"column:origin_lng" json:"originLng"`
	DepartureTime  time.Time  `gorm:"column:departure_time;not null" json:"departureTime"`
	SeatsTotal     int        `gorm:"column:seats_total;not null" json:"seatsTotal"`
	SeatsAvailable int        `gorm:"column:seats_available;not null" json:"seatsAvailable"`
	Price          float64    `json:"price"`
	Status         RideStatus `gorm:"not null;default:'open'" json:"status"`
}
