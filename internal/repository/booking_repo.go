package repository

import (
	"context"
	"errors"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/models"
	"gorm.io/gorm"
)

// BookingRepo is the GORM-backed storage for ride_bookings.
type BookingRepo struct {
	db *gorm.DB
}

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) ListByPassenger(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("passenger_id = ?", userID).
		Preload("Ride").
		Preload("Ride.Driver").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepo) ListByDriver(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("driver_id = ?", userID).
		Preload("Ride").
		Preload("Passenger").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepo) FindActive(ctx context.Context, rideID, passengerID uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("ride_id = ? AND passenger_id = ? AND status IN ?",
			rideID, passengerID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusAccepted}).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepo) Get(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, bookingID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingID uint, status models.BookingStatus) (*models.Booking, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Get(ctx, bookingID)
}
