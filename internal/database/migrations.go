package database

import (
	"gorm.io/gorm"
)

// RunMigrations applies the constraints AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	// One active booking per (ride, passenger). The booking store pre-checks
	// for fast feedback; this partial index is the guard that holds under a
	// race between two identical inserts.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_booking_per_ride
		ON ride_bookings (ride_id, passenger_id)
		WHERE status IN ('pending', 'accepted')`).Error; err != nil {
		return err
	}

	// Known status tags only
	db.Exec(`ALTER TABLE ride_bookings DROP CONSTRAINT IF EXISTS ride_bookings_status_check`)
	if err := db.Exec(`ALTER TABLE ride_bookings ADD CONSTRAINT ride_bookings_status_check
		CHECK (status IN ('pending', 'accepted', 'declined', 'cancelled', 'completed'))`).Error; err != nil {
		return err
	}

	// A driver cannot book a seat on their own ride
	db.Exec(`ALTER TABLE ride_bookings DROP CONSTRAINT IF EXISTS ride_bookings_not_own_ride_check`)
	if err := db.Exec(`ALTER TABLE ride_bookings ADD CONSTRAINT ride_bookings_not_own_ride_check
		CHECK (passenger_id <> driver_id)`).Error; err != nil {
		return err
	}

	return nil
}
