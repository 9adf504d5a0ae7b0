package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/models"
	"gorm.io/gorm"
)

const duplicateMessage = "You already have a booking request for this ride"

// BookingRepository is the storage surface the store needs. The GORM
// implementation lives in internal/repository.
type BookingRepository interface {
	ListByPassenger(ctx context.Context, userID uint) ([]models.Booking, error)
	ListByDriver(ctx context.Context, userID uint) ([]models.Booking, error)
	// FindActive returns the pending or accepted booking for the
	// (ride, passenger) pair, or nil when there is none.
	FindActive(ctx context.Context, rideID, passengerID uint) (*models.Booking, error)
	Get(ctx context.Context, bookingID uint) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, bookingID uint, status models.BookingStatus) (*models.Booking, error)
}

// Notifier receives booking events for fan-out. Delivery is best-effort:
// implementations log their own failures and never return them.
type Notifier interface {
	RideRequest(ctx context.Context, driverID uint, passengerName string)
}

// Result is the uniform outcome shape for booking operations. Callers
// branch on Success rather than catching errors; Err carries the failure
// class for status-code mapping and Message the user-facing text.
type Result struct {
	Success bool            `json:"success"`
	Booking *models.Booking `json:"booking,omitempty"`
	Message string          `json:"message,omitempty"`
	Err     error           `json:"-"`
}

// CreateBookingInput carries everything CreateBooking needs besides the
// acting user.
type CreateBookingInput struct {
	RideID        uint
	DriverID      uint
	Seats         int
	PickupNotes   string
	PassengerName string
}

// BookingStore mediates all booking creation, retrieval and status
// mutation, and keeps the two role-partitioned views consistent after
// every mutation. Views are refreshed wholesale, not patched.
type BookingStore struct {
	repo     BookingRepository
	notifier Notifier

	mu          sync.RWMutex
	loading     bool
	asPassenger []models.Booking
	asDriver    []models.Booking
}

func NewBookingStore(repo BookingRepository, notifier Notifier) *BookingStore {
	return &BookingStore{repo: repo, notifier: notifier}
}

// Loading reports whether a listing refresh is in flight.
func (s *BookingStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Bookings returns snapshots of the cached views from the last refresh.
func (s *BookingStore) Bookings() (asPassenger, asDriver []models.Booking) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asPassenger = append([]models.Booking(nil), s.asPassenger...)
	asDriver = append([]models.Booking(nil), s.asDriver...)
	return asPassenger, asDriver
}

// ListBookings fetches both role-partitioned views for the user, newest
// first, and updates the cache. All-or-nothing: if either query fails the
// whole listing fails and the cache is left untouched.
func (s *BookingStore) ListBookings(ctx context.Context, userID uint) (asPassenger, asDriver []models.Booking, err error) {
	s.setLoading(true)
	defer s.setLoading(false)

	asPassenger, err = s.repo.ListByPassenger(ctx, userID)
	if err != nil {
		log.Printf("Failed to fetch passenger bookings for user %d: %v", userID, err)
		return nil, nil, ErrFetchFailed
	}

	asDriver, err = s.repo.ListByDriver(ctx, userID)
	if err != nil {
		log.Printf("Failed to fetch driver bookings for user %d: %v", userID, err)
		return nil, nil, ErrFetchFailed
	}

	s.mu.Lock()
	s.asPassenger = asPassenger
	s.asDriver = asDriver
	s.mu.Unlock()

	return asPassenger, asDriver, nil
}

// CreateBooking inserts a pending booking for the acting user, guarding
// against duplicates twice: a pre-check query for fast feedback, and the
// storage uniqueness constraint for correctness under a race. Both guards
// are intentional. On success the driver is notified (best-effort) and
// both views are refreshed.
func (s *BookingStore) CreateBooking(ctx context.Context, userID uint, input CreateBookingInput) Result {
	if input.Seats < 1 {
		return Result{Message: "Seats requested must be at least 1", Err: ErrStorage}
	}

	existing, err := s.repo.FindActive(ctx, input.RideID, userID)
	if err != nil {
		log.Printf("Duplicate pre-check failed for ride %d user %d: %v", input.RideID, userID, err)
		return Result{Message: "Failed to create booking", Err: ErrStorage}
	}
	if existing != nil {
		return Result{Message: duplicateMessage, Err: ErrDuplicateBooking}
	}

	booking := &models.Booking{
		RideID:         input.RideID,
		PassengerID:    userID,
		DriverID:       input.DriverID,
		SeatsRequested: input.Seats,
		PickupNotes:    input.PickupNotes,
		Status:         models.BookingStatusPending,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent identical insert.
			return Result{Message: duplicateMessage, Err: ErrBookingConflict}
		}
		log.Printf("Failed to create booking for ride %d user %d: %v", input.RideID, userID, err)
		return Result{Message: "Failed to create booking", Err: ErrStorage}
	}

	s.notifier.RideRequest(ctx, input.DriverID, input.PassengerName)
	s.refresh(ctx, userID)

	return Result{Success: true, Booking: booking, Message: "Booking requested!"}
}

// UpdateStatus moves a booking to newStatus after validating the
// transition against the lifecycle table, then refreshes both views.
// Accept/decline/complete are driver actions; cancel is open to either
// party. No notification is dispatched from this path.
func (s *BookingStore) UpdateStatus(ctx context.Context, userID, bookingID uint, newStatus models.BookingStatus) Result {
	current, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Result{Message: "Booking not found", Err: ErrNotFound}
		}
		log.Printf("Failed to load booking %d: %v", bookingID, err)
		return Result{Message: "Failed to update booking", Err: ErrStorage}
	}

	if !s.allowed(current, userID, newStatus) {
		return Result{Message: "You are not allowed to update this booking", Err: ErrUnauthorized}
	}

	if !models.CanTransition(current.Status, newStatus) {
		return Result{
			Message: fmt.Sprintf("Cannot move booking from %s to %s", current.Status, newStatus),
			Err:     ErrInvalidTransition,
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, bookingID, newStatus)
	if err != nil {
		log.Printf("Failed to update booking %d to %s: %v", bookingID, newStatus, err)
		return Result{Message: "Failed to update booking", Err: ErrStorage}
	}

	s.refresh(ctx, userID)

	return Result{Success: true, Booking: updated, Message: models.StatusMessage(newStatus)}
}

// CancelBooking is a convenience alias for UpdateStatus to cancelled.
func (s *BookingStore) CancelBooking(ctx context.Context, userID, bookingID uint) Result {
	return s.UpdateStatus(ctx, userID, bookingID, models.BookingStatusCancelled)
}

func (s *BookingStore) allowed(booking *models.Booking, userID uint, newStatus models.BookingStatus) bool {
	switch newStatus {
	case models.BookingStatusAccepted, models.BookingStatusDeclined, models.BookingStatusCompleted:
		return booking.DriverID == userID
	case models.BookingStatusCancelled:
		return booking.PassengerID == userID || booking.DriverID == userID
	default:
		return false
	}
}

// refresh re-runs the listing after a mutation so the cached views always
// reflect the latest write. Failures are logged only; the mutation has
// already been reported.
func (s *BookingStore) refresh(ctx context.Context, userID uint) {
	if _, _, err := s.ListBookings(ctx, userID); err != nil {
		log.Printf("Failed to refresh bookings for user %d: %v", userID, err)
	}
}

func (s *BookingStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
