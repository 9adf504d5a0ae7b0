package store

import "errors"

// Failure classes surfaced by the booking store. Handlers branch on these
// with errors.Is to pick a status code; the Result carries the user-facing
// text separately.
var (
	// ErrFetchFailed means one of the two listing queries failed. Partial
	// results are never returned.
	ErrFetchFailed = errors.New("failed to fetch bookings")

	// ErrDuplicateBooking is raised by the pre-check when an active booking
	// already exists for the (ride, passenger) pair.
	ErrDuplicateBooking = errors.New("duplicate booking")

	// ErrBookingConflict is the storage-level uniqueness violation: the
	// pre-check passed but a concurrent insert won the race. Shown to the
	// user with the same message as ErrDuplicateBooking.
	ErrBookingConflict = errors.New("booking conflict")

	// ErrInvalidTransition rejects a status change the lifecycle does not
	// allow (e.g. completed back to pending).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound means the booking does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrUnauthorized means the acting user holds neither role on the booking
	// required for the requested change.
	ErrUnauthorized = errors.New("not allowed to modify this booking")

	// ErrStorage covers any other remote failure.
	ErrStorage = errors.New("storage operation failed")
)
