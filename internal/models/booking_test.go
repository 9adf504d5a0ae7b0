package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to BookingStatus
	}{
		{BookingStatusPending, BookingStatusAccepted},
		{BookingStatusPending, BookingStatusDeclined},
		{BookingStatusPending, BookingStatusCancelled},
		{BookingStatusAccepted, BookingStatusCancelled},
		{BookingStatusAccepted, BookingStatusCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to BookingStatus
	}{
		{BookingStatusPending, BookingStatusCompleted},
		{BookingStatusAccepted, BookingStatusPending},
		{BookingStatusAccepted, BookingStatusDeclined},
		{BookingStatusDeclined, BookingStatusAccepted},
		{BookingStatusCancelled, BookingStatusPending},
		{BookingStatusCompleted, BookingStatusPending},
		{BookingStatusCompleted, BookingStatusCancelled},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "Booking accepted!", StatusMessage(BookingStatusAccepted))
	assert.Equal(t, "Booking declined", StatusMessage(BookingStatusDeclined))
	assert.Equal(t, "Booking cancelled", StatusMessage(BookingStatusCancelled))
	assert.Equal(t, "Ride completed!", StatusMessage(BookingStatusCompleted))

	// Anything else gets the generic message
	assert.Equal(t, "Booking updated", StatusMessage(BookingStatusPending))
	assert.Equal(t, "Booking updated", StatusMessage(BookingStatus("on_hold")))
}

func TestIsActive(t *testing.T) {
	assert.True(t, BookingStatusPending.IsActive())
	assert.True(t, BookingStatusAccepted.IsActive())
	assert.False(t, BookingStatusDeclined.IsActive())
	assert.False(t, BookingStatusCancelled.IsActive())
	assert.False(t, BookingStatusCompleted.IsActive())
}
