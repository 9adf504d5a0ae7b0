package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeBookingRepo is an in-memory BookingRepository. It enforces the
// active-booking uniqueness the Postgres partial index provides, so the
// race-losing code path is reachable in tests.
type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   uint
	bookings map[uint]*models.Booking

	passengerErr error
	driverErr    error
	createErr    error

	// hideActive makes FindActive miss, simulating the race window where
	// the pre-check passes but the constraint still holds.
	hideActive bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uint]*models.Booking)}
}

func (r *fakeBookingRepo) ListByPassenger(ctx context.Context, userID uint) ([]models.Booking, error) {
	if r.passengerErr != nil {
		return nil, r.passengerErr
	}
	return r.list(func(b *models.Booking) bool { return b.PassengerID == userID }), nil
}

func (r *fakeBookingRepo) ListByDriver(ctx context.Context, userID uint) ([]models.Booking, error) {
	if r.driverErr != nil {
		return nil, r.driverErr
	}
	return r.list(func(b *models.Booking) bool { return b.DriverID == userID }), nil
}

func (r *fakeBookingRepo) list(match func(*models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, *b)
		}
	}
	// Newest first
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeBookingRepo) FindActive(ctx context.Context, rideID, passengerID uint) (*models.Booking, error) {
	if r.hideActive {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.RideID == rideID && b.PassengerID == passengerID && b.Status.IsActive() {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) Get(ctx context.Context, bookingID uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.RideID == booking.RideID && b.PassengerID == booking.PassengerID && b.Status.IsActive() {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	booking.ID = r.nextID
	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, bookingID uint, status models.BookingStatus) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	b.Status = status
	clone := *b
	return &clone, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	requests []uint // driver ids notified
}

func (n *fakeNotifier) RideRequest(ctx context.Context, driverID uint, passengerName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.requests = append(n.requests, driverID)
}

func newTestStore() (*BookingStore, *fakeBookingRepo, *fakeNotifier) {
	repo := newFakeBookingRepo()
	notifier := &fakeNotifier{}
	return NewBookingStore(repo, notifier), repo, notifier
}

func TestCreateBooking_Success(t *testing.T) {
	s, _, notifier := newTestStore()
	ctx := context.Background()

	result := s.CreateBooking(ctx, 7, CreateBookingInput{
		RideID:        3,
		DriverID:      2,
		Seats:         2,
		PickupNotes:   "call on arrival",
		PassengerName: "Alex Kim",
	})

	require.True(t, result.Success)
	require.NotNil(t, result.Booking)
	assert.Equal(t, models.BookingStatusPending, result.Booking.Status)
	assert.Equal(t, 2, result.Booking.SeatsRequested)
	assert.Equal(t, "call on arrival", result.Booking.PickupNotes)
	assert.Equal(t, uint(7), result.Booking.PassengerID)
	assert.Equal(t, uint(2), result.Booking.DriverID)

	// Driver got exactly one ride_request
	assert.Equal(t, []uint{2}, notifier.requests)

	// Views were refreshed: the new booking shows up in the passenger view
	asPassenger, asDriver := s.Bookings()
	require.Len(t, asPassenger, 1)
	assert.Equal(t, result.Booking.ID, asPassenger[0].ID)
	assert.Empty(t, asDriver)
}

func TestCreateBooking_DuplicatePreCheck(t *testing.T) {
	s, repo, notifier := newTestStore()
	ctx := context.Background()

	first := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	require.True(t, first.Success)

	second := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	assert.False(t, second.Success)
	assert.ErrorIs(t, second.Err, ErrDuplicateBooking)
	assert.Equal(t, duplicateMessage, second.Message)

	// No second record, no second notification
	assert.Len(t, repo.bookings, 1)
	assert.Len(t, notifier.requests, 1)
}

func TestCreateBooking_DuplicateAfterAccept(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	first := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	require.True(t, first.Success)
	require.True(t, s.UpdateStatus(ctx, 2, first.Booking.ID, models.BookingStatusAccepted).Success)

	// Accepted still occupies the slot
	second := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	assert.False(t, second.Success)
	assert.ErrorIs(t, second.Err, ErrDuplicateBooking)
}

func TestCreateBooking_RebookAfterCancel(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	first := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	require.True(t, first.Success)
	require.True(t, s.CancelBooking(ctx, 7, first.Booking.ID).Success)

	// A cancelled booking frees the slot
	second := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	assert.True(t, second.Success)
}

func TestCreateBooking_ConflictWhenRaceLost(t *testing.T) {
	s, repo, _ := newTestStore()
	ctx := context.Background()

	first := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	require.True(t, first.Success)

	// Simulate the race window: the pre-check misses but the storage
	// constraint still rejects the concurrent identical insert.
	repo.hideActive = true
	second := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})

	assert.False(t, second.Success)
	assert.ErrorIs(t, second.Err, ErrBookingConflict)
	// The loser sees the same duplicate message, never a generic failure
	assert.Equal(t, duplicateMessage, second.Message)
	assert.Len(t, repo.bookings, 1)
}

func TestCreateBooking_StorageError(t *testing.T) {
	s, repo, notifier := newTestStore()
	repo.createErr = errors.New("connection reset")

	result := s.CreateBooking(context.Background(), 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, ErrStorage)
	assert.Empty(t, notifier.requests)
}

func TestCreateBooking_SeatsMustBePositive(t *testing.T) {
	s, repo, _ := newTestStore()

	result := s.CreateBooking(context.Background(), 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 0})

	assert.False(t, result.Success)
	assert.Empty(t, repo.bookings)
}

func TestUpdateStatus_AcceptByDriver(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	created := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	require.True(t, created.Success)

	result := s.UpdateStatus(ctx, 2, created.Booking.ID, models.BookingStatusAccepted)

	require.True(t, result.Success)
	assert.Equal(t, models.BookingStatusAccepted, result.Booking.Status)
	assert.Equal(t, "Booking accepted!", result.Message)

	// The refreshed driver view reflects the new status
	_, asDriver := s.Bookings()
	require.Len(t, asDriver, 1)
	assert.Equal(t, models.BookingStatusAccepted, asDriver[0].Status)
}

func TestUpdateStatus_Messages(t *testing.T) {
	cases := []struct {
		status  models.BookingStatus
		actor   string
		message string
	}{
		{models.BookingStatusAccepted, "driver", "Booking accepted!"},
		{models.BookingStatusDeclined, "driver", "Booking declined"},
		{models.BookingStatusCancelled, "passenger", "Booking cancelled"},
	}

	for _, tc := range cases {
		s, _, _ := newTestStore()
		ctx := context.Background()
		created := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
		require.True(t, created.Success)

		actor := uint(2)
		if tc.actor == "passenger" {
			actor = 7
		}
		result := s.UpdateStatus(ctx, actor, created.Booking.ID, tc.status)
		require.True(t, result.Success, "transition to %s", tc.status)
		assert.Equal(t, tc.message, result.Message)
	}
}

func TestUpdateStatus_CompleteAfterAccept(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	created := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	require.True(t, created.Success)
	require.True(t, s.UpdateStatus(ctx, 2, created.Booking.ID, models.BookingStatusAccepted).Success)

	result := s.UpdateStatus(ctx, 2, created.Booking.ID, models.BookingStatusCompleted)
	require.True(t, result.Success)
	assert.Equal(t, "Ride completed!", result.Message)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	created := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	require.True(t, created.Success)
	require.True(t, s.UpdateStatus(ctx, 2, created.Booking.ID, models.BookingStatusDeclined).Success)

	// Declined is terminal
	result := s.UpdateStatus(ctx, 2, created.Booking.ID, models.BookingStatusAccepted)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, ErrInvalidTransition)
}

func TestUpdateStatus_OnlyDriverAccepts(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	created := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	require.True(t, created.Success)

	// The passenger cannot accept their own request
	result := s.UpdateStatus(ctx, 7, created.Booking.ID, models.BookingStatusAccepted)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, ErrUnauthorized)

	// A third party cannot cancel
	result = s.CancelBooking(ctx, 99, created.Booking.ID)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, ErrUnauthorized)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	s, _, _ := newTestStore()

	result := s.UpdateStatus(context.Background(), 2, 404, models.BookingStatusAccepted)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, ErrNotFound)
}

func TestCancelBooking_EitherParty(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	byPassenger := s.CreateBooking(ctx, 7, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	require.True(t, byPassenger.Success)
	result := s.CancelBooking(ctx, 7, byPassenger.Booking.ID)
	require.True(t, result.Success)
	assert.Equal(t, "Booking cancelled", result.Message)

	byDriver := s.CreateBooking(ctx, 8, CreateBookingInput{RideID: 3, DriverID: 2, Seats: 1})
	require.True(t, byDriver.Success)
	result = s.CancelBooking(ctx, 2, byDriver.Booking.ID)
	require.True(t, result.Success)
	assert.Equal(t, models.BookingStatusCancelled, result.Booking.Status)
}

func TestListBookings_Partition(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	// User 5 is a passenger on ride 1 and the driver of ride 2
	require.True(t, s.CreateBooking(ctx, 5, CreateBookingInput{RideID: 1, DriverID: 9, Seats: 1}).Success)
	require.True(t, s.CreateBooking(ctx, 6, CreateBookingInput{RideID: 2, DriverID: 5, Seats: 1}).Success)

	asPassenger, asDriver, err := s.ListBookings(ctx, 5)
	require.NoError(t, err)

	require.Len(t, asPassenger, 1)
	require.Len(t, asDriver, 1)
	assert.Equal(t, uint(5), asPassenger[0].PassengerID)
	assert.Equal(t, uint(5), asDriver[0].DriverID)
	// No booking appears in both views
	assert.NotEqual(t, asPassenger[0].ID, asDriver[0].ID)
}

func TestListBookings_NewestFirst(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	older := s.CreateBooking(ctx, 5, CreateBookingInput{RideID: 1, DriverID: 9, Seats: 1})
	require.True(t, older.Success)
	newer := s.CreateBooking(ctx, 5, CreateBookingInput{RideID: 2, DriverID: 9, Seats: 1})
	require.True(t, newer.Success)

	asPassenger, _, err := s.ListBookings(ctx, 5)
	require.NoError(t, err)
	require.Len(t, asPassenger, 2)
	assert.Equal(t, newer.Booking.ID, asPassenger[0].ID)
	assert.Equal(t, older.Booking.ID, asPassenger[1].ID)
}

func TestListBookings_PartialFailureFailsWhole(t *testing.T) {
	s, repo, _ := newTestStore()
	ctx := context.Background()

	require.True(t, s.CreateBooking(ctx, 5, CreateBookingInput{RideID: 1, DriverID: 9, Seats: 1}).Success)

	// Passenger query succeeds, driver query fails: the whole listing fails
	repo.driverErr = errors.New("timeout")
	asPassenger, asDriver, err := s.ListBookings(ctx, 5)

	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Nil(t, asPassenger)
	assert.Nil(t, asDriver)
}

func TestLoadingFlag(t *testing.T) {
	s, _, _ := newTestStore()

	assert.False(t, s.Loading())
	_, _, err := s.ListBookings(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, s.Loading(), "flag is cleared once the call resolves")
}
