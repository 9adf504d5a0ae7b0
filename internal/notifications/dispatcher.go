package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/models"
)

// Repository is the write-side storage surface for notification records.
// The dispatcher never reads records back.
type Repository interface {
	Insert(ctx context.Context, n *models.Notification) error
	InsertBatch(ctx context.Context, ns []models.Notification) error
	Preferences(ctx context.Context, userID uint) (*models.NotificationPreference, error)
}

// Pusher delivers a freshly persisted record to a connected recipient.
type Pusher interface {
	SendNotification(userID uint, n models.Notification)
}

// Counter tracks unread counts per recipient.
type Counter interface {
	IncrementUnread(ctx context.Context, userID uint)
}

// Dispatcher constructs and persists typed notification records and fans
// them out to the realtime channel. Delivery is best-effort throughout:
// failures are logged and swallowed so they can never fail the booking
// mutation that triggered them.
type Dispatcher struct {
	repo    Repository
	pusher  Pusher
	counter Counter
}

func NewDispatcher(repo Repository, pusher Pusher, counter Counter) *Dispatcher {
	return &Dispatcher{repo: repo, pusher: pusher, counter: counter}
}

// RideRequest notifies a driver that a passenger asked to join their ride.
func (d *Dispatcher) RideRequest(ctx context.Context, driverID uint, passengerName string) {
	d.deliver(ctx, models.Notification{
		UserID:  driverID,
		Type:    models.NotificationRideRequest,
		Title:   "New Ride Request",
		Message: fmt.Sprintf("%s has requested to join your ride", passengerName),
		Data:    payload("/dashboard/driver"),
	})
}

// RequestApproved notifies a passenger that the driver accepted their request.
func (d *Dispatcher) RequestApproved(ctx context.Context, passengerID uint, driverName string) {
	d.deliver(ctx, models.Notification{
		UserID:  passengerID,
		Type:    models.NotificationRequestApproved,
		Title:   "Request Approved",
		Message: fmt.Sprintf("%s approved your booking request", driverName),
		Data:    payload("/dashboard/passenger"),
	})
}

// RequestRejected notifies a passenger that the driver declined their request.
func (d *Dispatcher) RequestRejected(ctx context.Context, passengerID uint, driverName string) {
	d.deliver(ctx, models.Notification{
		UserID:  passengerID,
		Type:    models.NotificationRequestRejected,
		Title:   "Request Declined",
		Message: fmt.Sprintf("%s declined your booking request", driverName),
		Data:    payload("/rides"),
	})
}

// PassengerJoined notifies a driver that a passenger's seat is confirmed.
func (d *Dispatcher) PassengerJoined(ctx context.Context, driverID uint, passengerName string) {
	d.deliver(ctx, models.Notification{
		UserID:  driverID,
		Type:    models.NotificationPassengerJoined,
		Title:   "Passenger Joined",
		Message: fmt.Sprintf("%s joined your ride", passengerName),
		Data:    payload("/dashboard/driver"),
	})
}

// PassengerLeft notifies a driver that a passenger gave up their seat.
func (d *Dispatcher) PassengerLeft(ctx context.Context, driverID uint, passengerName string) {
	d.deliver(ctx, models.Notification{
		UserID:  driverID,
		Type:    models.NotificationPassengerLeft,
		Title:   "Passenger Left",
		Message: fmt.Sprintf("%s left your ride", passengerName),
		Data:    payload("/dashboard/driver"),
	})
}

// RideCancelled notifies every affected passenger that the driver called
// off the ride. One record per recipient, one bulk insert.
func (d *Dispatcher) RideCancelled(ctx context.Context, passengerIDs []uint, driverName, destination string) {
	d.deliverBatch(ctx, passengerIDs, func(userID uint) models.Notification {
		return models.Notification{
			UserID:  userID,
			Type:    models.NotificationRideCancelled,
			Title:   "Ride Cancelled",
			Message: fmt.Sprintf("%s cancelled the ride to %s", driverName, destination),
			Data:    payload("/rides"),
		}
	}, prefAllows)
}

// RideReminder reminds every confirmed passenger of an upcoming departure.
func (d *Dispatcher) RideReminder(ctx context.Context, passengerIDs []uint, destination string, departure time.Time) {
	d.deliverBatch(ctx, passengerIDs, func(userID uint) models.Notification {
		return models.Notification{
			UserID:  userID,
			Type:    models.NotificationRideReminder,
			Title:   "Ride Reminder",
			Message: fmt.Sprintf("Your ride to %s departs at %s", destination, departure.Format("Mon Jan 2 15:04")),
			Data:    payload("/dashboard/passenger"),
		}
	}, reminderPrefAllows)
}

func (d *Dispatcher) deliver(ctx context.Context, n models.Notification) {
	if !d.wants(ctx, n.UserID, prefAllows) {
		return
	}
	if err := d.repo.Insert(ctx, &n); err != nil {
		log.Printf("Failed to create %s notification for user %d: %v", n.Type, n.UserID, err)
		return
	}
	d.fanOut(ctx, n)
}

func (d *Dispatcher) deliverBatch(ctx context.Context, userIDs []uint, build func(uint) models.Notification, allows func(*models.NotificationPreference) bool) {
	records := make([]models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		if !d.wants(ctx, userID, allows) {
			continue
		}
		records = append(records, build(userID))
	}
	if len(records) == 0 {
		return
	}
	if err := d.repo.InsertBatch(ctx, records); err != nil {
		log.Printf("Failed to create batch of %d notifications: %v", len(records), err)
		return
	}
	for _, n := range records {
		d.fanOut(ctx, n)
	}
}

func (d *Dispatcher) fanOut(ctx context.Context, n models.Notification) {
	if d.pusher != nil {
		d.pusher.SendNotification(n.UserID, n)
	}
	if d.counter != nil {
		d.counter.IncrementUnread(ctx, n.UserID)
	}
}

// wants consults the recipient's preferences. Lookup failures fall back
// to delivering: a broken preference row should not silence the inbox.
func (d *Dispatcher) wants(ctx context.Context, userID uint, allows func(*models.NotificationPreference) bool) bool {
	prefs, err := d.repo.Preferences(ctx, userID)
	if err != nil {
		log.Printf("Failed to load notification preferences for user %d: %v", userID, err)
		return true
	}
	if prefs == nil {
		return true
	}
	return allows(prefs)
}

func prefAllows(p *models.NotificationPreference) bool {
	return p.BookingAlerts
}

func reminderPrefAllows(p *models.NotificationPreference) bool {
	return p.RideReminders
}

func payload(path string) string {
	data, err := json.Marshal(map[string]string{"path": path})
	if err != nil {
		return "{}"
	}
	return string(data)
}
