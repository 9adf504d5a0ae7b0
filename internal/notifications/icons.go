package notifications

import "github.com/Itachi3355/DegreeWheels-sub001/internal/models"

// IconFor maps a notification type to its display icon name. Unknown
// types fall back to the generic bell.
func IconFor(t models.NotificationType) string {
	switch t {
	case models.NotificationRideRequest:
		return "car"
	case models.NotificationRequestApproved:
		return "check-circle"
	case models.NotificationRequestRejected:
		return "x-circle"
	case models.NotificationRideCancelled:
		return "alert-triangle"
	case models.NotificationPassengerJoined:
		return "user-plus"
	case models.NotificationPassengerLeft:
		return "user-minus"
	case models.NotificationRideReminder:
		return "clock"
	default:
		return "bell"
	}
}

// StyleClassFor maps a notification type to its color class.
func StyleClassFor(t models.NotificationType) string {
	switch t {
	case models.NotificationRideRequest:
		return "text-blue-500"
	case models.NotificationRequestApproved:
		return "text-green-500"
	case models.NotificationRequestRejected:
		return "text-red-500"
	case models.NotificationRideCancelled:
		return "text-orange-500"
	case models.NotificationPassengerJoined:
		return "text-green-500"
	case models.NotificationPassengerLeft:
		return "text-yellow-500"
	case models.NotificationRideReminder:
		return "text-purple-500"
	default:
		return "text-gray-500"
	}
}
