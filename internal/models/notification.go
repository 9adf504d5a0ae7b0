package models

import (
	"time"
)

type NotificationType string

const (
	NotificationRideRequest     NotificationType = "ride_request"
	NotificationRequestApproved NotificationType = "request_approved"
	NotificationRequestRejected NotificationType = "request_rejected"
	NotificationRideCancelled   NotificationType = "ride_cancelled"
	NotificationPassengerJoined NotificationType = "passenger_joined"
	NotificationPassengerLeft   NotificationType = "passenger_left"
	NotificationRideReminder    NotificationType = "ride_reminder"
)

// Notification is one addressed, typed inbox message. Records are written
// by the dispatcher and read back only through the inbox endpoints.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"column:user_id;not null;index" json:"userId"`
	Type      NotificationType `gorm:"not null" json:"type"`
	Title     string           `gorm:"not null" json:"title"`
	Message   string           `gorm:"not null" json:"message"`
	Data      string           `gorm:"type:jsonb;default:'{}'" json:"data"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "notifications"
}
