package handlers

import (
	"errors"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetNotificationPreferences retrieves user's notification preferences
func GetNotificationPreferences(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var preferences models.NotificationPreference
		if err := db.Where("user_id = ?", userID).First(&preferences).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Create default preferences if not found
				defaultPrefs := models.DefaultPreferences(userID)
				if err := db.Create(defaultPrefs).Error; err != nil {
					c.JSON(500, gin.H{"error": "Failed to create default preferences"})
					return
				}
				c.JSON(200, defaultPrefs)
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch preferences"})
			return
		}

		c.JSON(200, preferences)
	}
}

// UpdateNotificationPreferences updates user's notification preferences
func UpdateNotificationPreferences(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input struct {
			BookingAlerts *bool `json:"bookingAlerts"`
			RideReminders *bool `json:"rideReminders"`
			EmailEnabled  *bool `json:"emailEnabled"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var preferences models.NotificationPreference
		if err := db.Where("user_id = ?", userID).First(&preferences).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				preferences = *models.DefaultPreferences(userID)
			} else {
				c.JSON(500, gin.H{"error": "Failed to fetch preferences"})
				return
			}
		}

		if input.BookingAlerts != nil {
			preferences.BookingAlerts = *input.BookingAlerts
		}
		if input.RideReminders != nil {
			preferences.RideReminders = *input.RideReminders
		}
		if input.EmailEnabled != nil {
			preferences.EmailEnabled = *input.EmailEnabled
		}

		if err := db.Save(&preferences).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update preferences"})
			return
		}

		c.JSON(200, preferences)
	}
}
