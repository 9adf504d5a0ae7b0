package handlers

import (
	"errors"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/notifications"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/repository"
	"github.com/Itachi3355/DegreeWheels-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetNotifications lists the user's notifications, newest first, each
// annotated with its display icon and color class
func GetNotifications(repo *repository.NotificationRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		records, err := repo.ListByUser(c.Request.Context(), userId, 50)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
			return
		}

		items := make([]gin.H, 0, len(records))
		for _, n := range records {
			items = append(items, gin.H{
				"id":        n.ID,
				"type":      n.Type,
				"title":     n.Title,
				"message":   n.Message,
				"data":      n.Data,
				"read":      n.Read,
				"createdAt": n.CreatedAt,
				"icon":      notifications.IconFor(n.Type),
				"style":     notifications.StyleClassFor(n.Type),
			})
		}

		c.JSON(200, items)
	}
}

// GetUnreadCount returns the user's unread notification count, serving
// from the Redis cache when warm
func GetUnreadCount(repo *repository.NotificationRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		ctx := c.Request.Context()

		if count, ok := services.GetUnreadCount(ctx, userId); ok {
			c.JSON(200, gin.H{"count": count})
			return
		}

		count, err := repo.UnreadCount(ctx, userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to count notifications"})
			return
		}
		services.SetUnreadCount(ctx, userId, count)

		c.JSON(200, gin.H{"count": count})
	}
}

// MarkNotificationRead flags a single notification as read
func MarkNotificationRead(repo *repository.NotificationRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		notificationId, ok := parseID(c, "id")
		if !ok {
			return
		}

		if err := repo.MarkRead(c.Request.Context(), userId, notificationId); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(404, gin.H{"error": "Notification not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to update notification"})
			return
		}

		services.InvalidateUnreadCount(c.Request.Context(), userId)

		c.JSON(200, gin.H{"message": "Notification marked as read"})
	}
}

// MarkAllNotificationsRead flags every unread notification as read
func MarkAllNotificationsRead(repo *repository.NotificationRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		if err := repo.MarkAllRead(c.Request.Context(), userId); err != nil {
			c.JSON(500, gin.H{"error": "Failed to update notifications"})
			return
		}

		services.InvalidateUnreadCount(c.Request.Context(), userId)

		c.JSON(200, gin.H{"message": "All notifications marked as read"})
	}
}
