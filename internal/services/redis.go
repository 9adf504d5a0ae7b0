package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/models"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// SetUnreadCount caches the unread notification count for a user
func SetUnreadCount(ctx context.Context, userID uint, count int64) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("notifications:unread:%d", userID)
	return RedisClient.Set(ctx, key, count, time.Hour).Err()
}

// GetUnreadCount retrieves the cached unread notification count for a user.
// The second return value reports a cache hit.
func GetUnreadCount(ctx context.Context, userID uint) (int64, bool) {
	if RedisClient == nil {
		return 0, false
	}
	key := fmt.Sprintf("notifications:unread:%d", userID)
	result, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(result, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// IncrementUnreadCount bumps the cached unread count after a new notification
func IncrementUnreadCount(ctx context.Context, userID uint) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("notifications:unread:%d", userID)
	// Only bump an existing counter; a miss stays a miss until the next read
	ok, err := RedisClient.Expire(ctx, key, time.Hour).Result()
	if err != nil || !ok {
		return err
	}
	return RedisClient.Incr(ctx, key).Err()
}

// UnreadCounter adapts the unread-count helpers for the notification
// dispatcher.
type UnreadCounter struct{}

func (UnreadCounter) IncrementUnread(ctx context.Context, userID uint) {
	if err := IncrementUnreadCount(ctx, userID); err != nil {
		log.Printf("Failed to bump unread count for user %d: %v", userID, err)
	}
}

// InvalidateUnreadCount drops the cached unread count (after mark-read)
func InvalidateUnreadCount(ctx context.Context, userID uint) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf("notifications:unread:%d", userID)
	return RedisClient.Del(ctx, key).Err()
}

// CacheAvailableRides stores the available-rides listing
func CacheAvailableRides(ctx context.Context, rides []models.Ride) error {
	if RedisClient == nil {
		return nil
	}
	data, err := json.Marshal(rides)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, "rides:available", data, time.Minute).Err()
}

// GetCachedAvailableRides retrieves the cached available-rides listing
func GetCachedAvailableRides(ctx context.Context) ([]models.Ride, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}
	data, err := RedisClient.Get(ctx, "rides:available").Result()
	if err != nil {
		return nil, err
	}

	var rides []models.Ride
	if err := json.Unmarshal([]byte(data), &rides); err != nil {
		return nil, err
	}

	return rides, nil
}

// InvalidateAvailableRides drops the cached listing after a ride mutation
func InvalidateAvailableRides(ctx context.Context) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Del(ctx, "rides:available").Err()
}

// PublishBookingUpdate publishes a booking status transition to Redis pub/sub
func PublishBookingUpdate(ctx context.Context, bookingID, rideID uint, status string) error {
	if RedisClient == nil {
		return nil
	}
	updateData := map[string]interface{}{
		"bookingId": bookingID,
		"rideId":    rideID,
		"status":    status,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "booking:updates", jsonData).Err()
}
