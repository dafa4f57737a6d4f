package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"limelight/db"
	"limelight/models"
	"limelight/rdx"
)

const revenueChannel = "revenue-events"

// Publisher is the outbound port for lifecycle and governance events.
// Test doubles record calls; the production impl publishes to Redis.
type Publisher interface {
	BookingConfirmed(ctx context.Context, b models.Booking)
	BookingExpired(ctx context.Context, b models.Booking)
	NotificationCreated(ctx context.Context, n models.Notification)
}

// RedisEmitter publishes revenue events to the Redis revenue-events channel.
type RedisEmitter struct{}

func NewRedisEmitter() *RedisEmitter {
	return &RedisEmitter{}
}

func (e *RedisEmitter) BookingConfirmed(ctx context.Context, b models.Booking) {
	emit(ctx, models.RevenueEvent{Name: models.EventBookingConfirmed, Booking: &b})
}

func (e *RedisEmitter) BookingExpired(ctx context.Context, b models.Booking) {
	emit(ctx, models.RevenueEvent{Name: models.EventBookingExpired, Booking: &b})
}

func (e *RedisEmitter) NotificationCreated(ctx context.Context, n models.Notification) {
	emit(ctx, models.RevenueEvent{Name: models.EventNotificationCreated, Notification: &n})
}

// emit publishes the event to Redis. Events are best-effort: a publish
// failure is logged, never propagated to the caller.
func emit(ctx context.Context, event models.RevenueEvent) {
	event.EmittedAt = time.Now().Unix()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event %s: %v", event.Name, err)
		return
	}

	if err := rdx.Conn.Publish(ctx, revenueChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s to Redis: %v", event.Name, err)
		return
	}

	log.Printf("[Emit] Event %s published to channel %q", event.Name, revenueChannel)
}

// StartNotificationWorker subscribes to revenue events and persists admin
// notifications so the admin panel can list them.
func StartNotificationWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, revenueChannel)
	ch := sub.Channel()

	log.Println("[NotificationWorker] Listening for revenue events...")

	for msg := range ch {
		var event models.RevenueEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[NotificationWorker] Failed to parse event: %v", err)
			continue
		}

		if event.Name != models.EventNotificationCreated || event.Notification == nil {
			continue
		}

		if _, err := db.NotificationsCollection.InsertOne(ctx, event.Notification); err != nil {
			log.Printf("[NotificationWorker] Failed to store notification: %v", err)
			continue
		}
		log.Printf("[NotificationWorker] Stored notification %s", event.Notification.ID)
	}
}
