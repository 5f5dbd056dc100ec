package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis (db %d): %w", db, err)
	}
	return client, nil
}

// EventDeduper remembers handled webhook event ids in Redis. An id is only
// marked once its outcome is final, so a delivery that failed midway is
// processed again on redelivery.
type EventDeduper struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

// NewStripeEventDeduper returns a deduper for Stripe event ids.
func NewStripeEventDeduper(client *redis.Client) *EventDeduper {
	return &EventDeduper{Client: client, Prefix: StripeEventPrefix, TTL: StripeEventTTL}
}

// Handled reports whether eventID was already marked.
func (d *EventDeduper) Handled(ctx context.Context, eventID string) (bool, error) {
	n, err := d.Client.Exists(ctx, d.Prefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up event %s: %w", eventID, err)
	}
	return n > 0, nil
}

// MarkHandled records eventID for TTL.
func (d *EventDeduper) MarkHandled(ctx context.Context, eventID string) error {
	if err := d.Client.Set(ctx, d.Prefix+eventID, time.Now().Unix(), d.TTL).Err(); err != nil {
		return fmt.Errorf("failed to mark event %s: %w", eventID, err)
	}
	return nil
}
