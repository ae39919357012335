// Package cache implements Redis-backed adapters.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/insights/internal/application/adapter"
)

const cooldownKeyPrefix = "insight:cooldown:"

// insightCooldown implements the adapter.InsightCooldown interface.
type insightCooldown struct {
	client *redis.Client
}

// NewInsightCooldown creates a cooldown store backed by Redis.
func NewInsightCooldown(client *redis.Client) adapter.InsightCooldown {
	return &insightCooldown{client: client}
}

// Acquire claims the signature with SET NX so only the first evaluation in the window wins.
func (c *insightCooldown) Acquire(ctx context.Context, userID uuid.UUID, signature string, ttl time.Duration) (bool, error) {
	acquired, err := c.client.SetNX(ctx, CooldownKey(userID, signature), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire insight cooldown: %w", err)
	}
	return acquired, nil
}

// Release deletes the claim for the signature.
func (c *insightCooldown) Release(ctx context.Context, userID uuid.UUID, signature string) error {
	if err := c.client.Del(ctx, CooldownKey(userID, signature)).Err(); err != nil {
		return fmt.Errorf("failed to release insight cooldown: %w", err)
	}
	return nil
}

// CooldownKey returns the Redis key guarding one insight signature for a user.
func CooldownKey(userID uuid.UUID, signature string) string {
	return cooldownKeyPrefix + userID.String() + ":" + signature
}
