// Package cache keeps a short-lived Redis copy of the public map view. The
// visible listing is the hottest read path and changes only on moderation or
// mutation, so every write path invalidates the single cached key.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"donapoint/internal/point/models"
	"donapoint/pkg/platform/sentinel"
)

const visibleKey = "donapoint:points:visible"

// Redis caches the visible point listing with a TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs the cache around an established client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// GetVisible returns the cached public map view, or sentinel.ErrNotFound on
// a cache miss.
func (c *Redis) GetVisible(ctx context.Context) ([]*models.Point, error) {
	data, err := c.client.Get(ctx, visibleKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get visible points: %w", err)
	}
	var points []*models.Point
	if err := json.Unmarshal(data, &points); err != nil {
		// A corrupt entry behaves like a miss; the next set overwrites it.
		return nil, sentinel.ErrNotFound
	}
	return points, nil
}

// SetVisible stores the public map view under the configured TTL.
func (c *Redis) SetVisible(ctx context.Context, points []*models.Point) error {
	data, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("marshal visible points: %w", err)
	}
	if err := c.client.Set(ctx, visibleKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set visible points: %w", err)
	}
	return nil
}

// Invalidate drops the cached view after any mutation.
func (c *Redis) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, visibleKey).Err(); err != nil {
		return fmt.Errorf("invalidate visible points: %w", err)
	}
	return nil
}
