// Package cache holds the redis-backed slot-list cache. Slot generation is
// pure, so a computed availability payload is valid until the business's
// rules, blocked dates, or timeline change; writes invalidate the whole
// business eagerly and a short TTL backstops anything missed.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSlotCache returns a nil-safe cache; with a nil client every Get is a
// miss and Put/Invalidate are no-ops.
func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{client: client, ttl: ttl}
}

func key(businessID uint, date string, serviceID uint) string {
	return fmt.Sprintf("slots:%d:%s:%d", businessID, date, serviceID)
}

// Get unmarshals the cached payload for (business, date, service) into dst.
func (c *SlotCache) Get(ctx context.Context, businessID uint, date string, serviceID uint, dst any) bool {
	if c == nil || c.client == nil {
		return false
	}

	val, err := c.client.Get(ctx, key(businessID, date, serviceID)).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dst) == nil
}

func (c *SlotCache) Put(ctx context.Context, businessID uint, date string, serviceID uint, v any) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(businessID, date, serviceID), data, c.ttl)
}

// InvalidateBusiness drops every cached payload for the business. Coarse on
// purpose; slot lists are cheap to regenerate.
func (c *SlotCache) InvalidateBusiness(ctx context.Context, businessID uint) {
	if c == nil || c.client == nil {
		return
	}

	pattern := fmt.Sprintf("slots:%d:*", businessID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}
