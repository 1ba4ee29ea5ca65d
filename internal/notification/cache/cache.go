// Package cache keeps per-user unread counts in Redis so the badge endpoint
// does not hit Postgres on every poll. The cache is optional; a nil cache and
// any Redis failure both fall through to the store.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// UnreadCache is a read-through cache for unread notification counts.
type UnreadCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewUnreadCache wraps client. A nil client yields a nil cache, which every
// method tolerates.
func NewUnreadCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *UnreadCache {
	if client == nil {
		return nil
	}
	return &UnreadCache{client: client, ttl: ttl, logger: logger}
}

func key(userID int64) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

// Get returns the cached count and whether it was present.
func (c *UnreadCache) Get(ctx context.Context, userID int64) (int64, bool) {
	if c == nil {
		return 0, false
	}
	count, err := c.client.Get(ctx, key(userID)).Int64()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "unread cache read failed", "user_id", userID, "error", err)
		}
		return 0, false
	}
	return count, true
}

// Set stores the count with the configured TTL.
func (c *UnreadCache) Set(ctx context.Context, userID, count int64) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key(userID), count, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "unread cache write failed", "user_id", userID, "error", err)
	}
}

// Invalidate drops the cached count after any write that changes it.
func (c *UnreadCache) Invalidate(ctx context.Context, userID int64) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		c.logger.WarnContext(ctx, "unread cache invalidation failed", "user_id", userID, "error", err)
	}
}
