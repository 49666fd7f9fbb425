package redis_adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindowLimiter is a per-key fixed-window counter in Redis: INCR the
// window bucket, set its TTL on first hit, reject once the count passes the
// limit. Shared across instances because state lives in Redis, not here.
type FixedWindowLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewFixedWindowLimiter(client *redis.Client, limit int, window time.Duration) (*FixedWindowLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if limit < 1 {
		return nil, fmt.Errorf("rate limit must be at least 1, got %d", limit)
	}
	if window < time.Second {
		return nil, fmt.Errorf("rate limit window must be at least 1s, got %s", window)
	}
	return &FixedWindowLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "ratelimit:search",
	}, nil
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().Unix() / int64(l.window.Seconds())
	windowKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limiter unavailable: %w", err)
	}
	return count.Val() <= l.limit, nil
}
