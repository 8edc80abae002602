package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/dnd-connect/internal/logger"
)

// RateLimitRepository keeps fixed-window request counters in Redis.
type RateLimitRepository struct {
	client *redis.Client
	prefix string
}

// NewRateLimitRepository creates a repository whose keys start with prefix.
func NewRateLimitRepository(client *redis.Client, prefix string) *RateLimitRepository {
	return &RateLimitRepository{
		client: client,
		prefix: prefix,
	}
}

// Hit increments the counter for key and returns the number of hits in the current window.
// The window starts with the first hit. A counter left without a TTL is re-armed on the next hit.
func (r *RateLimitRepository) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := r.prefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		ttl = pipe.TTL(ctx, fullKey)
		return nil
	})
	if err == nil && ttl.Val() < 0 {
		err = r.client.Expire(ctx, fullKey, window).Err()
	}

	var count int64
	if incr != nil {
		count = incr.Val()
	}

	logger.Log.Debugw("rate limit hit",
		"key", fullKey,
		"result", count,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	return count, nil
}
