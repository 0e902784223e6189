package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"snapdish/internal/client"
	"snapdish/internal/util"
)

const signupRateLimitPrefix = "rate_limit:signup:"

// slidingWindowScript prunes expired entries, counts the remainder and
// conditionally records the new attempt in a single atomic evaluation,
// so concurrent requests from the same address cannot lose updates.
const slidingWindowScript = `
    local key = KEYS[1]
    local now = tonumber(ARGV[1])
    local window_start = tonumber(ARGV[2])
    local limit = tonumber(ARGV[3])

    redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

    local current_count = redis.call('ZCARD', key)

    if current_count < limit then
        redis.call('ZADD', key, now, now)
        redis.call('EXPIRE', key, math.ceil(tonumber(ARGV[4])))
        return 1
    else
        return 0
    end
`

// RedisBackend implements the sliding window on Redis sorted sets.
type RedisBackend struct {
	client *client.RedisClient
	limit  int
	window time.Duration
}

func NewRedisBackend(redisClient *client.RedisClient, limit int, window time.Duration) *RedisBackend {
	return &RedisBackend{client: redisClient, limit: limit, window: window}
}

func (b *RedisBackend) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now().UnixMilli()
	windowStart := now - b.window.Milliseconds()

	result, err := b.client.Eval(ctx, slidingWindowScript,
		[]string{signupRateLimitPrefix + key},
		now, windowStart, b.limit, int(b.window.Seconds()))
	if err != nil {
		return false, fmt.Errorf("failed to execute sliding window rate limit: %w", err)
	}

	allowed, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type %T from sliding window script", result)
	}

	util.Debug("Sliding window rate limit check",
		zap.String("key", key),
		zap.Bool("allowed", allowed == 1),
		zap.Int("limit", b.limit))

	return allowed == 1, nil
}
