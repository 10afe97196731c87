package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter counts requests in fixed windows, one counter per
// window, expiring with the window itself.
type RedisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string, config Config) (bool, error) {
	if config.RequestsPerMinute > 0 {
		allowed, err := r.allowWindow(ctx, key, "minute", time.Minute, config.RequestsPerMinute)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}

	if config.RequestsPerHour > 0 {
		allowed, err := r.allowWindow(ctx, key, "hour", time.Hour, config.RequestsPerHour)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}

	return true, nil
}

func (r *RedisRateLimiter) allowWindow(ctx context.Context, key, window string, ttl time.Duration, limit int) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%s", key, window)

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, ttl).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	return count <= int64(limit), nil
}

func (r *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	keys := []string{
		fmt.Sprintf("ratelimit:%s:minute", key),
		fmt.Sprintf("ratelimit:%s:hour", key),
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	return nil
}
