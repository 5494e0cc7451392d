package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/ports"
)

// RedisRateLimiter counts attempts per key in Redis. Used to throttle login
// attempts per email and per client IP.
type RedisRateLimiter struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisRateLimiter creates a Redis-backed rate limiter
func NewRedisRateLimiter(client *redis.Client, logger *logrus.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, logger: logger}
}

// Allow increments the attempt counter for key and reports whether the
// attempt is within the limit for the window.
func (s *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	if count > int64(limit) {
		s.logger.WithFields(logrus.Fields{
			"key":   key,
			"count": count,
			"limit": limit,
		}).Warn("Rate limit exceeded")
		return false, nil
	}
	return true, nil
}

// NoopRateLimiter allows everything. Used when rate limiting is disabled or
// Redis is not configured.
type NoopRateLimiter struct{}

// NewNoopRateLimiter creates a rate limiter that never blocks
func NewNoopRateLimiter() *NoopRateLimiter {
	return &NoopRateLimiter{}
}

// Allow always permits the attempt
func (s *NoopRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

var _ ports.RateLimiter = (*RedisRateLimiter)(nil)
var _ ports.RateLimiter = (*NoopRateLimiter)(nil)
