package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultAttempts = 10
	defaultWindow   = time.Minute
)

// RateLimiter provides a fixed-window counter backed by Redis, used to slow
// down credential guessing on the auth endpoints.
// Key format: ratelimit:<scope>:<subject>
type RateLimiter struct {
	client   *redis.Client
	attempts int64
	window   time.Duration
}

// NewRateLimiter creates a RateLimiter allowing attempts requests per window.
// Non-positive values fall back to the defaults.
func NewRateLimiter(client *redis.Client, attempts int64, window time.Duration) *RateLimiter {
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &RateLimiter{client: client, attempts: attempts, window: window}
}

// Allow records an attempt for subject within scope and reports whether it is
// still under the limit. The first attempt in a window sets the expiry.
func (l *RateLimiter) Allow(ctx context.Context, scope, subject string) (bool, error) {
	key := l.key(scope, subject)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= l.attempts, nil
}

func (l *RateLimiter) key(scope, subject string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, subject)
}
