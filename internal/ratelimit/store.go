// Package ratelimit provides Echo rate limiter stores with fixed-window semantics.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"mesto/internal/cache"
)

const (
	keyPrefix    = "ratelimit:"
	redisTimeout = 200 * time.Millisecond
)

// RedisStore counts requests per client in fixed windows stored in Redis.
// When Redis fails the request is allowed.
type RedisStore struct {
	cache  *cache.Client
	limit  int64
	window time.Duration
	log    *zap.Logger
	now    func() time.Time
}

var _ middleware.RateLimiterStore = (*RedisStore)(nil)

// NewRedisStore allows limit requests per identifier in each window.
func NewRedisStore(c *cache.Client, limit int, window time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{
		cache:  c,
		limit:  int64(limit),
		window: window,
		log:    log,
		now:    time.Now,
	}
}

// Allow implements middleware.RateLimiterStore.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	windowStart := s.now().Truncate(s.window)
	key := fmt.Sprintf("%s%s:%d", keyPrefix, identifier, windowStart.Unix())

	n, err := s.cache.Incr(ctx, key, s.window)
	if err != nil {
		s.log.Warn("rate limiter unavailable, allowing request", zap.String("client", identifier), zap.Error(err))
		return true, nil
	}
	return n <= s.limit, nil
}

// NewMemoryStore is the in-process fallback used when Redis is unreachable.
// It refills limit tokens over each window with a burst of limit.
func NewMemoryStore(limit int, window time.Duration) middleware.RateLimiterStore {
	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(window / time.Duration(limit)),
		Burst:     limit,
		ExpiresIn: window,
	})
}
