// Package ratelimit implements a Redis-backed fixed-window request limiter.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/news-portal-api/internal/config"
)

var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

const (
	defaultPrefix = "news-portal:ratelimit"
	redisTimeout  = 2 * time.Second
)

// Result describes the quota state after a request was counted.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// FixedWindowLimiter limits requests per key in a fixed time window.
type FixedWindowLimiter struct {
	limit  int
	window time.Duration
	prefix string
	client *redis.Client
	now    func() time.Time
}

// NewFixedWindowLimiter creates a limiter from rate limit settings.
func NewFixedWindowLimiter(cfg config.RateLimitConfig) (*FixedWindowLimiter, error) {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limiter redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewWithClient(client, defaultPrefix, cfg.Requests, cfg.Window)
}

// NewWithClient creates a limiter over an existing Redis client.
func NewWithClient(client *redis.Client, prefix string, limit int, window time.Duration) (*FixedWindowLimiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = defaultPrefix
	}
	return &FixedWindowLimiter{
		limit:  limit,
		window: window,
		prefix: prefix,
		client: client,
		now:    time.Now,
	}, nil
}

// Allow counts a request for key. Redis failures fail closed: the request is
// denied and the error returned.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (Result, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}

	windowMs := l.window.Milliseconds()
	nowMs := l.now().UTC().UnixMilli()
	slot := nowMs / windowMs
	res := Result{
		Limit:   l.limit,
		ResetAt: time.UnixMilli((slot + 1) * windowMs).UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)
	count, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		return res, fmt.Errorf("rate limiter: %w", err)
	}

	res.Allowed = count <= int64(l.limit)
	if remaining := int64(l.limit) - count; remaining > 0 {
		res.Remaining = int(remaining)
	}
	return res, nil
}

// Close releases the Redis connection.
func (l *FixedWindowLimiter) Close() error {
	return l.client.Close()
}
