package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/news-portal-api/internal/config"
)

func newLimiter(t *testing.T, mr *miniredis.Miniredis, limit int) *FixedWindowLimiter {
	t.Helper()
	limiter, err := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:ratelimit", limit, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	t.Cleanup(func() { limiter.Close() })
	return limiter
}

func TestFixedWindowLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newLimiter(t, mr, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should pass", i+1)
		}
	}

	res, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("third request: %v", err)
	}
	if res.Allowed {
		t.Fatal("third request should be blocked")
	}
	if res.Remaining != 0 {
		t.Errorf("Expected 0 remaining, got %d", res.Remaining)
	}

	other, _ := limiter.Allow(ctx, "10.0.0.2")
	if !other.Allowed || other.Remaining != 1 {
		t.Errorf("Other keys must have their own quota, got %+v", other)
	}
}

func TestFixedWindowLimiter_NewWindowResets(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newLimiter(t, mr, 1)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 30, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	if res, _ := limiter.Allow(ctx, "k"); !res.Allowed {
		t.Fatal("first request should pass")
	}
	if res, _ := limiter.Allow(ctx, "k"); res.Allowed {
		t.Fatal("second request in the same window should be blocked")
	}

	limiter.now = func() time.Time { return base.Add(time.Minute) }
	res, _ := limiter.Allow(ctx, "k")
	if !res.Allowed {
		t.Fatal("request in the next window should pass")
	}
	if !res.ResetAt.Equal(time.Date(2024, 1, 1, 12, 2, 0, 0, time.UTC)) {
		t.Errorf("Unexpected reset time %v", res.ResetAt)
	}
}

func TestFixedWindowLimiter_FailClosed(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newLimiter(t, mr, 5)
	mr.Close()

	res, err := limiter.Allow(context.Background(), "k")
	if err == nil {
		t.Fatal("expected redis error")
	}
	if res.Allowed {
		t.Fatal("limiter should fail closed on redis errors")
	}
}

func TestNewFixedWindowLimiter_RequiresAddr(t *testing.T) {
	limiter, err := NewFixedWindowLimiter(config.RateLimitConfig{Requests: 1, Window: time.Second})
	if err == nil || limiter != nil {
		t.Fatal("expected constructor error for empty redis addr")
	}
}
