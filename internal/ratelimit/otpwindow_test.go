package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newWindowLimiter(t *testing.T, now *time.Time) Limiter {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Limiter{Client: client, Prefix: "food:otp:", Now: func() time.Time { return *now }}
}

func TestLimiterSlidesOTPWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	limiter := newWindowLimiter(t, &now)
	ctx := context.Background()
	window := 10 * time.Minute

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "customer:9876543210", window, 3)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !d.Allowed || d.Remaining != 2-i {
			t.Fatalf("send %d: unexpected decision %+v", i, d)
		}
		now = now.Add(time.Minute)
	}

	d, err := limiter.Allow(ctx, "customer:9876543210", window, 3)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if d.Allowed {
		t.Fatal("expected fourth send inside the window to be rejected")
	}
	// first send was at 09:00, now is 09:03
	if d.RetryAfter != 7*time.Minute {
		t.Fatalf("expected retry after 7m, got %s", d.RetryAfter)
	}

	now = now.Add(7 * time.Minute)
	d, err = limiter.Allow(ctx, "customer:9876543210", window, 3)
	if err != nil {
		t.Fatalf("allow after oldest expired: %v", err)
	}
	if !d.Allowed || d.Remaining != 0 {
		t.Fatalf("expected one slot freed, got %+v", d)
	}
}

func TestLimiterRejectedAttemptsDoNotExtendLockout(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	limiter := newWindowLimiter(t, &now)
	ctx := context.Background()

	if d, _ := limiter.Allow(ctx, "rider:9000000001", time.Minute, 1); !d.Allowed {
		t.Fatal("expected first send to pass")
	}
	for i := 0; i < 5; i++ {
		now = now.Add(10 * time.Second)
		if d, _ := limiter.Allow(ctx, "rider:9000000001", time.Minute, 1); d.Allowed {
			t.Fatalf("attempt %d should be rejected", i)
		}
	}
	now = now.Add(10 * time.Second)
	if d, err := limiter.Allow(ctx, "rider:9000000001", time.Minute, 1); err != nil || !d.Allowed {
		t.Fatalf("expected send a minute after the first to pass, got %+v err=%v", d, err)
	}
}

func TestLimiterWithoutClientAllows(t *testing.T) {
	d, err := Limiter{}.Allow(context.Background(), "rider:9000000001", time.Minute, 3)
	if err != nil || !d.Allowed || d.Remaining != 3 {
		t.Fatalf("expected open limiter, got %+v err=%v", d, err)
	}
}
