package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one OTP send attempt.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// slideScript trims attempts older than the window and records a new one only when it fits, so
// rejected attempts do not extend the lockout. Scores are unix milliseconds.
var slideScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= max then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  return {0, 0, tonumber(oldest[2]) + window - now}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, max - count - 1, 0}
`)

// Limiter keeps a sliding window of OTP sends per key in a Redis sorted set. Fixed per-minute
// buckets are too coarse for OTP abuse, where the window is usually ten minutes or more.
type Limiter struct {
	Client *redis.Client
	Prefix string
	Now    func() time.Time
}

// Allow records one attempt for key if fewer than max happened within window. A nil client or
// non-positive bounds always allow.
func (l Limiter) Allow(ctx context.Context, key string, window time.Duration, max int) (Decision, error) {
	if l.Client == nil || max <= 0 || window <= 0 {
		return Decision{Allowed: true, Remaining: max}, nil
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	res, err := slideScript.Run(ctx, l.Client, []string{l.Prefix + key},
		now().UnixMilli(), window.Milliseconds(), max, uuid.NewString()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("otp window %s: %w", key, err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("otp window %s: unexpected reply %v", key, res)
	}
	return Decision{
		Allowed:    res[0] == 1,
		Remaining:  int(res[1]),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}
