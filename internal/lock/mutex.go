// Package lock serialises per-customer work, such as checkout, across API replicas.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrBusy is returned when the key is still held once Wait has elapsed.
var ErrBusy = errors.New("lock: held by another request")

var (
	releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0`)
	extendScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return 0`)
)

// Mutex is a Redis lease keyed by string. A holder that dies loses the key after the lease;
// a live holder keeps renewing it until its callback returns.
type Mutex struct {
	Client *redis.Client
	// Wait bounds how long Hold polls for a taken key. Zero waits until ctx is done.
	Wait time.Duration
	Poll time.Duration
}

// Hold runs fn while owning key. The lease is renewed every third of lease and deleted on
// return when this caller still owns it.
func (m Mutex) Hold(ctx context.Context, key string, lease time.Duration, fn func(context.Context) error) error {
	if m.Client == nil {
		return errors.New("lock: redis client not configured")
	}
	if lease <= 0 {
		lease = 30 * time.Second
	}
	token := uuid.NewString()
	if err := m.acquire(ctx, key, token, lease); err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	stop := make(chan struct{})
	renewed := make(chan struct{})
	go m.renew(bg, key, token, lease, stop, renewed)
	defer func() {
		close(stop)
		<-renewed
		if err := releaseScript.Run(bg, m.Client, []string{key}, token).Err(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("lock release failed")
		}
	}()
	return fn(ctx)
}

func (m Mutex) acquire(ctx context.Context, key, token string, lease time.Duration) error {
	poll := m.Poll
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	var deadline <-chan time.Time
	if m.Wait > 0 {
		t := time.NewTimer(m.Wait)
		defer t.Stop()
		deadline = t.C
	}
	for {
		ok, err := m.Client.SetNX(ctx, key, token, lease).Result()
		if err != nil {
			return fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return ErrBusy
		case <-time.After(poll):
		}
	}
}

func (m Mutex) renew(ctx context.Context, key, token string, lease time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	tick := time.NewTicker(lease / 3)
	defer tick.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tick.C:
			n, err := extendScript.Run(ctx, m.Client, []string{key}, token, lease.Milliseconds()).Int()
			if err != nil || n == 0 {
				zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("lock lease lost")
				return
			}
		}
	}
}
