package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-food/internal/obs"
)

// ErrOpenCircuit is returned while an upstream's breaker rejects calls.
var ErrOpenCircuit = errors.New("resilience: circuit open")

// State is a breaker position.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	}
	return "unknown"
}

// TripPolicy decides when a breaker opens. The breaker opens once at least MinRequests outcomes
// were seen and the failed share reaches FailureRatio; it stays open for Cooldown.
type TripPolicy struct {
	MinRequests  int
	FailureRatio float64
	Cooldown     time.Duration
}

func (p TripPolicy) normalized() TripPolicy {
	if p.MinRequests <= 0 {
		p.MinRequests = 1
	}
	if p.FailureRatio <= 0 {
		p.FailureRatio = 0.5
	}
	if p.FailureRatio > 1 {
		p.FailureRatio = 1
	}
	if p.Cooldown <= 0 {
		p.Cooldown = 30 * time.Second
	}
	return p
}

// Breaker guards one upstream. A single trial call is let through after the cooldown; its
// outcome closes or re-opens the breaker.
type Breaker struct {
	upstream Upstream
	policy   TripPolicy
	now      func() time.Time

	mu       sync.Mutex
	state    State
	ok, fail int
	openedAt time.Time
	trial    bool
}

// NewBreaker returns a closed breaker for u.
func NewBreaker(u Upstream, p TripPolicy) *Breaker {
	b := &Breaker{upstream: u, policy: p.normalized(), now: time.Now}
	b.publish()
	return b
}

// Upstream returns the guarded upstream.
func (b *Breaker) Upstream() Upstream { return b.upstream }

// State returns the current position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call may proceed.
func (b *Breaker) Allow(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case Closed:
		return true
	case Open:
		if b.now().Sub(b.openedAt) < b.policy.Cooldown {
			return false
		}
		b.moveLocked(ctx, HalfOpen)
		b.trial = true
		return true
	default:
		if b.trial {
			return false
		}
		b.trial = true
		return true
	}
}

// Report records the outcome of an allowed call.
func (b *Breaker) Report(ctx context.Context, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case Open:
		return
	case HalfOpen:
		b.trial = false
		if success {
			b.moveLocked(ctx, Closed)
		} else {
			b.moveLocked(ctx, Open)
		}
		return
	}
	if success {
		b.ok++
	} else {
		b.fail++
	}
	seen := b.ok + b.fail
	if seen < b.policy.MinRequests {
		return
	}
	if float64(b.fail)/float64(seen) >= b.policy.FailureRatio {
		b.moveLocked(ctx, Open)
		return
	}
	// halve the window so old outcomes fade
	if seen >= 4*b.policy.MinRequests {
		b.ok = (b.ok + 1) / 2
		b.fail = (b.fail + 1) / 2
	}
}

func (b *Breaker) moveLocked(ctx context.Context, next State) {
	prev := b.state
	if prev == next {
		return
	}
	b.state = next
	b.ok, b.fail = 0, 0
	if next == Open {
		b.openedAt = b.now()
	}
	b.publish()
	obs.Inc(obs.UpstreamBreakerTransitions, string(b.upstream), prev.String(), next.String())
	if logger := zerolog.Ctx(ctx); logger != nil {
		evt := logger.Info()
		if next == Open {
			evt = logger.Warn()
		}
		evt.Str("upstream", string(b.upstream)).
			Str("from", prev.String()).
			Str("to", next.String()).
			Msg("upstream breaker moved")
	}
}

func (b *Breaker) publish() {
	if obs.UpstreamBreakerState == nil {
		return
	}
	obs.UpstreamBreakerState.WithLabelValues(string(b.upstream)).Set(float64(b.state))
}
