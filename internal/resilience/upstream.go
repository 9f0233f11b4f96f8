// Package resilience wraps calls to the third-party APIs the service depends on with per-upstream
// timeouts, retries and a circuit breaker.
package resilience

import "time"

// Upstream names a third-party API. It labels breaker metrics and logs.
type Upstream string

const (
	Geocoding Upstream = "google_geocoding"
	Razorpay  Upstream = "razorpay"
	Fast2SMS  Upstream = "fast2sms"
	ExpoPush  Upstream = "expo_push"
)

// Profile is the call budget for one upstream.
type Profile struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	Jitter      float64
	Trip        TripPolicy
}

var defaultProfile = Profile{
	Timeout:     5 * time.Second,
	MaxAttempts: 2,
	BaseBackoff: 200 * time.Millisecond,
	Jitter:      0.2,
	Trip:        TripPolicy{MinRequests: 5, FailureRatio: 0.5, Cooldown: 30 * time.Second},
}

var profiles = map[Upstream]Profile{
	Geocoding: {
		Timeout:     4 * time.Second,
		MaxAttempts: 3,
		BaseBackoff: 150 * time.Millisecond,
		Jitter:      0.2,
		Trip:        TripPolicy{MinRequests: 5, FailureRatio: 0.5, Cooldown: 30 * time.Second},
	},
	// checkout waits on this call, so the breaker opens early
	Razorpay: {
		Timeout:     10 * time.Second,
		MaxAttempts: 2,
		BaseBackoff: 300 * time.Millisecond,
		Jitter:      0.1,
		Trip:        TripPolicy{MinRequests: 3, FailureRatio: 0.5, Cooldown: 20 * time.Second},
	},
	// an OTP send is never repeated
	Fast2SMS: {
		Timeout:     5 * time.Second,
		MaxAttempts: 1,
		Trip:        TripPolicy{MinRequests: 5, FailureRatio: 0.6, Cooldown: time.Minute},
	},
	// asynq retries the whole push task on top of this
	ExpoPush: {
		Timeout:     10 * time.Second,
		MaxAttempts: 2,
		BaseBackoff: 500 * time.Millisecond,
		Jitter:      0.3,
		Trip:        TripPolicy{MinRequests: 10, FailureRatio: 0.5, Cooldown: time.Minute},
	},
}

// ProfileFor returns the call budget configured for u.
func ProfileFor(u Upstream) Profile {
	if p, ok := profiles[u]; ok {
		return p
	}
	return defaultProfile
}
