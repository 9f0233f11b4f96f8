package resilience_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-food/internal/resilience"
)

func TestHTTPClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"status":"OK"}`)
	}))
	defer srv.Close()

	cl := resilience.HTTPClient{
		Client:      srv.Client(),
		Upstream:    resilience.Geocoding,
		Breaker:     resilience.NewBreaker(resilience.Geocoding, resilience.TripPolicy{MinRequests: 10, FailureRatio: 0.9}),
		BaseBackoff: time.Millisecond,
		MaxAttempts: 3,
		Timeout:     time.Second,
	}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := cl.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"OK"}`, string(body))
	require.Equal(t, int32(3), calls.Load())
}

func TestHTTPClientReturnsStatusErrorWhenExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cl := resilience.HTTPClient{Upstream: resilience.ExpoPush, Client: srv.Client(), BaseBackoff: time.Millisecond, MaxAttempts: 2}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	_, err = cl.Do(context.Background(), req)

	var statusErr *resilience.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	require.Equal(t, resilience.ExpoPush, statusErr.Upstream)
}

func TestHTTPClientPassesClientErrorsThrough(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cl := resilience.HTTPClient{Client: srv.Client(), BaseBackoff: time.Millisecond, MaxAttempts: 3}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := cl.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, int32(1), calls.Load())
}

func TestHTTPClientStopsWhileCircuitOpen(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cl := resilience.HTTPClient{
		Upstream:    resilience.Razorpay,
		Client:      srv.Client(),
		Breaker:     resilience.NewBreaker(resilience.Razorpay, resilience.TripPolicy{MinRequests: 2, FailureRatio: 0.5, Cooldown: time.Minute}),
		BaseBackoff: time.Millisecond,
		MaxAttempts: 5,
	}
	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(`{"amount":16250}`))
	require.NoError(t, err)
	_, err = cl.Do(context.Background(), req)
	require.ErrorIs(t, err, resilience.ErrOpenCircuit)
	require.Equal(t, int32(2), calls.Load())
}

func TestStdClientReplaysBody(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"status":"OK"}`)
	}))
	defer srv.Close()

	std := resilience.HTTPClient{Upstream: resilience.Geocoding, Client: srv.Client(), BaseBackoff: time.Millisecond, MaxAttempts: 2}.StdClient()
	resp, err := std.Post(srv.URL, "application/json", strings.NewReader(`{"address":"12 Beach Road"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{`{"address":"12 Beach Road"}`, `{"address":"12 Beach Road"}`}, bodies)
}

func TestForUsesUpstreamProfile(t *testing.T) {
	sms := resilience.For(resilience.Fast2SMS)
	require.Equal(t, 1, sms.MaxAttempts)
	require.Equal(t, resilience.Fast2SMS, sms.Breaker.Upstream())

	geo := resilience.For(resilience.Geocoding)
	require.Equal(t, 3, geo.MaxAttempts)
	require.Equal(t, 4*time.Second, geo.Timeout)

	other := resilience.ProfileFor(resilience.Upstream("unknown"))
	require.Equal(t, 2, other.MaxAttempts)
}
