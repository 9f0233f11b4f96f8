package geo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-food/internal/resilience"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *GoogleGeocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &GoogleGeocoder{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		HTTP: resilience.HTTPClient{
			Upstream:    resilience.Geocoding,
			Client:      srv.Client(),
			BaseBackoff: time.Millisecond,
			MaxAttempts: 2,
		},
	}
}

func TestGoogleGeocoderReturnsFirstResult(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		require.Equal(t, "12 Beach Road, Chennai", r.URL.Query().Get("address"))
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"OK","results":[{"geometry":{"location":{"lat":12.98,"lng":80.25}}},{"geometry":{"location":{"lat":1,"lng":1}}}]}`)
	})
	p, err := g.Geocode(context.Background(), "12 Beach Road, Chennai")
	require.NoError(t, err)
	require.Equal(t, Point{Lat: 12.98, Lng: 80.25}, p)
}

func TestGoogleGeocoderZeroResults(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ZERO_RESULTS","results":[]}`)
	})
	_, err := g.Geocode(context.Background(), "nowhere")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGoogleGeocoderDeniedIsUnavailable(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`)
	})
	_, err := g.Geocode(context.Background(), "somewhere")
	require.True(t, errors.Is(err, ErrUnavailable))
}

func TestGoogleGeocoderRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"status":"OK","results":[{"geometry":{"location":{"lat":13.08,"lng":80.27}}}]}`)
	})
	p, err := g.Geocode(context.Background(), "Anna Salai")
	require.NoError(t, err)
	require.Equal(t, Point{Lat: 13.08, Lng: 80.27}, p)
	require.EqualValues(t, 2, calls.Load())
}

func TestGoogleGeocoderWithoutKey(t *testing.T) {
	_, err := (&GoogleGeocoder{}).Geocode(context.Background(), "somewhere")
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = (&GoogleGeocoder{APIKey: "k"}).Geocode(context.Background(), "  ")
	require.ErrorIs(t, err, ErrNotFound)
}
