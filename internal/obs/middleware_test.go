package obs_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-food/internal/obs"
)

func TestHTTPMetricsUseRoutePatternAndAudience(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("food", []float64{10, 1}, registry)

	r := chi.NewRouter()
	r.Use(obs.HTTPObs{Metrics: metrics}.Middleware)
	r.Get("/api/v1/rider/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"a1", "b2"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/rider/orders/"+id, nil))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("expected 204 got %d", rr.Code)
		}
	}

	got := testutil.ToFloat64(metrics.Requests.WithLabelValues(http.MethodGet, "/api/v1/rider/orders/{id}", "204", obs.AudienceRider))
	if got != 2 {
		t.Fatalf("expected 2 requests on the pattern, got %v", got)
	}
	if n := testutil.CollectAndCount(metrics.Latency); n != 1 {
		t.Fatalf("expected one latency series, got %d", n)
	}
	if v := testutil.ToFloat64(metrics.InFlight.WithLabelValues(obs.AudienceRider)); v != 0 {
		t.Fatalf("expected no in-flight requests, got %v", v)
	}
}

func TestHTTPMetricsReuseRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := obs.NewHTTPMetrics("food", nil, registry)
	second := obs.NewHTTPMetrics("food", nil, registry)
	if first.Requests != second.Requests {
		t.Fatalf("expected the second registration to reuse the request counter")
	}
}

func TestAudience(t *testing.T) {
	cases := map[string]string{
		"/api/v1/rider/orders":  obs.AudienceRider,
		"/api/v1/admin/coupons": obs.AudienceAdmin,
		"/api/v1/cart":          obs.AudienceCustomer,
		"/api/v1/menu/items":    obs.AudienceCustomer,
		"/health/ready":         obs.AudienceSystem,
		"/metrics":              obs.AudienceSystem,
	}
	for path, want := range cases {
		if got := obs.Audience(path); got != want {
			t.Fatalf("Audience(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestRoutePatternUnmatched(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	if got := obs.RoutePattern(req); got != "unmatched" {
		t.Fatalf("expected unmatched, got %q", got)
	}
}

func TestParseBucketsCSV(t *testing.T) {
	got := obs.ParseBucketsCSV(" 10, x, -5, 250,0")
	if len(got) != 2 || got[0] != 10 || got[1] != 250 {
		t.Fatalf("unexpected buckets %v", got)
	}
}

func TestRequestLoggerWritesRoute(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(obs.RequestLogger{Logger: zerolog.New(&buf)}.Middleware)
	r.Post("/api/v1/admin/coupons/{id}", func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/admin/coupons/7", nil))

	out := buf.String()
	if !strings.Contains(out, `"message":"inside"`) {
		t.Fatalf("expected handler log through the request logger, got %s", out)
	}
	if !strings.Contains(out, `"route":"/api/v1/admin/coupons/{id}"`) || !strings.Contains(out, `"level":"error"`) {
		t.Fatalf("expected error access log with route pattern, got %s", out)
	}
}
