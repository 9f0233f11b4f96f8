package obs

import (
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HTTPObs records request metrics.
type HTTPObs struct {
	Metrics *HTTPMetrics
}

// Middleware counts every request once it has been routed and served.
func (o HTTPObs) Middleware(next http.Handler) http.Handler {
	if o.Metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		audience := Audience(r.URL.Path)
		inFlight := o.Metrics.InFlight.WithLabelValues(audience)
		inFlight.Inc()
		defer inFlight.Dec()

		rec := NewResponseRecorder(w)
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := RoutePattern(r)
		o.Metrics.Requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.Status()), audience).Inc()
		o.Metrics.Latency.WithLabelValues(r.Method, route, audience).Observe(millis(time.Since(start)))
	})
}

// TracingMiddleware opens a server span per request. The span is renamed after routing so it
// carries the route pattern rather than the raw path.
func TracingMiddleware(next http.Handler) http.Handler {
	tracer := otel.Tracer("food.http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		rec := NewResponseRecorder(w)
		r = r.WithContext(ctx)
		next.ServeHTTP(rec, r)

		route := RoutePattern(r)
		span.SetName(r.Method + " " + route)
		span.SetAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", rec.Status()),
			attribute.String("food.audience", Audience(r.URL.Path)),
		)
		if rec.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.Status()))
		}
	})
}
