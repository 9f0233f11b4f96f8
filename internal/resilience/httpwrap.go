package resilience

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/backend-food/internal/obs"
)

// HTTPClient sends requests to one upstream within its Profile: each attempt has its own timeout,
// 5xx and 429 responses are retried with jittered exponential backoff, and the breaker short
// circuits calls while the upstream is failing.
type HTTPClient struct {
	Upstream    Upstream
	Client      *http.Client
	Breaker     *Breaker
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	Jitter      float64
}

// For returns the client used in production for u: its profile, a fresh breaker and an
// OpenTelemetry-instrumented transport.
func For(u Upstream) HTTPClient {
	p := ProfileFor(u)
	return HTTPClient{
		Upstream:    u,
		Client:      &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		Breaker:     NewBreaker(u, p.Trip),
		Timeout:     p.Timeout,
		MaxAttempts: p.MaxAttempts,
		BaseBackoff: p.BaseBackoff,
		Jitter:      p.Jitter,
	}
}

// StatusError is the last upstream response once retries ran out.
type StatusError struct {
	Upstream   Upstream
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("resilience: %s answered %d", e.Upstream, e.StatusCode)
}

// Do sends req. The caller closes the response body, which also releases the attempt timeout.
func (cl HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if cl.Client == nil {
		return nil, errors.New("resilience: http client not configured")
	}
	body, err := bufferBody(req)
	if err != nil {
		return nil, err
	}
	attempts := max(cl.MaxAttempts, 1)
	label := cl.label()

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if cl.Breaker != nil && !cl.Breaker.Allow(ctx) {
			obs.Inc(obs.UpstreamCallsTotal, label, "circuit_open")
			return nil, fmt.Errorf("%s: %w", label, ErrOpenCircuit)
		}
		resp, err := cl.attempt(ctx, req, body)
		switch {
		case err != nil:
			last = err
		case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
			last = &StatusError{Upstream: cl.Upstream, StatusCode: resp.StatusCode}
			discard(resp)
		default:
			cl.report(ctx, true)
			obs.Inc(obs.UpstreamCallsTotal, label, "ok")
			return resp, nil
		}
		cl.report(ctx, false)
		if attempt == attempts {
			break
		}
		obs.Inc(obs.UpstreamCallsTotal, label, "retry")
		if err := sleep(ctx, cl.backoff(attempt)); err != nil {
			return nil, err
		}
	}
	obs.Inc(obs.UpstreamCallsTotal, label, "failed")
	return nil, last
}

// StdClient adapts cl into an *http.Client so third-party SDKs that accept one get the same
// retry and breaker behaviour.
func (cl HTTPClient) StdClient() *http.Client {
	return &http.Client{Transport: roundTripper{cl}}
}

type roundTripper struct{ cl HTTPClient }

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt.cl.Do(req.Context(), req)
}

func (cl HTTPClient) label() string {
	if cl.Upstream == "" {
		return "unnamed"
	}
	return string(cl.Upstream)
}

func (cl HTTPClient) report(ctx context.Context, ok bool) {
	if cl.Breaker != nil {
		cl.Breaker.Report(ctx, ok)
	}
}

func (cl HTTPClient) backoff(attempt int) time.Duration {
	base := cl.BaseBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	d := base << (attempt - 1)
	if cl.Jitter > 0 {
		d += time.Duration((rand.Float64()*2 - 1) * cl.Jitter * float64(d))
	}
	return d
}

func (cl HTTPClient) attempt(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if cl.Timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, cl.Timeout)
	}
	out := req.Clone(callCtx)
	if body != nil {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.ContentLength = int64(len(body))
	}
	resp, err := cl.Client.Do(out)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &releaseOnClose{ReadCloser: resp.Body, release: cancel}
	return resp, nil
}

type releaseOnClose struct {
	io.ReadCloser
	release context.CancelFunc
}

func (r *releaseOnClose) Close() error {
	defer r.release()
	return r.ReadCloser.Close()
}

func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("resilience: read request body: %w", err)
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
