package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/backend-food/internal/resilience"
)

const (
	defaultRazorpayURL = "https://api.razorpay.com"
	// CurrencyINR is the only currency orders are charged in.
	CurrencyINR = "INR"
)

// ErrGatewayUnavailable wraps transport and non-2xx failures from the gateway.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Razorpay implements Gateway against the Razorpay Orders API.
type Razorpay struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	HTTP      resilience.HTTPClient
}

// NewRazorpay constructs a Razorpay gateway with the default resilient client.
func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{KeyID: keyID, KeySecret: keySecret, HTTP: resilience.For(resilience.Razorpay)}
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder implements Gateway.
func (r *Razorpay) CreateOrder(ctx context.Context, amount int64, receipt string, notes map[string]string) (GatewayOrder, error) {
	ctx, span := otel.Tracer("payment").Start(ctx, "razorpay.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("payment.amount", amount))

	body, err := json.Marshal(map[string]any{
		"amount":          amount,
		"currency":        CurrencyINR,
		"receipt":         receipt,
		"payment_capture": 1,
		"notes":           notes,
	})
	if err != nil {
		return GatewayOrder{}, err
	}
	var out GatewayOrder
	if err := r.call(ctx, http.MethodPost, "/v1/orders", body, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create order failed")
		return GatewayOrder{}, err
	}
	return out, nil
}

// FetchOrder implements Gateway.
func (r *Razorpay) FetchOrder(ctx context.Context, id string) (GatewayOrder, error) {
	ctx, span := otel.Tracer("payment").Start(ctx, "razorpay.FetchOrder")
	defer span.End()
	var out GatewayOrder
	if err := r.call(ctx, http.MethodGet, "/v1/orders/"+url.PathEscape(id), nil, &out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch order failed")
		return GatewayOrder{}, err
	}
	return out, nil
}

// VerifySignature implements Gateway: the signature is hex(HMAC-SHA256(order_id|payment_id, secret)).
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	if r == nil || r.KeySecret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := Sign(r.KeySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// Sign computes the checkout signature for orderID and paymentID.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (r *Razorpay) call(ctx context.Context, method, path string, body []byte, dst any) error {
	if r == nil || r.KeyID == "" || r.KeySecret == "" {
		return fmt.Errorf("%w: credentials not configured", ErrGatewayUnavailable)
	}
	base := r.BaseURL
	if base == "" {
		base = defaultRazorpayURL
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(base, "/")+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(r.KeyID, r.KeySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.HTTP.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		var apiErr razorpayError
		_ = json.NewDecoder(io.LimitReader(resp.Body, 16<<10)).Decode(&apiErr)
		return fmt.Errorf("%w: status %d %s", ErrGatewayUnavailable, resp.StatusCode, apiErr.Error.Description)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrGatewayUnavailable, err)
	}
	return nil
}
