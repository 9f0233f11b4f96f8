package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/backend-food/internal/checkout"
	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/obs"
)

const providerRazorpay = "razorpay"

var (
	// ErrMissingFields is returned when any of the gateway identifiers is absent.
	ErrMissingFields = errors.New("missing payment verification data")
	// ErrInvalidSignature is returned when the checkout signature does not match.
	ErrInvalidSignature = errors.New("invalid payment signature")
	// ErrReplay is returned when a payment id is presented a second time.
	ErrReplay = errors.New("payment already processed")
	// ErrAmountMismatch is returned when the gateway order no longer matches the cart total.
	ErrAmountMismatch = errors.New("payment amount does not match cart total")
	// ErrNotConfigured is returned when no gateway is wired.
	ErrNotConfigured = errors.New("payment gateway not configured")
)

// Checkouter prices and places orders.
type Checkouter interface {
	Quote(ctx context.Context, userID string, in checkout.Input) (checkout.Quote, error)
	Checkout(ctx context.Context, userID string, in checkout.Input) (checkout.Summary, error)
}

// ReplayGuard remembers processed payment ids in Redis. A nil guard or client disables it.
type ReplayGuard struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func (g *ReplayGuard) key(paymentID string) string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "payment:seen:"
	}
	return prefix + paymentID
}

// Claim records paymentID and reports whether this is its first use.
func (g *ReplayGuard) Claim(ctx context.Context, paymentID string) (bool, error) {
	if g == nil || g.Client == nil {
		return true, nil
	}
	ttl := g.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return g.Client.SetNX(ctx, g.key(paymentID), time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

// Release forgets paymentID so a failed placement can be retried.
func (g *ReplayGuard) Release(ctx context.Context, paymentID string) {
	if g == nil || g.Client == nil {
		return
	}
	if err := g.Client.Del(ctx, g.key(paymentID)).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("release payment replay key")
	}
}

// Service runs the prepaid checkout flow.
type Service struct {
	Gateway  Gateway
	Checkout Checkouter
	Guard    *ReplayGuard
	KeyID    string
}

// Intent is returned to the client to open the gateway's checkout sheet.
type Intent struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
	Total    string `json:"total"`
}

// VerifyInput carries the gateway callback fields plus the checkout choices.
type VerifyInput struct {
	checkout.Input
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// Paise converts a rupee amount to paise.
func Paise(total decimal.Decimal) int64 {
	return total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateOrder prices the caller's cart server-side and opens a gateway order for its total.
func (s *Service) CreateOrder(ctx context.Context, userID string, in checkout.Input) (Intent, error) {
	if s.Gateway == nil {
		return Intent{}, ErrNotConfigured
	}
	q, err := s.Checkout.Quote(ctx, userID, in)
	if err != nil {
		return Intent{}, err
	}
	amount := Paise(q.Breakdown.Rounded().Total)
	receipt := "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	gw, err := s.Gateway.CreateOrder(ctx, amount, receipt, map[string]string{"user_id": userID})
	if err != nil {
		return Intent{}, err
	}
	currency := gw.Currency
	if currency == "" {
		currency = CurrencyINR
	}
	return Intent{
		OrderID:  gw.ID,
		Amount:   gw.Amount,
		Currency: currency,
		KeyID:    s.KeyID,
		Total:    q.Breakdown.Rounded().Total.StringFixed(2),
	}, nil
}

// Verify checks the gateway signature, guards against replays, confirms the paid amount still
// matches the cart and places the order with the payment id as its reference.
func (s *Service) Verify(ctx context.Context, userID string, in VerifyInput) (summary checkout.Summary, err error) {
	ctx, span := otel.Tracer("payment").Start(ctx, "payment.Verify")
	defer span.End()
	result := "error"
	defer func() {
		span.SetAttributes(attribute.String("payment.verify.result", result))
		obs.Inc(obs.PaymentVerifyTotal, providerRazorpay, result)
	}()

	if s.Gateway == nil {
		return checkout.Summary{}, ErrNotConfigured
	}
	in.RazorpayOrderID = strings.TrimSpace(in.RazorpayOrderID)
	in.RazorpayPaymentID = strings.TrimSpace(in.RazorpayPaymentID)
	in.RazorpaySignature = strings.TrimSpace(in.RazorpaySignature)
	if in.RazorpayOrderID == "" || in.RazorpayPaymentID == "" || in.RazorpaySignature == "" {
		result = "invalid"
		return checkout.Summary{}, ErrMissingFields
	}
	if !s.Gateway.VerifySignature(in.RazorpayOrderID, in.RazorpayPaymentID, in.RazorpaySignature) {
		result = "invalid_signature"
		return checkout.Summary{}, ErrInvalidSignature
	}
	first, err := s.Guard.Claim(ctx, in.RazorpayPaymentID)
	if err != nil {
		return checkout.Summary{}, fmt.Errorf("claim payment: %w", err)
	}
	if !first {
		result = "replay"
		return checkout.Summary{}, ErrReplay
	}
	defer func() {
		if err != nil && !errors.Is(err, checkout.ErrDuplicatePayment) {
			s.Guard.Release(ctx, in.RazorpayPaymentID)
		}
	}()

	q, err := s.Checkout.Quote(ctx, userID, in.Input)
	if err != nil {
		return checkout.Summary{}, err
	}
	gw, err := s.Gateway.FetchOrder(ctx, in.RazorpayOrderID)
	if err != nil {
		return checkout.Summary{}, err
	}
	if gw.Amount != Paise(q.Breakdown.Rounded().Total) {
		result = "amount_mismatch"
		return checkout.Summary{}, ErrAmountMismatch
	}

	co := in.Input
	co.PaymentMethod = checkout.PaymentRazorpay
	co.PaymentReference = in.RazorpayPaymentID
	summary, err = s.Checkout.Checkout(ctx, userID, co)
	if err != nil {
		if errors.Is(err, checkout.ErrDuplicatePayment) {
			result = "replay"
		}
		return checkout.Summary{}, err
	}
	result = "success"
	return summary, nil
}

// AsAppError maps payment errors onto API errors.
func AsAppError(err error) error {
	if err == nil || common.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, ErrMissingFields):
		return common.NewAppError(common.CodeValidation, "Missing payment verification data", http.StatusBadRequest, err)
	case errors.Is(err, ErrInvalidSignature):
		return common.NewAppError("PAYMENT_VERIFICATION_FAILED", "Payment verification failed. Invalid signature.", http.StatusBadRequest, err)
	case errors.Is(err, ErrReplay):
		return common.NewAppError("PAYMENT_ALREADY_PROCESSED", "Payment has already been used for an order", http.StatusConflict, err)
	case errors.Is(err, ErrAmountMismatch):
		return common.NewAppError("PAYMENT_AMOUNT_MISMATCH", "Paid amount does not match the cart total", http.StatusConflict, err)
	case errors.Is(err, ErrNotConfigured):
		return common.NewAppError("PAYMENT_NOT_CONFIGURED", "Payment gateway not configured", http.StatusServiceUnavailable, err)
	case errors.Is(err, ErrGatewayUnavailable):
		return common.NewAppError("PAYMENT_GATEWAY_ERROR", "Failed to reach payment gateway", http.StatusBadGateway, err)
	}
	return checkout.AsAppError(err)
}
