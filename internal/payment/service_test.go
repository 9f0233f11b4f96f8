package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-food/internal/checkout"
	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/pricing"
	"github.com/noah-isme/backend-food/internal/resilience"
)

const testSecret = "rzp_secret"

type stubCheckout struct {
	total    decimal.Decimal
	placed   []checkout.Input
	placeErr error
}

func (s *stubCheckout) Quote(context.Context, string, checkout.Input) (checkout.Quote, error) {
	return checkout.Quote{Breakdown: pricing.Breakdown{Total: s.total}}, nil
}

func (s *stubCheckout) Checkout(_ context.Context, _ string, in checkout.Input) (checkout.Summary, error) {
	if s.placeErr != nil {
		return checkout.Summary{}, s.placeErr
	}
	s.placed = append(s.placed, in)
	return checkout.Summary{OrderID: "order-1", Status: "confirmed", Total: s.total, PaymentMethod: in.PaymentMethod}, nil
}

type stubGateway struct {
	Razorpay
	created []int64
	amount  int64
}

func (g *stubGateway) CreateOrder(_ context.Context, amount int64, receipt string, _ map[string]string) (GatewayOrder, error) {
	g.created = append(g.created, amount)
	g.amount = amount
	return GatewayOrder{ID: "order_rzp_1", Amount: amount, Currency: "INR", Receipt: receipt}, nil
}

func (g *stubGateway) FetchOrder(_ context.Context, id string) (GatewayOrder, error) {
	return GatewayOrder{ID: id, Amount: g.amount, Currency: "INR"}, nil
}

func newGuard(t *testing.T) *ReplayGuard {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &ReplayGuard{Client: client, TTL: time.Hour}
}

func verifyInput(paymentID string) VerifyInput {
	return VerifyInput{
		Input:             checkout.Input{DeliveryMethod: "pickup"},
		RazorpayOrderID:   "order_rzp_1",
		RazorpayPaymentID: paymentID,
		RazorpaySignature: Sign(testSecret, "order_rzp_1", paymentID),
	}
}

func TestPaise(t *testing.T) {
	require.EqualValues(t, 16250, Paise(decimal.RequireFromString("162.50")))
	require.EqualValues(t, 10001, Paise(decimal.RequireFromString("100.005")))
}

func TestVerifySignature(t *testing.T) {
	rp := &Razorpay{KeySecret: testSecret}
	sig := Sign(testSecret, "order_1", "pay_1")
	require.True(t, rp.VerifySignature("order_1", "pay_1", sig))
	require.True(t, rp.VerifySignature("order_1", "pay_1", strings.ToUpper(sig)))
	require.False(t, rp.VerifySignature("order_1", "pay_2", sig))
	require.False(t, rp.VerifySignature("order_1", "pay_1", ""))
	require.False(t, (&Razorpay{}).VerifySignature("order_1", "pay_1", sig))
}

func TestCreateOrderUsesServerSideTotal(t *testing.T) {
	gw := &stubGateway{Razorpay: Razorpay{KeySecret: testSecret}}
	svc := &Service{Gateway: gw, Checkout: &stubCheckout{total: decimal.RequireFromString("162.50")}, KeyID: "rzp_key"}

	intent, err := svc.CreateOrder(context.Background(), "user-1", checkout.Input{})
	require.NoError(t, err)
	require.Equal(t, []int64{16250}, gw.created)
	require.Equal(t, "order_rzp_1", intent.OrderID)
	require.Equal(t, "INR", intent.Currency)
	require.Equal(t, "rzp_key", intent.KeyID)
	require.Equal(t, "162.50", intent.Total)
}

func TestVerifyPlacesPrepaidOrderOnce(t *testing.T) {
	gw := &stubGateway{Razorpay: Razorpay{KeySecret: testSecret}, amount: 16250}
	co := &stubCheckout{total: decimal.RequireFromString("162.50")}
	svc := &Service{Gateway: gw, Checkout: co, Guard: newGuard(t)}

	out, err := svc.Verify(context.Background(), "user-1", verifyInput("pay_1"))
	require.NoError(t, err)
	require.Equal(t, "order-1", out.OrderID)
	require.Len(t, co.placed, 1)
	require.Equal(t, checkout.PaymentRazorpay, co.placed[0].PaymentMethod)
	require.Equal(t, "pay_1", co.placed[0].PaymentReference)

	_, err = svc.Verify(context.Background(), "user-1", verifyInput("pay_1"))
	require.ErrorIs(t, err, ErrReplay)
	require.Len(t, co.placed, 1)
}

func TestVerifyRejections(t *testing.T) {
	gw := &stubGateway{Razorpay: Razorpay{KeySecret: testSecret}, amount: 16250}
	co := &stubCheckout{total: decimal.RequireFromString("162.50")}
	svc := &Service{Gateway: gw, Checkout: co, Guard: newGuard(t)}

	in := verifyInput("pay_2")
	in.RazorpaySignature = "deadbeef"
	_, err := svc.Verify(context.Background(), "user-1", in)
	require.ErrorIs(t, err, ErrInvalidSignature)

	in = verifyInput("pay_2")
	in.RazorpayPaymentID = ""
	_, err = svc.Verify(context.Background(), "user-1", in)
	require.ErrorIs(t, err, ErrMissingFields)

	co.total = decimal.RequireFromString("200")
	_, err = svc.Verify(context.Background(), "user-1", verifyInput("pay_2"))
	require.ErrorIs(t, err, ErrAmountMismatch)
	require.Empty(t, co.placed)

	co.total = decimal.RequireFromString("162.50")
	co.placeErr = errors.New("boom")
	_, err = svc.Verify(context.Background(), "user-1", verifyInput("pay_2"))
	require.Error(t, err)

	co.placeErr = nil
	_, err = svc.Verify(context.Background(), "user-1", verifyInput("pay_2"))
	require.NoError(t, err, "failed placements release the payment id")
}

func TestRazorpayClient(t *testing.T) {
	var gotAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		gotAuth = ok && user == "rzp_key" && pass == testSecret
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/orders":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			require.EqualValues(t, 16250, body["amount"])
			require.Equal(t, "INR", body["currency"])
			_, _ = w.Write([]byte(`{"id":"order_abc","amount":16250,"currency":"INR","receipt":"r1","status":"created"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v1/orders/order_abc":
			_, _ = w.Write([]byte(`{"id":"order_abc","amount":16250,"currency":"INR","status":"paid"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The id provided does not exist"}}`))
		}
	}))
	defer srv.Close()

	rp := &Razorpay{KeyID: "rzp_key", KeySecret: testSecret, BaseURL: srv.URL, HTTP: resilience.HTTPClient{Client: srv.Client()}}
	created, err := rp.CreateOrder(context.Background(), 16250, "r1", nil)
	require.NoError(t, err)
	require.True(t, gotAuth)
	require.Equal(t, "order_abc", created.ID)

	fetched, err := rp.FetchOrder(context.Background(), "order_abc")
	require.NoError(t, err)
	require.Equal(t, "paid", fetched.Status)

	_, err = rp.FetchOrder(context.Background(), "order_missing")
	require.ErrorIs(t, err, ErrGatewayUnavailable)
	require.Contains(t, err.Error(), "does not exist")

	_, err = (&Razorpay{}).CreateOrder(context.Background(), 100, "r", nil)
	require.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestVerifyHandler(t *testing.T) {
	gw := &stubGateway{Razorpay: Razorpay{KeySecret: testSecret}, amount: 16250}
	h := &Handler{Svc: &Service{Gateway: gw, Checkout: &stubCheckout{total: decimal.RequireFromString("162.50")}, Guard: newGuard(t)}}

	body, err := json.Marshal(verifyInput("pay_9"))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/razorpay/verify", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	h.Verify(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/razorpay/verify", strings.NewReader(string(body)))
	req = req.WithContext(common.WithUserID(req.Context(), "user-1"))
	rec = httptest.NewRecorder()
	h.Verify(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), "Payment successful and order placed")
	require.Contains(t, rec.Body.String(), `"razorpay_payment_id":"pay_9"`)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/razorpay/verify", strings.NewReader(string(body)))
	req = req.WithContext(common.WithUserID(req.Context(), "user-1"))
	rec = httptest.NewRecorder()
	h.Verify(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
}
