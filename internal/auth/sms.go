package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/backend-food/internal/resilience"
)

const defaultFast2SMSURL = "https://www.fast2sms.com/dev/bulkV2"

// ErrSMSRejected is returned when the gateway answers but does not accept the message.
var ErrSMSRejected = errors.New("auth: sms gateway rejected message")

// Fast2SMS delivers OTPs through the Fast2SMS bulk API. With Route "dlt" the TemplateID
// is sent as the message and the code as its variable; any other route uses the
// gateway's built-in OTP template.
type Fast2SMS struct {
	APIKey     string
	SenderID   string
	Route      string
	TemplateID string
	BaseURL    string
	HTTP       resilience.HTTPClient
}

// NewFast2SMS builds a sender with the default outbound client settings.
func NewFast2SMS(apiKey, senderID, route, templateID string) *Fast2SMS {
	return &Fast2SMS{
		APIKey:     apiKey,
		SenderID:   senderID,
		Route:      route,
		TemplateID: templateID,
		HTTP:       resilience.For(resilience.Fast2SMS),
	}
}

type fast2smsResponse struct {
	Return    bool     `json:"return"`
	RequestID string   `json:"request_id"`
	Message   []string `json:"message"`
}

// SendOTP implements SMSSender.
func (f *Fast2SMS) SendOTP(ctx context.Context, mobile, code string) error {
	if f == nil || f.APIKey == "" {
		return errors.New("auth: fast2sms api key not configured")
	}
	ctx, span := otel.Tracer("auth").Start(ctx, "auth.SendOTP")
	defer span.End()

	route := f.Route
	if route == "" {
		route = "otp"
	}
	q := url.Values{}
	q.Set("authorization", f.APIKey)
	q.Set("route", route)
	q.Set("numbers", mobile)
	q.Set("flash", "0")
	if route == "dlt" {
		q.Set("sender_id", f.SenderID)
		q.Set("message", f.TemplateID)
	}
	q.Set("variables_values", code)

	base := f.BaseURL
	if base == "" {
		base = defaultFast2SMSURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := f.HTTP.Do(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("fast2sms: %w", err)
	}
	defer resp.Body.Close()
	var body fast2smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("fast2sms: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !body.Return {
		span.SetStatus(codes.Error, "rejected")
		return fmt.Errorf("%w: status %d %v", ErrSMSRejected, resp.StatusCode, body.Message)
	}
	return nil
}

// LogSMS writes codes to the request logger instead of sending them. It is used outside
// production when no gateway key is configured.
type LogSMS struct{}

// SendOTP implements SMSSender.
func (LogSMS) SendOTP(ctx context.Context, mobile, code string) error {
	zerolog.Ctx(ctx).Info().Str("mobile", mobile).Str("otp", code).Msg("otp not sent: sms gateway disabled")
	return nil
}
