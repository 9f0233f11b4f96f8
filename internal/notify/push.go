package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/backend-food/internal/obs"
	"github.com/noah-isme/backend-food/internal/resilience"
)

// DefaultExpoURL is the Expo push API endpoint.
const DefaultExpoURL = "https://exp.host/--/api/v2/push/send"

// expoBatchSize is the most messages Expo accepts per request.
const expoBatchSize = 100

// ErrPushUnavailable means the push provider could not be reached or rejected the batch.
var ErrPushUnavailable = errors.New("notify: push provider unavailable")

// Message is one push notification addressed to a single device token.
type Message struct {
	To        string         `json:"to"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	Sound     string         `json:"sound,omitempty"`
	Priority  string         `json:"priority,omitempty"`
	ChannelID string         `json:"channelId,omitempty"`
}

// PushResult summarises a delivery attempt.
type PushResult struct {
	Sent   int
	Failed int
	// Unregistered lists tokens the provider reported as no longer valid.
	Unregistered []string
}

// Pusher delivers push notifications.
type Pusher interface {
	Push(ctx context.Context, msgs []Message) (PushResult, error)
}

// ExpoClient sends notifications through the Expo push service.
type ExpoClient struct {
	URL         string
	AccessToken string
	HTTP        resilience.HTTPClient
}

// NewExpoClient builds an Expo client with the default outbound settings.
func NewExpoClient(url, accessToken string) *ExpoClient {
	return &ExpoClient{URL: url, AccessToken: accessToken, HTTP: resilience.For(resilience.ExpoPush)}
}

type expoTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id"`
	Message string `json:"message"`
	Details struct {
		Error string `json:"error"`
	} `json:"details"`
}

type expoResponse struct {
	Data   []expoTicket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Push sends msgs in batches. A failed batch does not stop later batches; the first
// batch error is returned alongside the accumulated result.
func (c *ExpoClient) Push(ctx context.Context, msgs []Message) (PushResult, error) {
	var result PushResult
	if len(msgs) == 0 {
		return result, nil
	}
	ctx, span := otel.Tracer("notify").Start(ctx, "notify.ExpoPush")
	defer span.End()
	span.SetAttributes(attribute.Int("push.messages", len(msgs)))

	var firstErr error
	for start := 0; start < len(msgs); start += expoBatchSize {
		end := start + expoBatchSize
		if end > len(msgs) {
			end = len(msgs)
		}
		batch := msgs[start:end]
		tickets, err := c.send(ctx, batch)
		if err != nil {
			span.RecordError(err)
			result.Failed += len(batch)
			obs.Inc(obs.PushDeliveriesTotal, "error")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for i, ticket := range tickets {
			if i >= len(batch) {
				break
			}
			if ticket.Status == "ok" {
				result.Sent++
				obs.Inc(obs.PushDeliveriesTotal, "ok")
				continue
			}
			result.Failed++
			if ticket.Details.Error == "DeviceNotRegistered" {
				result.Unregistered = append(result.Unregistered, batch[i].To)
				obs.Inc(obs.PushDeliveriesTotal, "unregistered")
				continue
			}
			obs.Inc(obs.PushDeliveriesTotal, "rejected")
		}
	}
	return result, firstErr
}

func (c *ExpoClient) send(ctx context.Context, batch []Message) ([]expoTicket, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encode push batch: %w", err)
	}
	url := c.URL
	if strings.TrimSpace(url) == "" {
		url = DefaultExpoURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}
	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPushUnavailable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrPushUnavailable, err)
	}
	var decoded expoResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: status %d", ErrPushUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 300 || len(decoded.Errors) > 0 {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if len(decoded.Errors) > 0 {
			msg = decoded.Errors[0].Message
		}
		return nil, fmt.Errorf("%w: %s", ErrPushUnavailable, msg)
	}
	return decoded.Data, nil
}
