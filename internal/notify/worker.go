package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// TokenStore is the persistence used for device tokens.
type TokenStore interface {
	UpsertPushToken(ctx context.Context, arg dbgen.UpsertPushTokenParams) (dbgen.PushToken, error)
	DeletePushToken(ctx context.Context, token string) (int64, error)
	ListPushTokensForUser(ctx context.Context, userID pgtype.UUID) ([]dbgen.PushToken, error)
	ListCustomerPushTokens(ctx context.Context) ([]dbgen.PushToken, error)
}

// Worker delivers push tasks taken off the queue.
type Worker struct {
	Tokens TokenStore
	Pusher Pusher
}

// Register mounts the worker's handlers on mux.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeOrderStatus, w.HandleOrderStatus)
	mux.HandleFunc(TypeBroadcast, w.HandleBroadcast)
}

// HandleOrderStatus pushes a status update to every device of the order's customer.
func (w *Worker) HandleOrderStatus(ctx context.Context, t *asynq.Task) error {
	var p OrderStatusTask
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	userID, err := common.ParseUUID(p.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", p.UserID, asynq.SkipRetry)
	}
	tokens, err := w.Tokens.ListPushTokensForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list tokens: %w", err)
	}
	title, body := StatusMessage(p.OrderID, p.Status)
	data := map[string]any{"type": "order_update", "order_id": p.OrderID, "status": p.Status}
	msgs := make([]Message, 0, len(tokens))
	for _, tok := range tokens {
		msgs = append(msgs, newMessage(tok.Token, title, body, data))
	}
	return w.deliver(ctx, msgs)
}

// HandleBroadcast pushes a message to every customer device on the requested platform.
func (w *Worker) HandleBroadcast(ctx context.Context, t *asynq.Task) error {
	var p BroadcastTask
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	tokens, err := w.Tokens.ListCustomerPushTokens(ctx)
	if err != nil {
		return fmt.Errorf("list tokens: %w", err)
	}
	msgs := make([]Message, 0, len(tokens))
	for _, tok := range tokens {
		if p.Platform != "" && !strings.EqualFold(tok.Platform.String, p.Platform) {
			continue
		}
		msgs = append(msgs, newMessage(tok.Token, p.Title, p.Body, p.Data))
	}
	return w.deliver(ctx, msgs)
}

func (w *Worker) deliver(ctx context.Context, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}
	res, err := w.Pusher.Push(ctx, msgs)
	logger := zerolog.Ctx(ctx)
	for _, token := range res.Unregistered {
		if _, delErr := w.Tokens.DeletePushToken(ctx, token); delErr != nil {
			logger.Warn().Err(delErr).Msg("delete unregistered push token")
		}
	}
	logger.Info().Int("sent", res.Sent).Int("failed", res.Failed).Int("unregistered", len(res.Unregistered)).Msg("push delivered")
	// retry only when nothing got through
	if err != nil && res.Sent == 0 {
		return err
	}
	return nil
}

func newMessage(token, title, body string, data map[string]any) Message {
	return Message{
		To:        token,
		Title:     title,
		Body:      body,
		Data:      data,
		Sound:     "default",
		Priority:  "high",
		ChannelID: "order-updates",
	}
}
