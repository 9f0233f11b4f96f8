package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
	"github.com/noah-isme/backend-food/internal/notify"
	"github.com/noah-isme/backend-food/internal/resilience"
)

func toUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

type captureQueue struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (c *captureQueue) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.tasks = append(c.tasks, task)
	c.opts = append(c.opts, opts)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

type stubTokens struct {
	mu      sync.Mutex
	rows    []dbgen.PushToken
	deleted []string
	upserts []dbgen.UpsertPushTokenParams
}

func (s *stubTokens) UpsertPushToken(_ context.Context, arg dbgen.UpsertPushTokenParams) (dbgen.PushToken, error) {
	s.upserts = append(s.upserts, arg)
	return dbgen.PushToken{ID: toUUID(uuid.New()), UserID: arg.UserID, RiderID: arg.RiderID, Token: arg.Token, Platform: arg.Platform}, nil
}

func (s *stubTokens) DeletePushToken(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.rows {
		if row.Token == token {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			s.deleted = append(s.deleted, token)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *stubTokens) ListPushTokensForUser(_ context.Context, userID pgtype.UUID) ([]dbgen.PushToken, error) {
	var out []dbgen.PushToken
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubTokens) ListCustomerPushTokens(context.Context) ([]dbgen.PushToken, error) {
	var out []dbgen.PushToken
	for _, row := range s.rows {
		if row.UserID.Valid {
			out = append(out, row)
		}
	}
	return out, nil
}

type stubPusher struct {
	sent   []notify.Message
	result notify.PushResult
	err    error
}

func (p *stubPusher) Push(_ context.Context, msgs []notify.Message) (notify.PushResult, error) {
	p.sent = append(p.sent, msgs...)
	return p.result, p.err
}

func TestValidToken(t *testing.T) {
	require.True(t, notify.ValidToken("ExponentPushToken[abc123]"))
	require.True(t, notify.ValidToken("ExpoPushToken[xyz]"))
	require.False(t, notify.ValidToken("ExponentPushToken[]"))
	require.False(t, notify.ValidToken("fcm:abc"))
}

func TestStatusMessage(t *testing.T) {
	id := "1a2b3c4d-0000-0000-0000-000000000000"
	title, body := notify.StatusMessage(id, "delivered")
	require.Equal(t, "Order Delivered", title)
	require.Equal(t, "Order #1A2B3C4D has been delivered. Enjoy your meal!", body)

	title, body = notify.StatusMessage(id, "pickup_failed")
	require.Equal(t, "Order Update", title)
	require.Contains(t, body, "pickup failed")
}

func TestExpoClientBatchesAndReportsUnregistered(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var batch []notify.Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		tickets := make([]map[string]any, len(batch))
		for i, msg := range batch {
			tickets[i] = map[string]any{"status": "ok", "id": fmt.Sprintf("r-%d", i)}
			if msg.To == "ExponentPushToken[dead]" {
				tickets[i] = map[string]any{
					"status":  "error",
					"message": "not registered",
					"details": map[string]any{"error": "DeviceNotRegistered"},
				}
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": tickets})
	}))
	t.Cleanup(srv.Close)

	client := &notify.ExpoClient{
		URL:         srv.URL,
		AccessToken: "secret",
		HTTP:        resilience.HTTPClient{Client: srv.Client(), MaxAttempts: 1, Timeout: time.Second},
	}
	msgs := make([]notify.Message, 0, 150)
	for i := 0; i < 149; i++ {
		msgs = append(msgs, notify.Message{To: fmt.Sprintf("ExponentPushToken[%d]", i), Title: "t", Body: "b"})
	}
	msgs = append(msgs, notify.Message{To: "ExponentPushToken[dead]", Title: "t", Body: "b"})

	res, err := client.Push(context.Background(), msgs)
	require.NoError(t, err)
	require.Equal(t, 2, requests)
	require.Equal(t, 149, res.Sent)
	require.Equal(t, 1, res.Failed)
	require.Equal(t, []string{"ExponentPushToken[dead]"}, res.Unregistered)
}

func TestExpoClientRejectedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"code":"VALIDATION_ERROR","message":"bad token"}]}`))
	}))
	t.Cleanup(srv.Close)

	client := &notify.ExpoClient{URL: srv.URL, HTTP: resilience.HTTPClient{Client: srv.Client(), MaxAttempts: 1}}
	res, err := client.Push(context.Background(), []notify.Message{{To: "ExponentPushToken[a]"}})
	require.ErrorIs(t, err, notify.ErrPushUnavailable)
	require.Equal(t, 1, res.Failed)
}

func TestOrderNotifierEnqueuesStatusTask(t *testing.T) {
	queue := &captureQueue{}
	n := notify.OrderNotifier{Queue: queue}
	payload, _ := json.Marshal(events.OrderStatusPayload{OrderID: "o-1", UserID: uuid.NewString(), Status: "on_the_way"})

	err := n.Notify(context.Background(), dbgen.DomainEvent{
		ID:      toUUID(uuid.New()),
		Topic:   events.TopicOrderAssigned,
		Payload: payload,
	})
	require.NoError(t, err)
	require.Len(t, queue.tasks, 1)
	require.Equal(t, notify.TypeOrderStatus, queue.tasks[0].Type())
	require.Len(t, queue.opts[0], 3)

	var task notify.OrderStatusTask
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &task))
	require.Equal(t, "on_the_way", task.Status)

	// topics outside the order lifecycle are ignored
	require.NoError(t, n.Notify(context.Background(), dbgen.DomainEvent{Topic: events.TopicSupportMessage, Payload: payload}))
	require.Len(t, queue.tasks, 1)
}

func TestOrderNotifierIgnoresDuplicateTaskID(t *testing.T) {
	queue := &captureQueue{err: asynq.ErrTaskIDConflict}
	n := notify.OrderNotifier{Queue: queue}
	payload, _ := json.Marshal(events.OrderStatusPayload{OrderID: "o-1", UserID: uuid.NewString(), Status: "confirmed"})
	err := n.Notify(context.Background(), dbgen.DomainEvent{ID: toUUID(uuid.New()), Topic: events.TopicOrderCreated, Payload: payload})
	require.NoError(t, err)
}

func TestWorkerOrderStatusRemovesDeadTokens(t *testing.T) {
	user := toUUID(uuid.New())
	other := toUUID(uuid.New())
	tokens := &stubTokens{rows: []dbgen.PushToken{
		{UserID: user, Token: "ExponentPushToken[live]"},
		{UserID: user, Token: "ExponentPushToken[dead]"},
		{UserID: other, Token: "ExponentPushToken[other]"},
	}}
	pusher := &stubPusher{result: notify.PushResult{Sent: 1, Failed: 1, Unregistered: []string{"ExponentPushToken[dead]"}}}
	w := &notify.Worker{Tokens: tokens, Pusher: pusher}

	task, err := notify.NewOrderStatusTask(notify.OrderStatusTask{OrderID: uuid.NewString(), UserID: common.UUIDString(user), Status: "preparing"})
	require.NoError(t, err)
	require.NoError(t, w.HandleOrderStatus(context.Background(), task))

	require.Len(t, pusher.sent, 2)
	require.Equal(t, "Order is Being Prepared", pusher.sent[0].Title)
	require.Equal(t, "order_update", pusher.sent[0].Data["type"])
	require.Equal(t, []string{"ExponentPushToken[dead]"}, tokens.deleted)
}

func TestWorkerRetriesWhenNothingSent(t *testing.T) {
	user := toUUID(uuid.New())
	tokens := &stubTokens{rows: []dbgen.PushToken{{UserID: user, Token: "ExponentPushToken[live]"}}}
	pusher := &stubPusher{result: notify.PushResult{Failed: 1}, err: notify.ErrPushUnavailable}
	w := &notify.Worker{Tokens: tokens, Pusher: pusher}

	task, _ := notify.NewOrderStatusTask(notify.OrderStatusTask{OrderID: "o", UserID: common.UUIDString(user), Status: "confirmed"})
	require.ErrorIs(t, w.HandleOrderStatus(context.Background(), task), notify.ErrPushUnavailable)
}

func TestWorkerRejectsMalformedTask(t *testing.T) {
	w := &notify.Worker{Tokens: &stubTokens{}, Pusher: &stubPusher{}}
	err := w.HandleOrderStatus(context.Background(), asynq.NewTask(notify.TypeOrderStatus, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestBroadcastFiltersPlatform(t *testing.T) {
	tokens := &stubTokens{rows: []dbgen.PushToken{
		{UserID: toUUID(uuid.New()), Token: "ExponentPushToken[a]", Platform: common.Text("android")},
		{UserID: toUUID(uuid.New()), Token: "ExponentPushToken[i]", Platform: common.Text("ios")},
		{RiderID: toUUID(uuid.New()), Token: "ExponentPushToken[r]", Platform: common.Text("android")},
	}}
	pusher := &stubPusher{result: notify.PushResult{Sent: 1}}
	w := &notify.Worker{Tokens: tokens, Pusher: pusher}

	queue := &captureQueue{}
	b := &notify.Broadcaster{Queue: queue}
	require.NoError(t, b.AppUpdate(context.Background(), "2.1.0", "android", "Faster checkout\nBug fixes", true))
	require.Len(t, queue.tasks, 1)

	require.NoError(t, w.HandleBroadcast(context.Background(), queue.tasks[0]))
	require.Len(t, pusher.sent, 1)
	require.Equal(t, "ExponentPushToken[a]", pusher.sent[0].To)
	require.Equal(t, "New App Update Available", pusher.sent[0].Title)
	require.Equal(t, "Version 2.1.0 is now available! Faster checkout", pusher.sent[0].Body)
	require.Equal(t, true, pusher.sent[0].Data["force_update"])
}

func TestBroadcasterWithoutQueue(t *testing.T) {
	var b *notify.Broadcaster
	require.ErrorIs(t, b.Broadcast(context.Background(), notify.BroadcastTask{Title: "x"}), notify.ErrQueueUnavailable)
}

func TestTokenServiceRegisterByRole(t *testing.T) {
	tokens := &stubTokens{}
	svc := &notify.TokenService{Tokens: tokens}
	riderID := uuid.NewString()

	_, err := svc.Register(context.Background(), notify.Owner{ID: riderID, Role: common.RoleRider}, notify.RegisterInput{Token: "ExpoPushToken[r1]"})
	require.NoError(t, err)
	require.Len(t, tokens.upserts, 1)
	require.True(t, tokens.upserts[0].RiderID.Valid)
	require.False(t, tokens.upserts[0].UserID.Valid)
	require.Equal(t, "android", tokens.upserts[0].Platform.String)

	_, err = svc.Register(context.Background(), notify.Owner{ID: uuid.NewString(), Role: common.RoleCustomer}, notify.RegisterInput{Token: "nope"})
	require.ErrorIs(t, err, notify.ErrInvalidToken)
}

func TestRegisterHandler(t *testing.T) {
	h := &notify.Handler{Tokens: &notify.TokenService{Tokens: &stubTokens{}}}

	req := httptest.NewRequest(http.MethodPost, "/push/register", bytes.NewBufferString(`{"push_token":"ExponentPushToken[x]"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/push/register", bytes.NewBufferString(`{"push_token":"ExponentPushToken[x]","device_type":"ios"}`))
	req = req.WithContext(common.WithUserID(req.Context(), uuid.NewString()))
	rec = httptest.NewRecorder()
	h.Register(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"device_type":"ios"`)

	req = httptest.NewRequest(http.MethodPost, "/push/unregister", bytes.NewBufferString(`{"push_token":"ExponentPushToken[missing]"}`))
	req = req.WithContext(common.WithUserID(req.Context(), uuid.NewString()))
	rec = httptest.NewRecorder()
	h.Unregister(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

type sentMail struct{ To, Subject, HTML string }

type recordingMailer struct{ Outbox []sentMail }

func (m *recordingMailer) Send(to, subject, html string) error {
	m.Outbox = append(m.Outbox, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func TestSupportEmailNotifier(t *testing.T) {
	mail := &recordingMailer{}
	n := notify.SupportEmailNotifier{Mail: mail, To: "staff@example.com"}
	ticketID := uuid.NewString()

	payload, _ := json.Marshal(events.SupportPayload{
		TicketID: ticketID, Subject: "Cold food", Category: "order", Priority: "high",
		Status: "open", Sender: "customer", Body: "<b>cold</b>",
	})
	ev := dbgen.DomainEvent{
		Topic:      events.TopicSupportTicketOpen,
		Payload:    payload,
		OccurredAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	require.NoError(t, n.Notify(context.Background(), ev))
	require.Len(t, mail.Outbox, 1)
	require.Equal(t, "staff@example.com", mail.Outbox[0].To)
	require.Contains(t, mail.Outbox[0].Subject, "[HIGH] New support ticket")
	require.Contains(t, mail.Outbox[0].HTML, "&lt;b&gt;cold&lt;/b&gt;")

	staff, _ := json.Marshal(events.SupportPayload{TicketID: ticketID, Sender: "admin", Body: "on it"})
	require.NoError(t, n.Notify(context.Background(), dbgen.DomainEvent{Topic: events.TopicSupportMessage, Payload: staff}))
	require.Len(t, mail.Outbox, 1)
}
