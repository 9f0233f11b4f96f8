package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
)

var pushTopics = map[string]bool{
	events.TopicOrderCreated:       true,
	events.TopicOrderStatusChanged: true,
	events.TopicOrderCancelled:     true,
	events.TopicOrderAssigned:      true,
	events.TopicOrderDelivered:     true,
}

// OrderNotifier turns order lifecycle events into push tasks. It implements events.Notifier.
type OrderNotifier struct {
	Queue    Enqueuer
	MaxRetry int
}

// Notify implements events.Notifier.
func (n OrderNotifier) Notify(ctx context.Context, event dbgen.DomainEvent) error {
	if n.Queue == nil || !pushTopics[event.Topic] {
		return nil
	}
	var payload events.OrderStatusPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("push notify: decode payload: %w", err)
	}
	if payload.UserID == "" || payload.Status == "" {
		return nil
	}
	if payload.OrderID == "" {
		payload.OrderID = common.UUIDString(event.AggregateID)
	}
	task, err := NewOrderStatusTask(OrderStatusTask{
		OrderID: payload.OrderID,
		UserID:  payload.UserID,
		Status:  payload.Status,
	})
	if err != nil {
		return err
	}
	opts := []asynq.Option{asynq.Queue(QueueName), asynq.MaxRetry(n.maxRetry())}
	if id := common.UUIDString(event.ID); id != "" {
		opts = append(opts, asynq.TaskID("push:"+id))
	}
	if _, err := n.Queue.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("push notify: enqueue: %w", err)
	}
	return nil
}

func (n OrderNotifier) maxRetry() int {
	if n.MaxRetry <= 0 {
		return 5
	}
	return n.MaxRetry
}

// Broadcaster schedules notifications addressed to every customer device.
type Broadcaster struct {
	Queue Enqueuer
}

// ErrQueueUnavailable is returned when no task queue is configured.
var ErrQueueUnavailable = errors.New("notify: task queue not configured")

// Broadcast enqueues a broadcast task.
func (b *Broadcaster) Broadcast(ctx context.Context, p BroadcastTask) error {
	if b == nil || b.Queue == nil {
		return ErrQueueUnavailable
	}
	p.Platform = strings.ToLower(strings.TrimSpace(p.Platform))
	if p.Platform == "all" {
		p.Platform = ""
	}
	task, err := NewBroadcastTask(p)
	if err != nil {
		return err
	}
	if _, err := b.Queue.EnqueueContext(ctx, task, asynq.Queue(QueueName), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("broadcast: enqueue: %w", err)
	}
	return nil
}

// AppUpdate announces a published app version.
func (b *Broadcaster) AppUpdate(ctx context.Context, version, platform, notes string, force bool) error {
	title, body := AppUpdateMessage(version, notes)
	return b.Broadcast(ctx, BroadcastTask{
		Title:    title,
		Body:     body,
		Platform: platform,
		Data: map[string]any{
			"type":         "app_update",
			"version":      version,
			"force_update": force,
		},
	})
}
