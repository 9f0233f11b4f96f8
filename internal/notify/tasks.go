package notify

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task types processed by the worker.
const (
	TypeOrderStatus = "push:order_status"
	TypeBroadcast   = "push:broadcast"
)

// QueueName is the asynq queue push tasks are placed on.
const QueueName = "notifications"

// Enqueuer is the subset of *asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// OrderStatusTask asks the worker to tell a customer their order changed status.
type OrderStatusTask struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
	Status  string `json:"status"`
}

// BroadcastTask asks the worker to notify every customer device, optionally limited to one platform.
type BroadcastTask struct {
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Platform string         `json:"platform,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// NewOrderStatusTask encodes p as an asynq task.
func NewOrderStatusTask(p OrderStatusTask) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderStatus, data), nil
}

// NewBroadcastTask encodes p as an asynq task.
func NewBroadcastTask(p BroadcastTask) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBroadcast, data), nil
}
