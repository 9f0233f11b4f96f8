package events

// Topic constants for domain events emitted by the service.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
	TopicOrderCancelled     = "order.cancelled"
	TopicOrderAssigned      = "order.assigned"
	TopicOrderDelivered     = "order.delivered"
	TopicPaymentVerified    = "payment.verified"
	TopicSupportTicketOpen  = "support.ticket_opened"
	TopicSupportMessage     = "support.message_posted"
)

// DefaultTopics returns every topic that is forwarded to the event stream.
func DefaultTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicOrderStatusChanged,
		TopicOrderCancelled,
		TopicOrderAssigned,
		TopicOrderDelivered,
		TopicPaymentVerified,
		TopicSupportTicketOpen,
		TopicSupportMessage,
	}
}

// OrderStatusPayload is the body of order lifecycle events. order.created carries the same
// order_id, user_id and status keys.
type OrderStatusPayload struct {
	OrderID        string `json:"order_id"`
	UserID         string `json:"user_id"`
	RiderID        string `json:"rider_id,omitempty"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
}

// SupportPayload is the body of support ticket events.
type SupportPayload struct {
	TicketID string `json:"ticket_id"`
	UserID   string `json:"user_id"`
	OrderID  string `json:"order_id,omitempty"`
	Category string `json:"category"`
	Subject  string `json:"subject"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
	Sender   string `json:"sender"`
	Body     string `json:"body"`
}
