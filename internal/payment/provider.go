package payment

import "context"

// GatewayOrder is a payment order opened with the gateway.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway abstracts the operations required from the upstream payment gateway.
type Gateway interface {
	// CreateOrder opens an order for amount in the smallest currency unit.
	CreateOrder(ctx context.Context, amount int64, receipt string, notes map[string]string) (GatewayOrder, error)
	// FetchOrder loads a previously created order.
	FetchOrder(ctx context.Context, id string) (GatewayOrder, error)
	// VerifySignature checks the checkout signature returned to the client.
	VerifySignature(orderID, paymentID, signature string) bool
}
