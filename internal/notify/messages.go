package notify

import (
	"fmt"
	"strings"
)

// orderRef shortens an order id for display in notifications.
func orderRef(orderID string) string {
	if len(orderID) > 8 {
		return strings.ToUpper(orderID[:8])
	}
	return strings.ToUpper(orderID)
}

// StatusMessage returns the title and body shown to a customer when their order moves to status.
func StatusMessage(orderID, status string) (string, string) {
	ref := orderRef(orderID)
	switch status {
	case "confirmed":
		return "Order Confirmed", fmt.Sprintf("Order #%s has been confirmed and is being prepared.", ref)
	case "preparing":
		return "Order is Being Prepared", fmt.Sprintf("Your delicious food is being prepared! Order #%s", ref)
	case "ready_for_pickup":
		return "Order Ready for Pickup", fmt.Sprintf("Order #%s is ready! Waiting for delivery partner.", ref)
	case "on_the_way":
		return "Delivery Partner on the Way", fmt.Sprintf("Your order #%s is on the way to you!", ref)
	case "delivered":
		return "Order Delivered", fmt.Sprintf("Order #%s has been delivered. Enjoy your meal!", ref)
	case "cancelled":
		return "Order Cancelled", fmt.Sprintf("Order #%s has been cancelled.", ref)
	default:
		return "Order Update", fmt.Sprintf("Order #%s status: %s", ref, strings.ReplaceAll(status, "_", " "))
	}
}

// AppUpdateMessage returns the broadcast text for a newly published app version.
func AppUpdateMessage(version, notes string) (string, string) {
	body := fmt.Sprintf("Version %s is now available!", version)
	if notes = strings.TrimSpace(notes); notes != "" {
		body += " " + firstLine(notes)
	}
	return "New App Update Available", body
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
