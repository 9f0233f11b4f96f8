package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/backend-food/internal/common"
)

// Handler exposes cash-on-delivery checkout.
type Handler struct {
	Svc *Service
}

// Checkout places a cash-on-delivery order from the caller's cart.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "checkout service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return
	}
	var payload Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := common.Validate(payload); err != nil {
		common.WriteError(w, err)
		return
	}
	payload.PaymentMethod = PaymentCOD
	payload.PaymentReference = ""
	out, err := h.Svc.Checkout(r.Context(), userID, payload)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": SummaryPayload(out, "Order placed successfully")})
}

// SummaryPayload renders a checkout summary.
func SummaryPayload(s Summary, message string) map[string]any {
	return map[string]any{
		"order_id":         s.OrderID,
		"status":           s.Status,
		"subtotal":         s.Subtotal.StringFixed(2),
		"tax":              s.Tax.StringFixed(2),
		"platform_fee":     s.PlatformFee.StringFixed(2),
		"delivery_charge":  s.DeliveryCharge.StringFixed(2),
		"coupon_discount":  s.CouponDiscount.StringFixed(2),
		"total":            s.Total.StringFixed(2),
		"delivery_address": s.DeliveryAddress,
		"payment_method":   s.PaymentMethod,
		"message":          message,
	}
}
