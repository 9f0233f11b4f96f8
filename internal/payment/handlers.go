package payment

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/backend-food/internal/checkout"
	"github.com/noah-isme/backend-food/internal/common"
)

// Handler exposes the prepaid checkout endpoints.
type Handler struct {
	Svc *Service
}

// CreateOrder handles POST /api/v1/payments/razorpay/order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var req checkout.Input
	if !decode(w, r, &req) {
		return
	}
	intent, err := h.Svc.CreateOrder(r.Context(), userID, req)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": intent})
}

// Verify handles POST /api/v1/payments/razorpay/verify.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var req VerifyInput
	if !decode(w, r, &req) {
		return
	}
	out, err := h.Svc.Verify(r.Context(), userID, req)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	data := checkout.SummaryPayload(out, "Payment successful and order placed")
	data["razorpay_payment_id"] = req.RazorpayPaymentID
	common.JSON(w, http.StatusCreated, map[string]any{"data": data})
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "payment handler unavailable", nil)
		return "", false
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return "", false
	}
	return userID, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return false
	}
	if err := common.Validate(dst); err != nil {
		common.WriteError(w, err)
		return false
	}
	return true
}
