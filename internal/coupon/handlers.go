package coupon

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-food/internal/common"
)

// Handler serves the customer coupon endpoints.
type Handler struct {
	Svc *Service
}

type validateRequest struct {
	Code     string          `json:"code" validate:"required,max=50"`
	Subtotal decimal.Decimal `json:"cart_subtotal"`
}

type applyRequest struct {
	CouponID       string `json:"coupon_id" validate:"required,uuid"`
	SelectedItemID string `json:"selected_item_id" validate:"omitempty,uuid"`
}

// Available lists the coupons the caller can use now.
func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	coupons, err := h.Svc.Available(r.Context(), userID)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	out := make([]map[string]any, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, couponPayload(c))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// Validate checks a code against a cart subtotal.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, err)
		return
	}
	res, err := h.Svc.ValidateCode(r.Context(), userID, req.Code, req.Subtotal)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	items := make([]map[string]any, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, selectionPayload(&it))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"valid":                        true,
			"coupon":                       couponPayload(res.Coupon),
			"discount_amount":              res.Discount.StringFixed(2),
			"free_item_selection_required": res.SelectionRequired,
			"available_items":              items,
		},
	})
}

// Apply previews a coupon against the caller's cart.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, err)
		return
	}
	p, err := h.Svc.Apply(r.Context(), userID, req.CouponID, req.SelectedItemID)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"coupon_id":       p.Coupon.ID,
			"code":            p.Coupon.Code,
			"subtotal":        p.Subtotal.StringFixed(2),
			"discount_amount": p.Discount.StringFixed(2),
			"free_item":       selectionPayload(p.FreeItem),
			"message":         "Coupon " + p.Coupon.Code + " applied successfully!",
		},
	})
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "coupon service not configured", nil)
		return "", false
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return "", false
	}
	return userID, true
}

func couponPayload(c Coupon) map[string]any {
	out := map[string]any{
		"id":                        c.ID,
		"code":                      c.Code,
		"description":               c.Description,
		"discount_type":             string(c.Kind.Type()),
		"min_order_amount":          c.MinOrderAmount.StringFixed(2),
		"for_first_time_users_only": c.FirstTimeOnly,
		"valid_until":               nil,
	}
	if c.ValidUntil != nil {
		out["valid_until"] = c.ValidUntil.UTC().Format(time.RFC3339)
	}
	switch k := c.Kind.(type) {
	case Percentage:
		out["discount_value"] = k.Rate.StringFixed(2)
		if k.Cap != nil {
			out["max_discount_amount"] = k.Cap.StringFixed(2)
		}
	case Fixed:
		out["discount_value"] = k.Amount.StringFixed(2)
	case FreeItem:
		out["free_item_id"] = k.ItemID
	case FreeItemFromCategory:
		out["free_item_category_id"] = k.CategoryID
	}
	return out
}

func selectionPayload(s *Selection) map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"id":    s.ItemID,
		"name":  s.Name,
		"price": s.Price.StringFixed(2),
	}
}
