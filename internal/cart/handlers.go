package cart

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/pricing"
)

// Handler exposes the cart over HTTP.
type Handler struct {
	Svc *Service
}

type addRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int32  `json:"quantity" validate:"omitempty,min=1,max=50"`
}

type updateRequest struct {
	Quantity *int32 `json:"quantity" validate:"required,max=50"`
}

// Get renders the caller's cart.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return
	}
	view, err := h.Svc.View(r.Context(), userID)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": viewPayload(view)})
}

// AddItem adds an item or increments its quantity.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return
	}
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, err)
		return
	}
	line, err := h.Svc.AddItem(r.Context(), userID, req.ItemID, req.Quantity)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"id":       common.UUIDString(line.ID),
			"item_id":  common.UUIDString(line.ItemID),
			"quantity": line.Quantity,
		},
	})
}

// UpdateItem changes a line's quantity; zero removes it.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Svc.UpdateQuantity(r.Context(), userID, chi.URLParam(r, "id"), *req.Quantity); err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	h.Get(w, r)
}

// RemoveItem deletes a line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return
	}
	if err := h.Svc.RemoveItem(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func viewPayload(v View) map[string]any {
	items := make([]map[string]any, 0, len(v.Lines))
	for _, l := range v.Lines {
		sub := l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
		tax := pricing.Tax(sub, l.GSTRate)
		entry := map[string]any{
			"id":           l.ID,
			"item_id":      l.ItemID,
			"name":         l.Name,
			"price":        l.UnitPrice.StringFixed(2),
			"quantity":     l.Quantity,
			"is_combo":     l.IsCombo,
			"is_available": l.Available,
			"gst_rate":     l.GSTRate.StringFixed(2),
			"subtotal":     sub.StringFixed(2),
			"tax":          tax.StringFixed(2),
			"total":        sub.Add(tax).StringFixed(2),
			"image":        nullable(l.ImageURL),
		}
		if l.IsCombo {
			parts := make([]map[string]any, 0, len(l.Components))
			for _, c := range l.Components {
				parts = append(parts, map[string]any{
					"item_id":  c.ItemID,
					"name":     c.Name,
					"quantity": c.Quantity,
					"price":    c.Price.StringFixed(2),
				})
			}
			entry["combo_items"] = parts
		}
		items = append(items, entry)
	}
	return map[string]any{
		"items": items,
		"summary": map[string]any{
			"subtotal":     v.Subtotal.StringFixed(2),
			"total_tax":    v.Tax.StringFixed(2),
			"platform_fee": v.PlatformFee.StringFixed(2),
			"total":        v.Total.StringFixed(2),
			"item_count":   v.ItemCount,
		},
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
