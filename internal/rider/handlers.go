package rider

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/geo"
)

// Handler exposes the rider app endpoints. Routes must sit behind RequireRole(rider).
type Handler struct {
	Service *Service
}

type deliverRequest struct {
	OTP string `json:"otp" validate:"required,len=4,numeric"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type locationRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

// Assigned handles GET /api/v1/rider/orders.
func (h *Handler) Assigned(w http.ResponseWriter, r *http.Request) {
	riderID, ok := h.rider(w, r)
	if !ok {
		return
	}
	page, perPage := common.ParsePagination(r, 20, 100)
	orders, err := h.Service.Assigned(r.Context(), riderID, page, perPage)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orders})
}

// Ready handles GET /api/v1/rider/orders/ready.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.rider(w, r); !ok {
		return
	}
	orders, err := h.Service.Ready(r.Context())
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orders})
}

// Accept handles POST /api/v1/rider/orders/{id}/accept.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	riderID, ok := h.rider(w, r)
	if !ok {
		return
	}
	o, err := h.Service.Accept(r.Context(), riderID, chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": o})
}

// Deliver handles POST /api/v1/rider/orders/{id}/deliver.
func (h *Handler) Deliver(w http.ResponseWriter, r *http.Request) {
	riderID, ok := h.rider(w, r)
	if !ok {
		return
	}
	var req deliverRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.Service.Deliver(r.Context(), riderID, chi.URLParam(r, "id"), req.OTP)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": o, "message": "Order delivered"})
}

// UpdateStatus handles POST /api/v1/rider/orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	riderID, ok := h.rider(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.Service.UpdateStatus(r.Context(), riderID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": o})
}

// UpdateLocation handles POST /api/v1/rider/location.
func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	riderID, ok := h.rider(w, r)
	if !ok {
		return
	}
	var req locationRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := h.Service.UpdateLocation(r.Context(), riderID, geo.Point{Lat: *req.Lat, Lng: *req.Lng})
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"updated_orders": n}})
}

func (h *Handler) rider(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "rider service not configured", nil)
		return "", false
	}
	id, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return "", false
	}
	return id, true
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
