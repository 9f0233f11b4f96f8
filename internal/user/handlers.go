package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-food/internal/common"
)

// Handler exposes the address book.
type Handler struct {
	Svc *Service
}

// ListAddresses returns the caller's addresses with delivery quotes.
func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	addrs, err := h.Svc.List(r.Context(), userID)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": addrs})
}

// CreateAddress stores a new address for the caller.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req AddressInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, err)
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid payload",
			map[string]string{"latitude": "latitude and longitude must be sent together"})
		return
	}
	addr, err := h.Svc.Create(r.Context(), userID, req)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": addr})
}

// DeleteAddress removes one of the caller's addresses.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "address service not configured", nil)
		return "", false
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return "", false
	}
	return userID, true
}
