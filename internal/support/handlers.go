package support

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-food/internal/common"
)

// Handler serves customer support endpoints.
type Handler struct {
	Svc *Service
}

type messageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

// Create handles POST /api/v1/support/tickets.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var in CreateInput
	if !decode(w, r, &in) {
		return
	}
	thread, err := h.Svc.Create(r.Context(), userID, in)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": thread})
}

// List handles GET /api/v1/support/tickets.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	tickets, err := h.Svc.List(r.Context(), userID)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": tickets})
}

// Messages handles GET /api/v1/support/tickets/{id}/messages.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	thread, err := h.Svc.Thread(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": thread})
}

// Post handles POST /api/v1/support/tickets/{id}/messages.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var in messageRequest
	if !decode(w, r, &in) {
		return
	}
	msg, err := h.Svc.Post(r.Context(), userID, chi.URLParam(r, "id"), in.Message)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": msg})
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "support service not configured", nil)
		return "", false
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return "", false
	}
	return userID, true
}

// AdminHandler serves staff support endpoints.
type AdminHandler struct {
	Svc *Service
}

// List handles GET /api/v1/admin/support/tickets?status=.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	page, perPage := common.ParsePagination(r, 20, 100)
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	tickets, err := h.Svc.AdminList(r.Context(), status, page, perPage)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       tickets,
		"pagination": map[string]int{"page": page, "per_page": perPage},
	})
}

// Get handles GET /api/v1/admin/support/tickets/{id}.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	thread, err := h.Svc.AdminThread(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": thread})
}

// Reply handles POST /api/v1/admin/support/tickets/{id}/messages.
func (h *AdminHandler) Reply(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var in messageRequest
	if !decode(w, r, &in) {
		return
	}
	msg, err := h.Svc.Reply(r.Context(), chi.URLParam(r, "id"), in.Message)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": msg})
}

// SetStatus handles PATCH /api/v1/admin/support/tickets/{id}/status.
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var in statusRequest
	if !decode(w, r, &in) {
		return
	}
	ticket, err := h.Svc.SetStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ticket})
}

func (h *AdminHandler) ready(w http.ResponseWriter) bool {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "support service not configured", nil)
		return false
	}
	return true
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
