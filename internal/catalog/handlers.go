package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-food/internal/common"
)

// Handler exposes public and admin catalog endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// Home handles GET /api/v1/home.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	home, err := h.service.Home(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": home})
}

// Combos handles GET /api/v1/combos.
func (h *Handler) Combos(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	combos, err := h.service.Combos(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": combos})
}

// Item handles GET /api/v1/items/{id}.
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	item, err := h.service.Item(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

// AdminItems handles GET /api/v1/admin/items.
func (h *Handler) AdminItems(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	items, err := h.service.AdminItems(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// AdminCategories handles GET /api/v1/admin/categories.
func (h *Handler) AdminCategories(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	cats, err := h.service.AdminCategories(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": cats})
}

// CreateCategory handles POST /api/v1/admin/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in CategoryInput
	if !h.decode(w, r, &in) {
		return
	}
	cat, err := h.service.CreateCategory(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": cat})
}

// UpdateCategory handles PUT /api/v1/admin/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in CategoryInput
	if !h.decode(w, r, &in) {
		return
	}
	cat, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": cat})
}

// CreateItem handles POST /api/v1/admin/items.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var in ItemInput
	if !h.decode(w, r, &in) {
		return
	}
	item, err := h.service.CreateItem(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": item})
}

// UpdateItem handles PUT /api/v1/admin/items/{id}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var in ItemInput
	if !h.decode(w, r, &in) {
		return
	}
	item, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// SetAvailability handles PATCH /api/v1/admin/items/{id}/availability.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var in availabilityRequest
	if !h.decode(w, r, &in) {
		return
	}
	item, err := h.service.SetAvailability(r.Context(), chi.URLParam(r, "id"), *in.IsAvailable)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

type componentsRequest struct {
	Components []ComponentInput `json:"components" validate:"required,min=1,dive"`
}

// SetComboComponents handles PUT /api/v1/admin/items/{id}/components.
func (h *Handler) SetComboComponents(w http.ResponseWriter, r *http.Request) {
	var in componentsRequest
	if !h.decode(w, r, &in) {
		return
	}
	item, err := h.service.SetComboComponents(r.Context(), chi.URLParam(r, "id"), in.Components)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog service not configured", nil)
		return false
	}
	return true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !h.ready(w) {
		return false
	}
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

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	common.WriteError(w, AsAppError(err))
}
