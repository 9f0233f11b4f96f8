package appversion

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/backend-food/internal/common"
)

// Handler serves the version check and the admin publish endpoint.
type Handler struct {
	Svc *Service
}

// Check handles GET /api/v1/app/version?platform=&version=.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "app version service not configured", nil)
		return
	}
	q := r.URL.Query()
	res, err := h.Svc.Check(r.Context(), q.Get("platform"), q.Get("version"))
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": res})
}

// Publish handles POST /api/v1/admin/app/versions.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "app version service not configured", nil)
		return
	}
	var in PublishInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return
	}
	if err := common.Validate(in); err != nil {
		common.WriteError(w, err)
		return
	}
	rel, err := h.Svc.Publish(r.Context(), in)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": rel})
}
