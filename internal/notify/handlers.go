package notify

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/backend-food/internal/common"
)

// Handler exposes device token endpoints for customers and riders.
type Handler struct {
	Tokens *TokenService
}

// Register handles POST /api/v1/push/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Tokens == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "push service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return
	}
	var in RegisterInput
	if !decode(w, r, &in) {
		return
	}
	row, err := h.Tokens.Register(r.Context(), Owner{ID: userID, Role: common.Role(r.Context())}, in)
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"message": "Push token registered successfully",
		"data": map[string]any{
			"push_token":  row.Token,
			"device_type": row.Platform.String,
		},
	})
}

type unregisterRequest struct {
	Token string `json:"push_token" validate:"required"`
}

// Unregister handles POST /api/v1/push/unregister.
func (h *Handler) Unregister(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Tokens == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "push service not configured", nil)
		return
	}
	if _, ok := common.UserID(r.Context()); !ok {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return
	}
	var in unregisterRequest
	if !decode(w, r, &in) {
		return
	}
	if err := h.Tokens.Unregister(r.Context(), in.Token); err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"message": "Push token unregistered successfully"})
}

// AdminHandler exposes broadcast endpoints.
type AdminHandler struct {
	Broadcaster *Broadcaster
}

type broadcastRequest struct {
	Title    string         `json:"title" validate:"required,max=100"`
	Body     string         `json:"body" validate:"required,max=500"`
	Platform string         `json:"platform" validate:"omitempty,oneof=all android ios"`
	Data     map[string]any `json:"data"`
}

// Broadcast handles POST /api/v1/admin/push/broadcast.
func (h *AdminHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Broadcaster == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "push service not configured", nil)
		return
	}
	var in broadcastRequest
	if !decode(w, r, &in) {
		return
	}
	err := h.Broadcaster.Broadcast(r.Context(), BroadcastTask{
		Title:    in.Title,
		Body:     in.Body,
		Platform: in.Platform,
		Data:     in.Data,
	})
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.JSON(w, http.StatusAccepted, map[string]any{"message": "Broadcast queued"})
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
