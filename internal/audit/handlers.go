package audit

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// Handler serves the admin audit trail.
type Handler struct {
	Store Store
}

type logView struct {
	ID           string          `json:"id"`
	ActorKind    string          `json:"actor_kind"`
	ActorID      string          `json:"actor_id,omitempty"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id,omitempty"`
	Route        string          `json:"route,omitempty"`
	Status       int32           `json:"status"`
	IP           string          `json:"ip,omitempty"`
	RequestID    string          `json:"request_id,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

func toLogView(l dbgen.AuditLog) logView {
	v := logView{
		ID:           common.UUIDString(l.ID),
		ActorKind:    l.ActorKind,
		ActorID:      common.UUIDString(l.ActorUserID),
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID.String,
		Route:        l.Route.String,
		Status:       l.Status,
		IP:           l.Ip.String,
		RequestID:    l.RequestID.String,
		OccurredAt:   l.OccurredAt.Time,
	}
	if len(l.Metadata) > 0 && json.Valid(l.Metadata) {
		v.Metadata = l.Metadata
	}
	return v
}

// List handles GET /api/v1/admin/audit-logs?resource_type=coupon&page=1&limit=50.
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusServiceUnavailable, "AUDIT_DISABLED", "Audit trail is not enabled", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 50, 200)
	params := dbgen.ListAuditLogsParams{Limit: int32(perPage), Offset: common.Offset(page, perPage)}
	if rt := strings.TrimSpace(r.URL.Query().Get("resource_type")); rt != "" {
		params.ResourceType = common.Text(rt)
	}
	rows, err := h.Store.ListAuditLogs(r.Context(), params)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	out := make([]logView, 0, len(rows))
	for _, row := range rows {
		out = append(out, toLogView(row))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       out,
		"pagination": map[string]int{"page": page, "per_page": perPage},
	})
}
