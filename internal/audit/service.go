// Package audit records who changed what through the admin and rider APIs.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// ActorKind is the role of whoever performed an audited action.
type ActorKind string

// Actor kinds.
const (
	ActorAdmin     ActorKind = "admin"
	ActorRider     ActorKind = "rider"
	ActorCustomer  ActorKind = "customer"
	ActorSystem    ActorKind = "system"
	ActorAnonymous ActorKind = "anonymous"
)

// Actor describes the entity performing the action.
type Actor struct {
	Kind ActorKind
	ID   string
}

// ActorFromRequest derives the actor from the authenticated subject on r.
func ActorFromRequest(r *http.Request) Actor {
	id, ok := common.UserID(r.Context())
	if !ok || id == "" {
		return Actor{Kind: ActorAnonymous}
	}
	switch common.Role(r.Context()) {
	case common.RoleAdmin:
		return Actor{Kind: ActorAdmin, ID: id}
	case common.RoleRider:
		return Actor{Kind: ActorRider, ID: id}
	default:
		return Actor{Kind: ActorCustomer, ID: id}
	}
}

// Store is the persistence used for audit entries.
type Store interface {
	InsertAuditLog(ctx context.Context, arg dbgen.InsertAuditLogParams) error
	ListAuditLogs(ctx context.Context, arg dbgen.ListAuditLogsParams) ([]dbgen.AuditLog, error)
}

// Entry is one audited action.
type Entry struct {
	Actor        Actor
	Action       string
	ResourceType string
	ResourceID   string
	Status       int
	Metadata     map[string]any
}

// Service persists audit entries.
type Service struct {
	Store   Store
	Enabled bool
}

// Record stores e along with request details taken from r.
func (s *Service) Record(ctx context.Context, r *http.Request, e Entry) error {
	if s == nil || !s.Enabled {
		return nil
	}
	if s.Store == nil {
		return errors.New("audit: store not configured")
	}
	if r == nil {
		return errors.New("audit: request is required")
	}
	route := r.URL.Path
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		route = rc.RoutePattern()
	}
	action := strings.TrimSpace(e.Action)
	if action == "" {
		action = r.Method + " " + route
	}
	resource := strings.TrimSpace(e.ResourceType)
	if resource == "" {
		resource = resourceFromRoute(route)
	}
	kind := e.Actor.Kind
	if kind == "" {
		kind = ActorAnonymous
	}
	status := e.Status
	if status == 0 {
		status = http.StatusOK
	}
	userID, _ := common.ParseUUID(e.Actor.ID)

	requestID := middleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = r.Header.Get("X-Request-ID")
	}

	return s.Store.InsertAuditLog(ctx, dbgen.InsertAuditLogParams{
		ActorKind:    string(kind),
		ActorUserID:  userID,
		Action:       action,
		ResourceType: resource,
		ResourceID:   common.Text(e.ResourceID),
		Method:       r.Method,
		Path:         r.URL.Path,
		Route:        common.Text(route),
		Status:       int32(status),
		Ip:           common.Text(common.ClientIP(r)),
		UserAgent:    common.Text(r.UserAgent()),
		RequestID:    common.Text(requestID),
		Metadata:     metadata(e.Metadata, r.URL.RawQuery),
	})
}

// resourceFromRoute turns "/api/v1/admin/orders/{id}/status" into "admin.orders.status".
func resourceFromRoute(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) >= 2 && parts[0] == "api" && strings.HasPrefix(parts[1], "v") {
		parts = parts[2:]
	}
	kept := parts[:0]
	for _, p := range parts {
		if p == "" || strings.HasPrefix(p, "{") {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return "unknown"
	}
	return strings.Join(kept, ".")
}

func metadata(meta map[string]any, query string) []byte {
	if len(meta) == 0 && strings.TrimSpace(query) == "" {
		return nil
	}
	out := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	if query != "" {
		out["query"] = query
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil
	}
	return data
}
