package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

type stubStore struct {
	inserts    []dbgen.InsertAuditLogParams
	rows       []dbgen.AuditLog
	listParams dbgen.ListAuditLogsParams
}

func (s *stubStore) InsertAuditLog(_ context.Context, arg dbgen.InsertAuditLogParams) error {
	s.inserts = append(s.inserts, arg)
	return nil
}

func (s *stubStore) ListAuditLogs(_ context.Context, arg dbgen.ListAuditLogsParams) ([]dbgen.AuditLog, error) {
	s.listParams = arg
	return s.rows, nil
}

func TestServiceRecord(t *testing.T) {
	store := &stubStore{}
	svc := &Service{Store: store, Enabled: true}
	adminID := uuid.NewString()

	req := httptest.NewRequest(http.MethodPatch, "https://api.test/api/v1/admin/orders/abc/status?notify=1", nil)
	req.Header.Set("User-Agent", "tester")
	req.Header.Set("X-Request-ID", "req-123")
	req.RemoteAddr = "10.0.0.2:54321"
	ctx := common.WithRole(common.WithUserID(req.Context(), adminID), common.RoleAdmin)
	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{"/api/v1/*", "/admin/orders/{id}/status"}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	req = req.WithContext(ctx)

	err := svc.Record(req.Context(), req, Entry{Actor: ActorFromRequest(req), ResourceID: "abc", Status: http.StatusOK})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(store.inserts) != 1 {
		t.Fatalf("expected one insert, got %d", len(store.inserts))
	}
	got := store.inserts[0]
	if got.ActorKind != string(ActorAdmin) {
		t.Fatalf("unexpected actor kind: %s", got.ActorKind)
	}
	if common.UUIDString(got.ActorUserID) != adminID {
		t.Fatalf("unexpected actor id: %s", common.UUIDString(got.ActorUserID))
	}
	if got.Action != "PATCH /api/v1/admin/orders/{id}/status" {
		t.Fatalf("unexpected action: %s", got.Action)
	}
	if got.ResourceType != "admin.orders.status" {
		t.Fatalf("unexpected resource type: %s", got.ResourceType)
	}
	if got.Ip.String != "10.0.0.2" {
		t.Fatalf("expected ip capture, got %+v", got.Ip)
	}
	if got.RequestID.String != "req-123" {
		t.Fatalf("expected request id, got %+v", got.RequestID)
	}
	var meta map[string]any
	if err := json.Unmarshal(got.Metadata, &meta); err != nil {
		t.Fatalf("metadata json: %v", err)
	}
	if meta["query"] != "notify=1" {
		t.Fatalf("unexpected metadata query: %v", meta["query"])
	}
}

func TestServiceRecordDisabled(t *testing.T) {
	store := &stubStore{}
	svc := &Service{Store: store}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := svc.Record(req.Context(), req, Entry{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(store.inserts) != 0 {
		t.Fatal("expected no insert when disabled")
	}
}

func TestMiddlewareSkipsReads(t *testing.T) {
	store := &stubStore{}
	rec := Recorder{Service: &Service{Store: store, Enabled: true}}
	r := chi.NewRouter()
	r.With(rec.Middleware("coupon")).Get("/coupons/{id}", func(w http.ResponseWriter, _ *http.Request) {})
	r.With(rec.Middleware("coupon")).Put("/coupons/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/coupons/c1", nil))
	if len(store.inserts) != 0 {
		t.Fatalf("GET should not be audited")
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/coupons/c1", nil))
	if len(store.inserts) != 1 {
		t.Fatalf("expected one insert, got %d", len(store.inserts))
	}
	got := store.inserts[0]
	if got.ResourceType != "coupon" || got.ResourceID.String != "c1" || got.Status != http.StatusConflict {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if got.ActorKind != string(ActorAnonymous) {
		t.Fatalf("unexpected actor kind: %s", got.ActorKind)
	}
}
