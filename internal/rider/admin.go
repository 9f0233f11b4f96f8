package rider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/db"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// AdminQuerier lists the queries used by rider administration.
type AdminQuerier interface {
	ListRiders(ctx context.Context) ([]dbgen.Rider, error)
	CreateRider(ctx context.Context, arg dbgen.CreateRiderParams) (dbgen.Rider, error)
	SetRiderActive(ctx context.Context, arg dbgen.SetRiderActiveParams) (dbgen.Rider, error)
	DeleteSessionsForSubject(ctx context.Context, arg dbgen.DeleteSessionsForSubjectParams) error
}

// AdminHandler lets staff onboard riders and switch them on or off.
type AdminHandler struct {
	Q AdminQuerier
}

type createRiderRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Mobile string `json:"mobile" validate:"required,len=10,numeric"`
}

type riderActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// List handles GET /api/v1/admin/riders.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	rows, err := h.Q.ListRiders(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unable to list riders", nil)
		return
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, riderView(row))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// Create handles POST /api/v1/admin/riders.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var req createRiderRequest
	if !decode(w, r, &req) {
		return
	}
	row, err := h.Q.CreateRider(r.Context(), dbgen.CreateRiderParams{
		Name:   strings.TrimSpace(req.Name),
		Mobile: req.Mobile,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			common.JSONError(w, http.StatusConflict, common.CodeConflict, "A rider with this mobile number already exists.", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to create rider", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": riderView(row)})
}

// SetActive handles PATCH /api/v1/admin/riders/{id}. Deactivating a rider
// also revokes their refresh sessions.
func (h *AdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, err := common.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid rider id", nil)
		return
	}
	var req riderActiveRequest
	if !decode(w, r, &req) {
		return
	}
	row, err := h.Q.SetRiderActive(r.Context(), dbgen.SetRiderActiveParams{ID: id, IsActive: *req.IsActive})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "rider not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to update rider", nil)
		return
	}
	if !row.IsActive {
		if err := h.Q.DeleteSessionsForSubject(r.Context(), dbgen.DeleteSessionsForSubjectParams{
			SubjectID: id,
			Role:      common.RoleRider,
		}); err != nil {
			common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to revoke rider sessions", nil)
			return
		}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": riderView(row)})
}

func (h *AdminHandler) ready(w http.ResponseWriter) bool {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "rider queries not configured", nil)
		return false
	}
	return true
}

func riderView(row dbgen.Rider) map[string]any {
	return map[string]any{
		"id":         common.UUIDString(row.ID),
		"name":       row.Name,
		"mobile":     row.Mobile,
		"is_active":  row.IsActive,
		"created_at": timestamp(row.CreatedAt),
	}
}

func timestamp(ts pgtype.Timestamptz) string {
	if !ts.Valid {
		return ""
	}
	return ts.Time.UTC().Format(time.RFC3339)
}
