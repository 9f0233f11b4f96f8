package coupon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// AdminQuerier lists the queries used by coupon administration.
type AdminQuerier interface {
	ListCoupons(ctx context.Context, arg dbgen.ListCouponsParams) ([]dbgen.Coupon, error)
	CountCoupons(ctx context.Context) (int64, error)
	GetCouponByID(ctx context.Context, id pgtype.UUID) (dbgen.Coupon, error)
	CreateCoupon(ctx context.Context, arg dbgen.CreateCouponParams) (dbgen.Coupon, error)
	UpdateCoupon(ctx context.Context, arg dbgen.UpdateCouponParams) (dbgen.Coupon, error)
	DeleteCoupon(ctx context.Context, id pgtype.UUID) (int64, error)
	ListCouponUsages(ctx context.Context, arg dbgen.ListCouponUsagesParams) ([]dbgen.ListCouponUsagesRow, error)
	CountCouponUsages(ctx context.Context, couponID pgtype.UUID) (int64, error)
}

// AdminHandler exposes coupon management for staff.
type AdminHandler struct {
	Q   AdminQuerier
	Now func() time.Time
}

type adminPayload struct {
	Code                  string           `json:"code" validate:"omitempty,max=50"`
	Description           string           `json:"description" validate:"max=500"`
	DiscountType          string           `json:"discount_type" validate:"required,oneof=percentage fixed free_item"`
	DiscountValue         *decimal.Decimal `json:"discount_value"`
	FreeItemID            string           `json:"free_item_id" validate:"omitempty,uuid"`
	FreeItemCategoryID    string           `json:"free_item_category_id" validate:"omitempty,uuid"`
	MinOrderAmount        *decimal.Decimal `json:"min_order_amount"`
	MaxDiscountAmount     *decimal.Decimal `json:"max_discount_amount"`
	ForFirstTimeUsersOnly bool             `json:"for_first_time_users_only"`
	MaxUses               *int32           `json:"max_uses" validate:"omitempty,min=1"`
	ValidFrom             *time.Time       `json:"valid_from"`
	ValidUntil            *time.Time       `json:"valid_until"`
	IsActive              *bool            `json:"is_active"`
}

// rules is the validated, typed form of an adminPayload.
type rules struct {
	DiscountType       dbgen.DiscountType
	DiscountValue      decimal.NullDecimal
	FreeItemID         pgtype.UUID
	FreeItemCategoryID pgtype.UUID
	MinOrderAmount     decimal.Decimal
	MaxDiscountAmount  decimal.NullDecimal
	MaxUses            pgtype.Int4
	ValidFrom          pgtype.Timestamptz
	ValidUntil         pgtype.Timestamptz
	IsActive           bool
}

func (h *AdminHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// List returns a page of coupons.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "coupon queries not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20, 100)
	rows, err := h.Q.ListCoupons(r.Context(), dbgen.ListCouponsParams{
		Limit:  int32(perPage),
		Offset: common.Offset(page, perPage),
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unable to list coupons", nil)
		return
	}
	total, err := h.Q.CountCoupons(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unable to count coupons", nil)
		return
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, adminView(row))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       out,
		"pagination": common.BuildPagination(page, perPage, total),
	})
}

// Usages lists coupon redemptions, newest first, optionally for one coupon.
func (h *AdminHandler) Usages(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "coupon queries not configured", nil)
		return
	}
	var couponID pgtype.UUID
	if raw := r.URL.Query().Get("coupon_id"); raw != "" {
		id, err := common.ParseUUID(raw)
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid coupon_id", nil)
			return
		}
		couponID = id
	}
	page, perPage := common.ParsePagination(r, 20, 100)
	rows, err := h.Q.ListCouponUsages(r.Context(), dbgen.ListCouponUsagesParams{
		Limit:    int32(perPage),
		Offset:   common.Offset(page, perPage),
		CouponID: couponID,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unable to list coupon usages", nil)
		return
	}
	total, err := h.Q.CountCouponUsages(r.Context(), couponID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unable to count coupon usages", nil)
		return
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, usageView(row))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       out,
		"pagination": common.BuildPagination(page, perPage, total),
	})
}

// Get returns a single coupon.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "coupon queries not configured", nil)
		return
	}
	id, err := common.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid coupon id", nil)
		return
	}
	row, err := h.Q.GetCouponByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "coupon not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "unable to load coupon", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": adminView(row)})
}

// Create inserts a coupon. Codes are stored uppercased.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "coupon queries not configured", nil)
		return
	}
	payload, ok := decodeAdminPayload(w, r)
	if !ok {
		return
	}
	code := NormalizeCode(payload.Code)
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid payload", map[string]string{"code": "required"})
		return
	}
	rl, err := buildRules(payload, h.now())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	row, err := h.Q.CreateCoupon(r.Context(), dbgen.CreateCouponParams{
		Code:                  code,
		Description:           common.Text(payload.Description),
		DiscountType:          rl.DiscountType,
		DiscountValue:         rl.DiscountValue,
		FreeItemID:            rl.FreeItemID,
		FreeItemCategoryID:    rl.FreeItemCategoryID,
		MinOrderAmount:        rl.MinOrderAmount,
		MaxDiscountAmount:     rl.MaxDiscountAmount,
		ForFirstTimeUsersOnly: payload.ForFirstTimeUsersOnly,
		MaxUses:               rl.MaxUses,
		ValidFrom:             rl.ValidFrom,
		ValidUntil:            rl.ValidUntil,
		IsActive:              rl.IsActive,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			common.JSONError(w, http.StatusConflict, common.CodeConflict, "coupon code already exists", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to create coupon", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": adminView(row)})
}

// Update replaces a coupon's rules. The code cannot change.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "coupon queries not configured", nil)
		return
	}
	id, err := common.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid coupon id", nil)
		return
	}
	payload, ok := decodeAdminPayload(w, r)
	if !ok {
		return
	}
	rl, err := buildRules(payload, h.now())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	row, err := h.Q.UpdateCoupon(r.Context(), dbgen.UpdateCouponParams{
		ID:                    id,
		Description:           common.Text(payload.Description),
		DiscountType:          rl.DiscountType,
		DiscountValue:         rl.DiscountValue,
		FreeItemID:            rl.FreeItemID,
		FreeItemCategoryID:    rl.FreeItemCategoryID,
		MinOrderAmount:        rl.MinOrderAmount,
		MaxDiscountAmount:     rl.MaxDiscountAmount,
		ForFirstTimeUsersOnly: payload.ForFirstTimeUsersOnly,
		MaxUses:               rl.MaxUses,
		ValidFrom:             rl.ValidFrom,
		ValidUntil:            rl.ValidUntil,
		IsActive:              rl.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "coupon not found", nil)
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			common.JSONError(w, http.StatusConflict, common.CodeConflict, "max_uses is below the current usage", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to update coupon", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": adminView(row)})
}

// Delete removes a coupon.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "coupon queries not configured", nil)
		return
	}
	id, err := common.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid coupon id", nil)
		return
	}
	n, err := h.Q.DeleteCoupon(r.Context(), id)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to delete coupon", nil)
		return
	}
	if n == 0 {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "coupon not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeAdminPayload(w http.ResponseWriter, r *http.Request) (adminPayload, bool) {
	var payload adminPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		return payload, false
	}
	if err := common.Validate(payload); err != nil {
		common.WriteError(w, err)
		return payload, false
	}
	return payload, true
}

func invalid(field, rule string) error {
	appErr := common.NewAppError(common.CodeValidation, "invalid payload", http.StatusBadRequest, nil)
	appErr.Details = map[string]string{field: rule}
	return appErr
}

// buildRules checks the cross-field constraints of a coupon definition.
func buildRules(p adminPayload, now time.Time) (rules, error) {
	rl := rules{DiscountType: dbgen.DiscountType(p.DiscountType), MinOrderAmount: decimal.Zero, IsActive: true}
	switch rl.DiscountType {
	case dbgen.DiscountTypePercentage, dbgen.DiscountTypeFixed:
		if p.DiscountValue == nil || !p.DiscountValue.IsPositive() {
			return rules{}, invalid("discount_value", "gt=0")
		}
		if rl.DiscountType == dbgen.DiscountTypePercentage && p.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return rules{}, invalid("discount_value", "lte=100")
		}
		rl.DiscountValue = decimal.NewNullDecimal(*p.DiscountValue)
		if p.MaxDiscountAmount != nil {
			if !p.MaxDiscountAmount.IsPositive() {
				return rules{}, invalid("max_discount_amount", "gt=0")
			}
			rl.MaxDiscountAmount = decimal.NewNullDecimal(*p.MaxDiscountAmount)
		}
	case dbgen.DiscountTypeFreeItem:
		if (p.FreeItemID == "") == (p.FreeItemCategoryID == "") {
			return rules{}, invalid("free_item_id", "required_without_category")
		}
		if p.FreeItemID != "" {
			rl.FreeItemID, _ = common.ParseUUID(p.FreeItemID)
		} else {
			rl.FreeItemCategoryID, _ = common.ParseUUID(p.FreeItemCategoryID)
		}
	}
	if p.MinOrderAmount != nil {
		if p.MinOrderAmount.IsNegative() {
			return rules{}, invalid("min_order_amount", "gte=0")
		}
		rl.MinOrderAmount = *p.MinOrderAmount
	}
	if p.MaxUses != nil {
		rl.MaxUses = pgtype.Int4{Int32: *p.MaxUses, Valid: true}
	}
	from := now
	if p.ValidFrom != nil {
		from = *p.ValidFrom
	}
	rl.ValidFrom = common.Timestamptz(from)
	if p.ValidUntil != nil {
		if !p.ValidUntil.After(from) {
			return rules{}, invalid("valid_until", "gtfield=ValidFrom")
		}
		rl.ValidUntil = common.Timestamptz(*p.ValidUntil)
	}
	if p.IsActive != nil {
		rl.IsActive = *p.IsActive
	}
	return rl, nil
}

func adminView(row dbgen.Coupon) map[string]any {
	c := FromModel(row)
	out := couponPayload(c)
	out["is_active"] = row.IsActive
	out["used_count"] = row.UsedCount
	out["valid_from"] = row.ValidFrom.Time.UTC().Format(time.RFC3339)
	out["created_at"] = row.CreatedAt.Time.UTC().Format(time.RFC3339)
	if row.MaxUses.Valid {
		out["max_uses"] = row.MaxUses.Int32
	} else {
		out["max_uses"] = nil
	}
	return out
}

func usageView(row dbgen.ListCouponUsagesRow) map[string]any {
	name := row.UserName.String
	if name == "" {
		name = row.UserMobile.String
	}
	return map[string]any{
		"id":              common.UUIDString(row.ID),
		"user":            common.UUIDString(row.UserID),
		"user_name":       name,
		"coupon":          common.UUIDString(row.CouponID),
		"coupon_code":     row.CouponCode,
		"order":           common.UUIDString(row.OrderID),
		"discount_amount": row.DiscountAmount.StringFixed(2),
		"used_at":         row.UsedAt.Time.UTC().Format(time.RFC3339),
	}
}
