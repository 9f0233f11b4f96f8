package coupon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-food/internal/cart"
	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/obs"
	"github.com/noah-isme/backend-food/internal/pricing"
)

var (
	// ErrNotFound indicates no coupon matches the given code or id.
	ErrNotFound = errors.New("coupon: not found")
	// ErrSelectionRequired indicates a category coupon was applied without picking the free item.
	ErrSelectionRequired = errors.New("coupon: free item selection required")
	// ErrCodeRequired indicates an empty coupon code.
	ErrCodeRequired = errors.New("coupon: code required")
)

// Querier lists the queries used to evaluate coupons.
type Querier interface {
	GetCouponByID(ctx context.Context, id pgtype.UUID) (dbgen.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (dbgen.Coupon, error)
	ListActiveCoupons(ctx context.Context, now pgtype.Timestamptz) ([]dbgen.Coupon, error)
	CountOrdersForUser(ctx context.Context, userID pgtype.UUID) (int64, error)
	GetItemWithCategory(ctx context.Context, id pgtype.UUID) (dbgen.GetItemWithCategoryRow, error)
	ListComboComponents(ctx context.Context, comboIds []pgtype.UUID) ([]dbgen.ListComboComponentsRow, error)
	ListAvailableItemsByCategory(ctx context.Context, categoryID pgtype.UUID) ([]dbgen.Item, error)
}

// Redeemer is satisfied by transaction-bound queries.
type Redeemer interface {
	RedeemCoupon(ctx context.Context, id pgtype.UUID) (int64, error)
	CreateCouponUsage(ctx context.Context, arg dbgen.CreateCouponUsageParams) (dbgen.CouponUsage, error)
}

// CartLoader returns the caller's priced cart lines.
type CartLoader interface {
	Lines(ctx context.Context, userID string) ([]cart.Line, error)
}

// Service evaluates coupons for customers. Nothing here changes a coupon's usage count except Redeem.
type Service struct {
	Q    Querier
	Cart CartLoader
	Now  func() time.Time
}

// Validation is the outcome of checking a code against a subtotal.
type Validation struct {
	Coupon            Coupon
	Discount          decimal.Decimal
	SelectionRequired bool
	Items             []Selection
}

// Preview is the outcome of applying a coupon to the current cart.
type Preview struct {
	Coupon   Coupon
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	FreeItem *Selection
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Available lists coupons the user could apply right now.
func (s *Service) Available(ctx context.Context, userID string) ([]Coupon, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("coupon: %w", err)
	}
	now := s.now()
	rows, err := s.Q.ListActiveCoupons(ctx, common.Timestamptz(now))
	if err != nil {
		return nil, fmt.Errorf("list active coupons: %w", err)
	}
	prior, err := s.Q.CountOrdersForUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	out := make([]Coupon, 0, len(rows))
	for _, row := range rows {
		c := FromModel(row)
		if c.Validate(now) != nil || c.CheckEligibility(prior) != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ValidateCode checks a code for the user against a client-reported subtotal. Category coupons
// return the selectable items instead of a discount.
func (s *Service) ValidateCode(ctx context.Context, userID, code string, subtotal decimal.Decimal) (Validation, error) {
	code = NormalizeCode(code)
	if code == "" {
		return Validation{}, ErrCodeRequired
	}
	row, err := s.Q.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			obs.Inc(obs.CouponEvaluationsTotal, "validate", "not_found")
			return Validation{}, ErrNotFound
		}
		return Validation{}, fmt.Errorf("load coupon: %w", err)
	}
	c := FromModel(row)
	prior, err := s.priorOrders(ctx, userID)
	if err != nil {
		return Validation{}, err
	}
	app := Application{Coupon: c, PriorOrders: prior}
	res := Validation{Coupon: c, Discount: decimal.Zero}

	if k, ok := c.Kind.(FreeItemFromCategory); ok {
		if err := s.precheck(app, subtotal); err != nil {
			return Validation{}, s.reject("validate", err)
		}
		res.SelectionRequired = true
		if res.Items, err = s.categoryItems(ctx, k.CategoryID); err != nil {
			return Validation{}, err
		}
		obs.Inc(obs.CouponEvaluationsTotal, "validate", "ok")
		return res, nil
	}
	if k, ok := c.Kind.(FreeItem); ok && k.ItemID != "" {
		if app.Selection, err = s.selection(ctx, k.ItemID); err != nil {
			return Validation{}, err
		}
		if app.Selection != nil {
			res.Items = []Selection{*app.Selection}
		}
	}
	if res.Discount, err = app.Apply(s.now(), subtotal); err != nil {
		return Validation{}, s.reject("validate", err)
	}
	obs.Inc(obs.CouponEvaluationsTotal, "validate", "ok")
	return res, nil
}

// Apply previews a coupon against the user's current cart without redeeming it.
func (s *Service) Apply(ctx context.Context, userID, couponID, selectedItemID string) (Preview, error) {
	if s.Cart == nil {
		return Preview{}, errors.New("coupon: cart loader not configured")
	}
	app, err := s.Resolve(ctx, userID, couponID, selectedItemID)
	if err != nil {
		return Preview{}, s.reject("apply", err)
	}
	lines, err := s.Cart.Lines(ctx, userID)
	if err != nil {
		return Preview{}, err
	}
	subtotal := cart.Subtotal(lines)
	discount, err := app.Apply(s.now(), subtotal)
	if err != nil {
		if errors.Is(err, ErrInvalidSelection) && app.Coupon.NeedsSelection() && app.Selection == nil {
			err = ErrSelectionRequired
		}
		return Preview{}, s.reject("apply", err)
	}
	obs.Inc(obs.CouponEvaluationsTotal, "apply", "ok")
	return Preview{Coupon: app.Coupon, Subtotal: subtotal, Discount: discount, FreeItem: app.FreeLine()}, nil
}

// Resolve loads a coupon, the user's order history and the free item selection into an
// Application ready for pricing. Validity is checked when the application is applied; a
// category coupon without a usable selection then fails with ErrInvalidSelection.
func (s *Service) Resolve(ctx context.Context, userID, couponID, selectedItemID string) (*Application, error) {
	id, err := common.ParseUUID(couponID)
	if err != nil {
		return nil, ErrNotFound
	}
	row, err := s.Q.GetCouponByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load coupon: %w", err)
	}
	c := FromModel(row)
	prior, err := s.priorOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	app := &Application{Coupon: c, PriorOrders: prior}

	switch k := c.Kind.(type) {
	case FreeItem:
		if k.ItemID != "" {
			if app.Selection, err = s.selection(ctx, k.ItemID); err != nil {
				return nil, err
			}
		}
	case FreeItemFromCategory:
		selectedItemID = strings.TrimSpace(selectedItemID)
		if selectedItemID == "" {
			break
		}
		if app.Selection, err = s.selection(ctx, selectedItemID); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Redeem consumes one use of the coupon and records the usage for orderID. It must run on
// the queries of the transaction that creates the order.
func (s *Service) Redeem(ctx context.Context, q Redeemer, userID, couponID, orderID pgtype.UUID, discount decimal.Decimal) error {
	n, err := q.RedeemCoupon(ctx, couponID)
	if err != nil {
		return fmt.Errorf("redeem coupon: %w", err)
	}
	if n == 0 {
		obs.Inc(obs.CouponEvaluationsTotal, "redeem", "exhausted")
		return ErrUsageLimit
	}
	if _, err := q.CreateCouponUsage(ctx, dbgen.CreateCouponUsageParams{
		UserID:         userID,
		CouponID:       couponID,
		OrderID:        orderID,
		DiscountAmount: pricing.Money(discount),
	}); err != nil {
		return fmt.Errorf("record coupon usage: %w", err)
	}
	obs.Inc(obs.CouponEvaluationsTotal, "redeem", "ok")
	return nil
}

// precheck runs every rule that does not depend on the free item.
func (s *Service) precheck(app Application, subtotal decimal.Decimal) error {
	if err := app.Coupon.Validate(s.now()); err != nil {
		return err
	}
	if err := app.Coupon.CheckEligibility(app.PriorOrders); err != nil {
		return err
	}
	if subtotal.LessThan(app.Coupon.MinOrderAmount) {
		return &MinimumOrderError{Minimum: app.Coupon.MinOrderAmount}
	}
	return nil
}

func (s *Service) priorOrders(ctx context.Context, userID string) (int64, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return 0, fmt.Errorf("coupon: %w", err)
	}
	n, err := s.Q.CountOrdersForUser(ctx, uid)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// selection resolves an item into a Selection with its effective price. A missing item yields nil.
func (s *Service) selection(ctx context.Context, itemID string) (*Selection, error) {
	id, err := common.ParseUUID(itemID)
	if err != nil {
		return nil, nil
	}
	item, err := s.Q.GetItemWithCategory(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load free item: %w", err)
	}
	var parts []pricing.Component
	if item.IsCombo {
		rows, err := s.Q.ListComboComponents(ctx, []pgtype.UUID{item.ID})
		if err != nil {
			return nil, fmt.Errorf("list combo components: %w", err)
		}
		for _, r := range rows {
			parts = append(parts, pricing.Component{Price: r.ItemPrice, Quantity: r.Quantity})
		}
	}
	return &Selection{
		ItemID:     common.UUIDString(item.ID),
		Name:       item.Name,
		CategoryID: common.UUIDString(item.CategoryID),
		Available:  item.IsAvailable,
		Price:      pricing.EffectivePrice(item.Price, item.IsCombo, parts),
	}, nil
}

func (s *Service) categoryItems(ctx context.Context, categoryID string) ([]Selection, error) {
	id, err := common.ParseUUID(categoryID)
	if err != nil {
		return nil, fmt.Errorf("coupon category: %w", err)
	}
	items, err := s.Q.ListAvailableItemsByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list category items: %w", err)
	}
	out := make([]Selection, 0, len(items))
	for _, it := range items {
		out = append(out, Selection{
			ItemID:     common.UUIDString(it.ID),
			Name:       it.Name,
			CategoryID: categoryID,
			Available:  it.IsAvailable,
			Price:      it.Price,
		})
	}
	return out, nil
}

func (s *Service) reject(stage string, err error) error {
	var rej *Rejection
	var minErr *MinimumOrderError
	switch {
	case errors.As(err, &minErr):
		minErr.Preview = true
		obs.Inc(obs.CouponEvaluationsTotal, stage, ErrMinimumOrder.Code)
	case errors.As(err, &rej):
		obs.Inc(obs.CouponEvaluationsTotal, stage, rej.Code)
	}
	return err
}

// AsAppError maps coupon errors onto API errors.
func AsAppError(err error) error {
	if err == nil {
		return nil
	}
	var minErr *MinimumOrderError
	if errors.As(err, &minErr) {
		return common.NewAppError(ErrMinimumOrder.Code, minErr.Error(), http.StatusBadRequest, err)
	}
	var rej *Rejection
	if errors.As(err, &rej) {
		return common.NewAppError(rej.Code, rej.Message, http.StatusBadRequest, err)
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return common.NewAppError("COUPON_NOT_FOUND", "Invalid coupon", http.StatusNotFound, err)
	case errors.Is(err, ErrSelectionRequired):
		return common.NewAppError("FREE_ITEM_REQUIRED", "Please select a free item", http.StatusBadRequest, err)
	case errors.Is(err, ErrCodeRequired):
		return common.NewAppError("COUPON_CODE_REQUIRED", "Coupon code is required", http.StatusBadRequest, err)
	}
	return err
}
