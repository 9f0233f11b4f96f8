// Package coupon validates coupons and computes the discount they grant.
package coupon

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// Rejection is a caller-facing reason a coupon cannot be applied.
type Rejection struct {
	Code    string
	Message string
}

func (r *Rejection) Error() string { return r.Message }

var (
	ErrInactive         = &Rejection{Code: "COUPON_INACTIVE", Message: "Coupon is not active"}
	ErrNotYetValid      = &Rejection{Code: "COUPON_NOT_YET_VALID", Message: "Coupon is not yet valid"}
	ErrExpired          = &Rejection{Code: "COUPON_EXPIRED", Message: "Coupon has expired"}
	ErrUsageLimit       = &Rejection{Code: "COUPON_USAGE_LIMIT", Message: "Coupon usage limit reached"}
	ErrFirstTimeOnly    = &Rejection{Code: "COUPON_FIRST_TIME_ONLY", Message: "Coupon is only for first-time users"}
	ErrInvalidSelection = &Rejection{Code: "INVALID_FREE_ITEM", Message: "Invalid free item selection"}
	// ErrMinimumOrder matches every *MinimumOrderError via errors.Is.
	ErrMinimumOrder = &Rejection{Code: "COUPON_MIN_ORDER", Message: "Minimum order amount not met"}
)

// MinimumOrderError reports the threshold a subtotal failed to reach. Preview errors come from
// the validate and apply endpoints and use the shorter wording shown before checkout.
type MinimumOrderError struct {
	Minimum decimal.Decimal
	Preview bool
}

func (e *MinimumOrderError) Error() string {
	if e.Preview {
		return fmt.Sprintf("Minimum order amount is ₹%s", e.Minimum.StringFixed(2))
	}
	return fmt.Sprintf("Minimum order amount for this coupon is ₹%s", e.Minimum.StringFixed(2))
}

// Is lets errors.Is(err, ErrMinimumOrder) match.
func (e *MinimumOrderError) Is(target error) bool { return target == ErrMinimumOrder }

// Discount is the closed set of discount kinds a coupon can carry.
type Discount interface {
	Type() dbgen.DiscountType
	sealed()
}

// Percentage takes Rate percent off the subtotal, clamped to Cap when set.
type Percentage struct {
	Rate decimal.Decimal
	Cap  *decimal.Decimal
}

// Fixed takes a flat Amount off, never more than the subtotal.
type Fixed struct {
	Amount decimal.Decimal
}

// FreeItem gives one specific item for free.
type FreeItem struct {
	ItemID string
}

// FreeItemFromCategory lets the customer pick one available item of a category for free.
type FreeItemFromCategory struct {
	CategoryID string
}

func (Percentage) Type() dbgen.DiscountType           { return dbgen.DiscountTypePercentage }
func (Fixed) Type() dbgen.DiscountType                { return dbgen.DiscountTypeFixed }
func (FreeItem) Type() dbgen.DiscountType             { return dbgen.DiscountTypeFreeItem }
func (FreeItemFromCategory) Type() dbgen.DiscountType { return dbgen.DiscountTypeFreeItem }

func (Percentage) sealed()           {}
func (Fixed) sealed()                {}
func (FreeItem) sealed()             {}
func (FreeItemFromCategory) sealed() {}

// Selection is the item the free-item discount resolves to. Price is the effective
// (combo-aware) unit price.
type Selection struct {
	ItemID     string
	Name       string
	CategoryID string
	Available  bool
	Price      decimal.Decimal
}

// Coupon is the rule set of a stored coupon.
type Coupon struct {
	ID             string
	Code           string
	Description    string
	Kind           Discount
	MinOrderAmount decimal.Decimal
	FirstTimeOnly  bool
	MaxUses        *int32
	UsedCount      int32
	ValidFrom      time.Time
	ValidUntil     *time.Time
	Active         bool
}

// FromModel converts a stored coupon into its rule form.
func FromModel(m dbgen.Coupon) Coupon {
	c := Coupon{
		ID:             common.UUIDString(m.ID),
		Code:           m.Code,
		Description:    m.Description.String,
		MinOrderAmount: m.MinOrderAmount,
		FirstTimeOnly:  m.ForFirstTimeUsersOnly,
		UsedCount:      m.UsedCount,
		ValidFrom:      m.ValidFrom.Time,
		ValidUntil:     common.TimePtr(m.ValidUntil),
		Active:         m.IsActive,
	}
	if m.MaxUses.Valid {
		v := m.MaxUses.Int32
		c.MaxUses = &v
	}
	switch m.DiscountType {
	case dbgen.DiscountTypePercentage:
		p := Percentage{Rate: m.DiscountValue.Decimal}
		if m.MaxDiscountAmount.Valid {
			capped := m.MaxDiscountAmount.Decimal
			p.Cap = &capped
		}
		c.Kind = p
	case dbgen.DiscountTypeFixed:
		c.Kind = Fixed{Amount: m.DiscountValue.Decimal}
	default:
		if !m.FreeItemID.Valid && m.FreeItemCategoryID.Valid {
			c.Kind = FreeItemFromCategory{CategoryID: common.UUIDString(m.FreeItemCategoryID)}
		} else {
			c.Kind = FreeItem{ItemID: common.UUIDString(m.FreeItemID)}
		}
	}
	return c
}

// NormalizeCode uppercases and trims a customer-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks the coupon itself at instant now. Each condition alone invalidates.
func (c Coupon) Validate(now time.Time) error {
	if !c.Active {
		return ErrInactive
	}
	if now.Before(c.ValidFrom) {
		return ErrNotYetValid
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return ErrExpired
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return ErrUsageLimit
	}
	return nil
}

// CheckEligibility checks the coupon against the customer's order history. priorOrders
// counts orders of any status.
func (c Coupon) CheckEligibility(priorOrders int64) error {
	if c.FirstTimeOnly && priorOrders > 0 {
		return ErrFirstTimeOnly
	}
	return nil
}

// NeedsSelection reports whether the customer must pick the free item.
func (c Coupon) NeedsSelection() bool {
	_, ok := c.Kind.(FreeItemFromCategory)
	return ok
}

// Discount computes the amount taken off subtotal. sel is the resolved free item for
// free-item coupons and ignored otherwise.
func (c Coupon) Discount(subtotal decimal.Decimal, sel *Selection) (decimal.Decimal, error) {
	if subtotal.LessThan(c.MinOrderAmount) {
		return decimal.Zero, &MinimumOrderError{Minimum: c.MinOrderAmount}
	}
	switch k := c.Kind.(type) {
	case Percentage:
		d := subtotal.Mul(k.Rate).Div(decimal.NewFromInt(100))
		if k.Cap != nil && d.GreaterThan(*k.Cap) {
			d = *k.Cap
		}
		return d, nil
	case Fixed:
		return decimal.Min(k.Amount, subtotal), nil
	case FreeItem:
		if k.ItemID == "" {
			return decimal.Zero, nil
		}
		if sel == nil || sel.ItemID != k.ItemID {
			return decimal.Zero, ErrInvalidSelection
		}
		return sel.Price, nil
	case FreeItemFromCategory:
		if sel == nil || sel.CategoryID != k.CategoryID || !sel.Available {
			return decimal.Zero, ErrInvalidSelection
		}
		return sel.Price, nil
	default:
		return decimal.Zero, fmt.Errorf("coupon %s: unknown discount kind %T", c.Code, c.Kind)
	}
}

// Application binds a coupon to one customer's checkout context. It satisfies
// pricing.Discounter.
type Application struct {
	Coupon      Coupon
	PriorOrders int64
	Selection   *Selection
}

// Apply runs validity, eligibility and discount computation in that order.
func (a Application) Apply(now time.Time, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if err := a.Coupon.Validate(now); err != nil {
		return decimal.Zero, err
	}
	if err := a.Coupon.CheckEligibility(a.PriorOrders); err != nil {
		return decimal.Zero, err
	}
	return a.Coupon.Discount(subtotal, a.Selection)
}

// FreeLine returns the item to add to the order at zero price, if any.
func (a Application) FreeLine() *Selection {
	switch a.Coupon.Kind.(type) {
	case FreeItem, FreeItemFromCategory:
		return a.Selection
	}
	return nil
}
