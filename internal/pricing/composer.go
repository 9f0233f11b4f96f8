// Package pricing composes order totals from cart lines, delivery distance and coupon discounts.
package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart is returned before any computation when the quote has no lines.
	ErrEmptyCart = errors.New("pricing: cart is empty")
	// ErrLocationUnresolved is returned for a delivery whose distance could not be determined.
	ErrLocationUnresolved = errors.New("pricing: delivery location unresolved")
	// ErrOutOfRadius matches any *OutOfRadiusError via errors.Is.
	ErrOutOfRadius = errors.New("pricing: delivery location out of radius")
)

// OutOfRadiusError carries the measured distance of a rejected delivery.
type OutOfRadiusError struct {
	DistanceKm  float64
	MaxRadiusKm float64
}

func (e *OutOfRadiusError) Error() string {
	return fmt.Sprintf("Delivery only available within %s km radius. Your location is %.1f km away.",
		strconv.FormatFloat(e.MaxRadiusKm, 'f', -1, 64), e.DistanceKm)
}

// Is lets errors.Is(err, ErrOutOfRadius) match.
func (e *OutOfRadiusError) Is(target error) bool {
	return target == ErrOutOfRadius
}

// Line is one cart line ready for pricing. UnitPrice is already combo-resolved.
type Line struct {
	ItemID    string
	Name      string
	Quantity  int32
	UnitPrice decimal.Decimal
	GSTRate   decimal.Decimal
}

// PricedLine is a Line with its computed subtotal and tax.
type PricedLine struct {
	Line
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
}

// Discounter applies a coupon to a subtotal. Implementations validate the coupon first and
// return the reason for rejection as the error.
type Discounter interface {
	Apply(now time.Time, subtotal decimal.Decimal) (decimal.Decimal, error)
}

// Quote is the input to Compose.
type Quote struct {
	Lines         []Line
	Pickup        bool
	DistanceKm    float64
	DistanceKnown bool
	Coupon        Discounter
	Now           time.Time
}

// Breakdown keeps every component of a composed total.
type Breakdown struct {
	Lines          []PricedLine
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	PlatformFee    decimal.Decimal
	DeliveryCharge decimal.Decimal
	Discount       decimal.Decimal
	Total          decimal.Decimal
	DistanceKm     *float64
}

// Composer holds the flat charges applied to every order.
type Composer struct {
	PlatformFee decimal.Decimal
	Delivery    DeliveryPolicy
}

// Compose prices a quote. Any error aborts the whole computation.
func (c Composer) Compose(q Quote) (Breakdown, error) {
	if len(q.Lines) == 0 {
		return Breakdown{}, ErrEmptyCart
	}
	b := Breakdown{
		Lines:          make([]PricedLine, 0, len(q.Lines)),
		Subtotal:       decimal.Zero,
		Tax:            decimal.Zero,
		PlatformFee:    c.PlatformFee,
		DeliveryCharge: decimal.Zero,
		Discount:       decimal.Zero,
	}
	for _, l := range q.Lines {
		sub := l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
		tax := Tax(sub, l.GSTRate)
		b.Lines = append(b.Lines, PricedLine{Line: l, Subtotal: sub, Tax: tax})
		b.Subtotal = b.Subtotal.Add(sub)
		b.Tax = b.Tax.Add(tax)
	}

	if !q.Pickup {
		if !q.DistanceKnown {
			return Breakdown{}, ErrLocationUnresolved
		}
		if !c.Delivery.Serviceable(q.DistanceKm) {
			return Breakdown{}, &OutOfRadiusError{DistanceKm: q.DistanceKm, MaxRadiusKm: c.Delivery.MaxRadiusKm}
		}
		d := q.DistanceKm
		b.DistanceKm = &d
		b.DeliveryCharge = c.Delivery.Fee(d, true)
	}

	if q.Coupon != nil {
		now := q.Now
		if now.IsZero() {
			now = time.Now()
		}
		discount, err := q.Coupon.Apply(now, b.Subtotal)
		if err != nil {
			return Breakdown{}, err
		}
		b.Discount = discount
	}

	total := b.Subtotal.Add(b.Tax).Add(b.PlatformFee).Add(b.DeliveryCharge).Sub(b.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	b.Total = total
	return b, nil
}

// Money rounds an amount to the two decimals stored for order fields.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Rounded returns the breakdown as it is stored: every component rounded to two decimals and
// the total recomputed from the rounded components, floored at zero.
func (b Breakdown) Rounded() Breakdown {
	out := b
	out.Lines = make([]PricedLine, len(b.Lines))
	for i, l := range b.Lines {
		l.Subtotal = Money(l.Subtotal)
		l.Tax = Money(l.Tax)
		out.Lines[i] = l
	}
	out.Subtotal = Money(b.Subtotal)
	out.Tax = Money(b.Tax)
	out.PlatformFee = Money(b.PlatformFee)
	out.DeliveryCharge = Money(b.DeliveryCharge)
	out.Discount = Money(b.Discount)
	total := out.Subtotal.Add(out.Tax).Add(out.PlatformFee).Add(out.DeliveryCharge).Sub(out.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	out.Total = total
	return out
}
