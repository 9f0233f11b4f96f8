// Package checkout turns a customer's cart into a priced, persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/backend-food/internal/cart"
	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/coupon"
	"github.com/noah-isme/backend-food/internal/db"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
	"github.com/noah-isme/backend-food/internal/geo"
	"github.com/noah-isme/backend-food/internal/obs"
	"github.com/noah-isme/backend-food/internal/pricing"
	"github.com/noah-isme/backend-food/internal/user"
)

// Delivery and payment methods accepted by Checkout.
const (
	MethodDelivery = "delivery"
	MethodPickup   = "pickup"

	PaymentCOD      = "cod"
	PaymentRazorpay = "razorpay"
)

var (
	// ErrAddressRequired indicates a delivery checkout without an address.
	ErrAddressRequired = errors.New("checkout: address required")
	// ErrCouponExhausted indicates the coupon ran out of uses between pricing and redemption.
	ErrCouponExhausted = errors.New("checkout: coupon exhausted")
	// ErrDuplicatePayment indicates the payment reference already produced an order.
	ErrDuplicatePayment = errors.New("checkout: payment already processed")
)

// UnavailableError names a cart item that can no longer be ordered.
type UnavailableError struct {
	Name string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s is currently unavailable", e.Name)
}

// Is lets errors.Is(err, cart.ErrItemUnavailable) match.
func (e *UnavailableError) Is(target error) bool { return target == cart.ErrItemUnavailable }

// Input is a checkout request. PaymentReference is set by the payment flow, never by clients.
type Input struct {
	DeliveryMethod   string `json:"delivery_method" validate:"omitempty,oneof=delivery pickup"`
	AddressID        string `json:"address_id" validate:"omitempty,uuid"`
	CouponID         string `json:"coupon_id" validate:"omitempty,uuid"`
	SelectedItemID   string `json:"selected_item_id" validate:"omitempty,uuid"`
	PaymentMethod    string `json:"-"`
	PaymentReference string `json:"-"`
}

func (in Input) normalized() Input {
	in.DeliveryMethod = strings.ToLower(strings.TrimSpace(in.DeliveryMethod))
	if in.DeliveryMethod == "" {
		in.DeliveryMethod = MethodDelivery
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentCOD
	}
	in.AddressID = strings.TrimSpace(in.AddressID)
	in.CouponID = strings.TrimSpace(in.CouponID)
	in.SelectedItemID = strings.TrimSpace(in.SelectedItemID)
	return in
}

// Summary is the outcome of a successful checkout.
type Summary struct {
	OrderID         string
	Status          string
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	PlatformFee     decimal.Decimal
	DeliveryCharge  decimal.Decimal
	CouponDiscount  decimal.Decimal
	Total           decimal.Decimal
	DeliveryAddress *string
	PaymentMethod   string
}

// Quote is a priced cart that has not been persisted.
type Quote struct {
	Lines     []cart.Line
	Breakdown pricing.Breakdown
	Location  *user.Location
	Coupon    *coupon.Application
}

// CartLoader loads the caller's cart.
type CartLoader interface {
	Lines(ctx context.Context, userID string) ([]cart.Line, error)
}

// AddressLocator resolves an owned address into a delivery location.
type AddressLocator interface {
	Locate(ctx context.Context, userID, addressID string) (user.Location, error)
}

// CouponResolver loads coupons for pricing and redeems them inside the order transaction.
type CouponResolver interface {
	Resolve(ctx context.Context, userID, couponID, selectedItemID string) (*coupon.Application, error)
	Redeem(ctx context.Context, q coupon.Redeemer, userID, couponID, orderID pgtype.UUID, discount decimal.Decimal) error
}

// Store is the set of writes performed in the order transaction.
type Store interface {
	coupon.Redeemer
	CreateOrder(ctx context.Context, arg dbgen.CreateOrderParams) (dbgen.Order, error)
	CreateOrderItem(ctx context.Context, arg dbgen.CreateOrderItemParams) (dbgen.OrderItem, error)
	ClearCart(ctx context.Context, userID pgtype.UUID) error
}

// TxRunner runs fn inside a single database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Store) error) error
}

// PoolTx runs transactions on a pgx pool.
type PoolTx struct {
	Pool db.TxBeginner
}

// InTx implements TxRunner.
func (p PoolTx) InTx(ctx context.Context, fn func(Store) error) error {
	return db.InTx(ctx, p.Pool, func(q *dbgen.Queries) error { return fn(q) })
}

// Locker serialises checkouts of the same cart.
type Locker interface {
	Hold(ctx context.Context, key string, lease time.Duration, fn func(context.Context) error) error
}

// Emitter publishes domain events after commit.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error)
}

// Service prices carts and places orders.
type Service struct {
	Cart       CartLoader
	Addresses  AddressLocator
	Coupons    CouponResolver
	Tx         TxRunner
	Lock       Locker
	Events     Emitter
	Composer   pricing.Composer
	Restaurant geo.Point
	LockTTL    time.Duration
	Now        func() time.Time
	OTP        func() (string, error)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Quote prices the caller's cart for in without writing anything.
func (s *Service) Quote(ctx context.Context, userID string, in Input) (Quote, error) {
	in = in.normalized()
	lines, err := s.Cart.Lines(ctx, userID)
	if err != nil {
		return Quote{}, err
	}
	if len(lines) == 0 {
		return Quote{}, pricing.ErrEmptyCart
	}
	if in.DeliveryMethod == MethodDelivery && in.AddressID == "" {
		return Quote{}, ErrAddressRequired
	}
	for _, l := range lines {
		if !l.Available {
			return Quote{}, &UnavailableError{Name: l.Name}
		}
	}

	q := Quote{Lines: lines}
	pq := pricing.Quote{Lines: cart.PricingLines(lines), Pickup: in.DeliveryMethod == MethodPickup, Now: s.now()}
	if !pq.Pickup {
		loc, err := s.Addresses.Locate(ctx, userID, in.AddressID)
		if err != nil {
			return Quote{}, err
		}
		q.Location = &loc
		pq.DistanceKm, pq.DistanceKnown = geo.DistanceBetween(&s.Restaurant, loc.Point)
	}
	if in.CouponID != "" {
		app, err := s.Coupons.Resolve(ctx, userID, in.CouponID, in.SelectedItemID)
		if err != nil {
			return Quote{}, err
		}
		q.Coupon = app
		pq.Coupon = app
	}
	q.Breakdown, err = s.Composer.Compose(pq)
	if err != nil {
		if q.Coupon != nil && q.Coupon.Selection == nil && q.Coupon.Coupon.NeedsSelection() && errors.Is(err, coupon.ErrInvalidSelection) {
			return Quote{}, coupon.ErrSelectionRequired
		}
		return Quote{}, err
	}
	return q, nil
}

// Checkout prices the cart and persists the order, its items and the coupon redemption in one
// transaction, then clears the cart. Nothing is written when any step fails.
func (s *Service) Checkout(ctx context.Context, userID string, in Input) (Summary, error) {
	in = in.normalized()
	start := time.Now()
	ctx, span := otel.Tracer("checkout").Start(ctx, "checkout.place_order")
	defer span.End()
	span.SetAttributes(
		attribute.String("checkout.delivery_method", in.DeliveryMethod),
		attribute.String("checkout.payment_method", in.PaymentMethod),
		attribute.Bool("checkout.coupon", in.CouponID != ""),
	)

	var out Summary
	run := func(ctx context.Context) error {
		var err error
		out, err = s.place(ctx, userID, in)
		return err
	}
	var err error
	if s.Lock != nil {
		ttl := s.LockTTL
		if ttl <= 0 {
			ttl = 30 * time.Second
		}
		err = s.Lock.Hold(ctx, "checkout:lock:"+userID, ttl, run)
	} else {
		err = run(ctx)
	}

	obs.ObserveSince(obs.CheckoutDuration, start, in.DeliveryMethod)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		obs.Inc(obs.CheckoutTotal, in.DeliveryMethod, resultCode(err))
		return Summary{}, err
	}
	obs.Inc(obs.CheckoutTotal, in.DeliveryMethod, "ok")
	span.SetAttributes(attribute.String("order.id", out.OrderID))
	return out, nil
}

func (s *Service) place(ctx context.Context, userID string, in Input) (Summary, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return Summary{}, fmt.Errorf("checkout: %w", err)
	}
	q, err := s.Quote(ctx, userID, in)
	if err != nil {
		return Summary{}, err
	}
	b := q.Breakdown.Rounded()

	params := dbgen.CreateOrderParams{
		UserID:           uid,
		DeliveryMethod:   in.DeliveryMethod,
		Status:           dbgen.OrderStatusConfirmed,
		Subtotal:         b.Subtotal,
		Tax:              b.Tax,
		PlatformFee:      b.PlatformFee,
		DeliveryCharge:   b.DeliveryCharge,
		CouponDiscount:   b.Discount,
		TotalPrice:       b.Total,
		PaymentMethod:    in.PaymentMethod,
		PaymentReference: common.Text(in.PaymentReference),
	}
	if b.DistanceKm != nil {
		params.DistanceKm = common.Float8(*b.DistanceKm)
	}
	if in.DeliveryMethod == MethodPickup {
		params.Status = dbgen.OrderStatusPickupPending
	} else {
		params.AddressID = q.Location.AddressID
		params.DeliveryAddress = common.Text(q.Location.FullAddress)
		otp, err := s.deliveryOTP()
		if err != nil {
			return Summary{}, fmt.Errorf("delivery otp: %w", err)
		}
		params.DeliveryOtp = common.Text(otp)
	}
	var couponID pgtype.UUID
	if q.Coupon != nil {
		if couponID, err = common.ParseUUID(q.Coupon.Coupon.ID); err != nil {
			return Summary{}, fmt.Errorf("checkout coupon: %w", err)
		}
		params.CouponID = couponID
	}

	var order dbgen.Order
	err = s.Tx.InTx(ctx, func(st Store) error {
		var err error
		order, err = st.CreateOrder(ctx, params)
		if err != nil {
			if db.IsUniqueViolation(err) && in.PaymentReference != "" {
				return ErrDuplicatePayment
			}
			return fmt.Errorf("create order: %w", err)
		}
		for _, l := range b.Lines {
			itemID, err := common.ParseUUID(l.ItemID)
			if err != nil {
				return fmt.Errorf("order item: %w", err)
			}
			if _, err := st.CreateOrderItem(ctx, dbgen.CreateOrderItemParams{
				OrderID:      order.ID,
				ItemID:       itemID,
				ItemName:     l.Name,
				Quantity:     l.Quantity,
				PriceAtOrder: pricing.Money(l.UnitPrice),
				TaxAtOrder:   l.Tax,
			}); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}
		if q.Coupon == nil {
			return st.ClearCart(ctx, uid)
		}
		if free := q.Coupon.FreeLine(); free != nil {
			itemID, err := common.ParseUUID(free.ItemID)
			if err != nil {
				return fmt.Errorf("free item: %w", err)
			}
			if _, err := st.CreateOrderItem(ctx, dbgen.CreateOrderItemParams{
				OrderID:      order.ID,
				ItemID:       itemID,
				ItemName:     free.Name,
				Quantity:     1,
				PriceAtOrder: decimal.Zero,
				TaxAtOrder:   decimal.Zero,
				IsFree:       true,
			}); err != nil {
				return fmt.Errorf("create free item: %w", err)
			}
		}
		if err := s.Coupons.Redeem(ctx, st, uid, couponID, order.ID, b.Discount); err != nil {
			if errors.Is(err, coupon.ErrUsageLimit) {
				return ErrCouponExhausted
			}
			return err
		}
		return st.ClearCart(ctx, uid)
	})
	if err != nil {
		return Summary{}, err
	}

	out := Summary{
		OrderID:        common.UUIDString(order.ID),
		Status:         string(order.Status),
		Subtotal:       order.Subtotal,
		Tax:            order.Tax,
		PlatformFee:    order.PlatformFee,
		DeliveryCharge: order.DeliveryCharge,
		CouponDiscount: order.CouponDiscount,
		Total:          order.TotalPrice,
		PaymentMethod:  order.PaymentMethod,
	}
	if order.DeliveryAddress.Valid {
		addr := order.DeliveryAddress.String
		out.DeliveryAddress = &addr
	}
	s.emitCreated(ctx, userID, order, out)
	return out, nil
}

func (s *Service) emitCreated(ctx context.Context, userID string, order dbgen.Order, out Summary) {
	if s.Events == nil {
		return
	}
	payload := map[string]any{
		"order_id":        out.OrderID,
		"user_id":         userID,
		"status":          out.Status,
		"delivery_method": order.DeliveryMethod,
		"payment_method":  out.PaymentMethod,
		"total":           out.Total.StringFixed(2),
	}
	if order.CouponID.Valid {
		payload["coupon_id"] = common.UUIDString(order.CouponID)
	}
	if _, err := s.Events.Emit(ctx, events.TopicOrderCreated, order.ID, payload); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("order_id", out.OrderID).Msg("emit order.created")
	}
}

func (s *Service) deliveryOTP() (string, error) {
	if s.OTP != nil {
		return s.OTP()
	}
	return common.RandomDigits(4)
}

func resultCode(err error) string {
	var appErr *common.AppError
	if errors.As(AsAppError(err), &appErr) {
		return strings.ToLower(appErr.Code)
	}
	return "error"
}
