package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/db"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
	"github.com/noah-isme/backend-food/internal/geo"
)

// Querier is the subset of generated queries used by the order service.
type Querier interface {
	GetOrderForUser(ctx context.Context, arg dbgen.GetOrderForUserParams) (dbgen.Order, error)
	GetOrderByID(ctx context.Context, id pgtype.UUID) (dbgen.Order, error)
	ListOrdersForUser(ctx context.Context, arg dbgen.ListOrdersForUserParams) ([]dbgen.Order, error)
	CountOrdersForUser(ctx context.Context, userID pgtype.UUID) (int64, error)
	GetActiveOrderForUser(ctx context.Context, userID pgtype.UUID) (dbgen.Order, error)
	CancelOrderForUser(ctx context.Context, arg dbgen.CancelOrderForUserParams) (int64, error)
	ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]dbgen.OrderItem, error)
	ListOrdersAdmin(ctx context.Context, arg dbgen.ListOrdersAdminParams) ([]dbgen.Order, error)
	CountOrdersAdmin(ctx context.Context, status pgtype.Text) (int64, error)
	UpdateOrderStatus(ctx context.Context, arg dbgen.UpdateOrderStatusParams) (dbgen.Order, error)
	GetDashboardStats(ctx context.Context, arg dbgen.GetDashboardStatsParams) (dbgen.GetDashboardStatsRow, error)
	GetAddressForUser(ctx context.Context, arg dbgen.GetAddressForUserParams) (dbgen.Address, error)
	GetRiderByID(ctx context.Context, id pgtype.UUID) (dbgen.Rider, error)
	GetOrderReview(ctx context.Context, orderID pgtype.UUID) (dbgen.OrderReview, error)
	ListOrderItemReviews(ctx context.Context, reviewID pgtype.UUID) ([]dbgen.OrderItemReview, error)
	ReviewWriter
}

// ReviewWriter persists a review and its per-item ratings.
type ReviewWriter interface {
	CreateOrderReview(ctx context.Context, arg dbgen.CreateOrderReviewParams) (dbgen.OrderReview, error)
	CreateOrderItemReview(ctx context.Context, arg dbgen.CreateOrderItemReviewParams) (dbgen.OrderItemReview, error)
}

// Emitter publishes domain events.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error)
}

// ServiceConfig wires the order service.
type ServiceConfig struct {
	Queries    Querier
	Pool       db.TxBeginner
	Events     Emitter
	Stats      *StatsCache
	Restaurant geo.Point
}

// Service reads orders for customers and admins and applies admin status changes.
type Service struct {
	queries    Querier
	pool       db.TxBeginner
	events     Emitter
	stats      *StatsCache
	restaurant geo.Point
	now        func() time.Time
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		queries:    cfg.Queries,
		pool:       cfg.Pool,
		events:     cfg.Events,
		stats:      cfg.Stats,
		restaurant: cfg.Restaurant,
		now:        time.Now,
	}
}

// Item is one persisted order line.
type Item struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
	Price    string `json:"price"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
	IsFree   bool   `json:"is_free"`
}

// Rider is the delivery partner attached to an order.
type Rider struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Mobile    string     `json:"mobile"`
	Location  *geo.Point `json:"location,omitempty"`
	UpdatedAt *time.Time `json:"location_updated_at,omitempty"`
}

// Order is the API view of an order.
type Order struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id,omitempty"`
	Status           string     `json:"status"`
	DeliveryMethod   string     `json:"delivery_method"`
	DeliveryAddress  *string    `json:"delivery_address,omitempty"`
	DistanceKm       *float64   `json:"distance_km,omitempty"`
	Subtotal         string     `json:"subtotal"`
	Tax              string     `json:"tax"`
	PlatformFee      string     `json:"platform_fee"`
	DeliveryCharge   string     `json:"delivery_charge"`
	CouponDiscount   string     `json:"coupon_discount"`
	Total            string     `json:"total"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentReference *string    `json:"payment_reference,omitempty"`
	DeliveryOTP      string     `json:"delivery_otp,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// Detail is an order with its lines, rider, locations and review.
type Detail struct {
	Order
	Items      []Item     `json:"items"`
	Rider      *Rider     `json:"rider,omitempty"`
	Restaurant geo.Point  `json:"restaurant_location"`
	Delivery   *geo.Point `json:"delivery_location,omitempty"`
	Review     *Review    `json:"review,omitempty"`
}

// List returns a page of the caller's orders, newest first.
func (s *Service) List(ctx context.Context, userID string, page, perPage int) ([]Order, common.Pagination, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return nil, common.Pagination{}, ErrOrderNotFound
	}
	total, err := s.queries.CountOrdersForUser(ctx, uid)
	if err != nil {
		return nil, common.Pagination{}, fmt.Errorf("count orders: %w", err)
	}
	rows, err := s.queries.ListOrdersForUser(ctx, dbgen.ListOrdersForUserParams{
		UserID: uid,
		Limit:  int32(perPage),
		Offset: common.Offset(page, perPage),
	})
	if err != nil {
		return nil, common.Pagination{}, fmt.Errorf("list orders: %w", err)
	}
	out := make([]Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, toOrder(row, true))
	}
	return out, common.BuildPagination(page, perPage, total), nil
}

// Detail returns one of the caller's orders.
func (s *Service) Detail(ctx context.Context, userID, orderID string) (Detail, error) {
	row, err := s.loadForUser(ctx, userID, orderID)
	if err != nil {
		return Detail{}, err
	}
	return s.detail(ctx, row, true)
}

// Active returns the caller's most recent order that is neither delivered nor cancelled.
// A nil result means there is none.
func (s *Service) Active(ctx context.Context, userID string) (*Detail, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return nil, nil
	}
	row, err := s.queries.GetActiveOrderForUser(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("active order: %w", err)
	}
	d, err := s.detail(ctx, row, true)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Cancel cancels the caller's order while it is still confirmed or awaiting pickup.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (Order, error) {
	row, err := s.loadForUser(ctx, userID, orderID)
	if err != nil {
		return Order{}, err
	}
	n, err := s.queries.CancelOrderForUser(ctx, dbgen.CancelOrderForUserParams{ID: row.ID, UserID: row.UserID})
	if err != nil {
		return Order{}, fmt.Errorf("cancel order: %w", err)
	}
	if n == 0 {
		return Order{}, ErrNotCancellable
	}
	previous := row.Status
	row.Status = dbgen.OrderStatusCancelled
	s.emit(ctx, events.TopicOrderCancelled, row, previous)
	s.stats.Flush(ctx)
	return toOrder(row, true), nil
}

func (s *Service) loadForUser(ctx context.Context, userID, orderID string) (dbgen.Order, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return dbgen.Order{}, ErrOrderNotFound
	}
	oid, err := common.ParseUUID(orderID)
	if err != nil {
		return dbgen.Order{}, ErrOrderNotFound
	}
	row, err := s.queries.GetOrderForUser(ctx, dbgen.GetOrderForUserParams{ID: oid, UserID: uid})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Order{}, ErrOrderNotFound
		}
		return dbgen.Order{}, fmt.Errorf("get order: %w", err)
	}
	return row, nil
}

func (s *Service) detail(ctx context.Context, row dbgen.Order, withOTP bool) (Detail, error) {
	items, err := s.queries.ListOrderItems(ctx, row.ID)
	if err != nil {
		return Detail{}, fmt.Errorf("list order items: %w", err)
	}
	d := Detail{Order: toOrder(row, withOTP), Items: make([]Item, 0, len(items)), Restaurant: s.restaurant}
	for _, it := range items {
		d.Items = append(d.Items, toItem(it))
	}
	if row.RiderID.Valid {
		rider, err := s.queries.GetRiderByID(ctx, row.RiderID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, fmt.Errorf("get rider: %w", err)
		}
		if err == nil {
			d.Rider = &Rider{ID: common.UUIDString(rider.ID), Name: rider.Name, Mobile: rider.Mobile}
			if row.RiderLat.Valid && row.RiderLng.Valid {
				d.Rider.Location = &geo.Point{Lat: row.RiderLat.Float64, Lng: row.RiderLng.Float64}
				d.Rider.UpdatedAt = common.TimePtr(row.RiderLocationUpdatedAt)
			}
		}
	}
	if row.AddressID.Valid {
		addr, err := s.queries.GetAddressForUser(ctx, dbgen.GetAddressForUserParams{ID: row.AddressID, UserID: row.UserID})
		if err == nil && addr.Latitude.Valid && addr.Longitude.Valid {
			d.Delivery = &geo.Point{Lat: addr.Latitude.Float64, Lng: addr.Longitude.Float64}
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, fmt.Errorf("get address: %w", err)
		}
	}
	review, err := s.review(ctx, row.ID)
	if err != nil {
		return Detail{}, err
	}
	d.Review = review
	return d, nil
}

func (s *Service) emit(ctx context.Context, topic string, row dbgen.Order, previous dbgen.OrderStatus) {
	if s.events == nil {
		return
	}
	payload := events.OrderStatusPayload{
		OrderID:        common.UUIDString(row.ID),
		UserID:         common.UUIDString(row.UserID),
		RiderID:        common.UUIDString(row.RiderID),
		Status:         string(row.Status),
		PreviousStatus: string(previous),
	}
	if _, err := s.events.Emit(ctx, topic, row.ID, payload); err != nil {
		logEmitFailure(ctx, topic, err)
	}
}

// FromRow renders a persisted order without its delivery OTP.
func FromRow(row dbgen.Order) Order {
	return toOrder(row, false)
}

// ItemFromRow renders a persisted order line.
func ItemFromRow(it dbgen.OrderItem) Item {
	return toItem(it)
}

func toOrder(row dbgen.Order, withOTP bool) Order {
	o := Order{
		ID:               common.UUIDString(row.ID),
		UserID:           common.UUIDString(row.UserID),
		Status:           string(row.Status),
		DeliveryMethod:   row.DeliveryMethod,
		Subtotal:         row.Subtotal.StringFixed(2),
		Tax:              row.Tax.StringFixed(2),
		PlatformFee:      row.PlatformFee.StringFixed(2),
		DeliveryCharge:   row.DeliveryCharge.StringFixed(2),
		CouponDiscount:   row.CouponDiscount.StringFixed(2),
		Total:            row.TotalPrice.StringFixed(2),
		PaymentMethod:    row.PaymentMethod,
		CreatedAt:        common.TimePtr(row.CreatedAt),
		UpdatedAt:        common.TimePtr(row.UpdatedAt),
		PaymentReference: textPtr(row.PaymentReference),
		DeliveryAddress:  textPtr(row.DeliveryAddress),
	}
	if row.DistanceKm.Valid {
		km := row.DistanceKm.Float64
		o.DistanceKm = &km
	}
	if withOTP && row.DeliveryOtp.Valid && row.Status != dbgen.OrderStatusDelivered && row.Status != dbgen.OrderStatusCancelled {
		o.DeliveryOTP = row.DeliveryOtp.String
	}
	return o
}

func toItem(it dbgen.OrderItem) Item {
	line := it.PriceAtOrder.Mul(decimalFromInt(it.Quantity)).Add(it.TaxAtOrder)
	return Item{
		ID:       common.UUIDString(it.ID),
		ItemID:   common.UUIDString(it.ItemID),
		Name:     it.ItemName,
		Quantity: it.Quantity,
		Price:    it.PriceAtOrder.StringFixed(2),
		Tax:      it.TaxAtOrder.StringFixed(2),
		Total:    line.StringFixed(2),
		IsFree:   it.IsFree,
	}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}
