// Package rider serves delivery partners: the pickup queue, assignment, live location and
// OTP-confirmed handover.
package rider

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
	"github.com/noah-isme/backend-food/internal/geo"
	"github.com/noah-isme/backend-food/internal/order"
)

// Errors returned by Service.
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrAlreadyTaken    = errors.New("order no longer available")
	ErrInvalidOTP      = errors.New("invalid delivery otp")
	ErrStatusForbidden = errors.New("status not allowed for rider")
	ErrInvalidLocation = errors.New("invalid coordinates")
)

// riderStatuses are the transitions a rider may report directly. delivered goes through Deliver.
var riderStatuses = map[dbgen.OrderStatus]bool{
	dbgen.OrderStatusPickupPending:       true,
	dbgen.OrderStatusOnTheWay:            true,
	dbgen.OrderStatusDeliveryPending:     true,
	dbgen.OrderStatusPickupFailed:        true,
	dbgen.OrderStatusPickupRescheduled:   true,
	dbgen.OrderStatusDeliveryFailed:      true,
	dbgen.OrderStatusDeliveryRescheduled: true,
}

// Querier is the subset of generated queries used by the rider service.
type Querier interface {
	ListOrdersForRider(ctx context.Context, arg dbgen.ListOrdersForRiderParams) ([]dbgen.Order, error)
	ListReadyOrdersForPickup(ctx context.Context) ([]dbgen.Order, error)
	AssignRiderToOrder(ctx context.Context, arg dbgen.AssignRiderToOrderParams) (dbgen.Order, error)
	GetOrderForRider(ctx context.Context, arg dbgen.GetOrderForRiderParams) (dbgen.Order, error)
	UpdateOrderStatus(ctx context.Context, arg dbgen.UpdateOrderStatusParams) (dbgen.Order, error)
	UpdateRiderLocation(ctx context.Context, arg dbgen.UpdateRiderLocationParams) (int64, error)
	ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]dbgen.OrderItem, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (dbgen.User, error)
	GetAddressForUser(ctx context.Context, arg dbgen.GetAddressForUserParams) (dbgen.Address, error)
}

// Emitter publishes domain events.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error)
}

// Service implements rider operations.
type Service struct {
	Queries Querier
	Events  Emitter
}

// Order is the rider's view of an order. The delivery OTP is never included; the customer
// reads it out at the door.
type Order struct {
	order.Order
	ItemsCount     int          `json:"items_count"`
	Items          []order.Item `json:"items"`
	CustomerName   string       `json:"customer_name"`
	CustomerMobile string       `json:"customer_mobile"`
	Delivery       *geo.Point   `json:"delivery_location,omitempty"`
}

// Assigned lists orders assigned to the rider, newest first.
func (s *Service) Assigned(ctx context.Context, riderID string, page, perPage int) ([]Order, error) {
	rid, err := common.ParseUUID(riderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	rows, err := s.Queries.ListOrdersForRider(ctx, dbgen.ListOrdersForRiderParams{
		RiderID: rid,
		Limit:   int32(perPage),
		Offset:  common.Offset(page, perPage),
	})
	if err != nil {
		return nil, fmt.Errorf("list rider orders: %w", err)
	}
	return s.views(ctx, rows)
}

// Ready lists unassigned orders waiting at the restaurant.
func (s *Service) Ready(ctx context.Context) ([]Order, error) {
	rows, err := s.Queries.ListReadyOrdersForPickup(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ready orders: %w", err)
	}
	return s.views(ctx, rows)
}

// Accept assigns a ready order to the rider and moves it to on_the_way. Exactly one rider
// wins a race for the same order.
func (s *Service) Accept(ctx context.Context, riderID, orderID string) (Order, error) {
	rid, oid, err := parseIDs(riderID, orderID)
	if err != nil {
		return Order{}, err
	}
	row, err := s.Queries.AssignRiderToOrder(ctx, dbgen.AssignRiderToOrderParams{ID: oid, RiderID: rid})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrAlreadyTaken
		}
		return Order{}, fmt.Errorf("assign rider: %w", err)
	}
	s.emit(ctx, events.TopicOrderAssigned, row, dbgen.OrderStatusReadyForPickup)
	return s.view(ctx, row)
}

// Deliver marks an assigned order delivered after checking the customer's OTP.
func (s *Service) Deliver(ctx context.Context, riderID, orderID, otp string) (Order, error) {
	row, err := s.load(ctx, riderID, orderID)
	if err != nil {
		return Order{}, err
	}
	otp = strings.TrimSpace(otp)
	if !row.DeliveryOtp.Valid || otp == "" || subtle.ConstantTimeCompare([]byte(row.DeliveryOtp.String), []byte(otp)) != 1 {
		return Order{}, ErrInvalidOTP
	}
	if row.Status == dbgen.OrderStatusDelivered {
		return s.view(ctx, row)
	}
	return s.setStatus(ctx, row, dbgen.OrderStatusDelivered)
}

// UpdateStatus records a rider-reported pickup or delivery status.
func (s *Service) UpdateStatus(ctx context.Context, riderID, orderID, status string) (Order, error) {
	target, err := order.ParseStatus(status)
	if err != nil {
		return Order{}, err
	}
	if !riderStatuses[target] {
		return Order{}, ErrStatusForbidden
	}
	row, err := s.load(ctx, riderID, orderID)
	if err != nil {
		return Order{}, err
	}
	if row.Status == dbgen.OrderStatusDelivered || row.Status == dbgen.OrderStatusCancelled {
		return Order{}, ErrStatusForbidden
	}
	if row.Status == target {
		return s.view(ctx, row)
	}
	return s.setStatus(ctx, row, target)
}

// UpdateLocation stores the rider's position on every order they are carrying and reports how
// many were updated.
func (s *Service) UpdateLocation(ctx context.Context, riderID string, at geo.Point) (int64, error) {
	rid, err := common.ParseUUID(riderID)
	if err != nil {
		return 0, ErrOrderNotFound
	}
	if at.Lat < -90 || at.Lat > 90 || at.Lng < -180 || at.Lng > 180 {
		return 0, ErrInvalidLocation
	}
	n, err := s.Queries.UpdateRiderLocation(ctx, dbgen.UpdateRiderLocationParams{
		RiderID:  rid,
		RiderLat: common.Float8(at.Lat),
		RiderLng: common.Float8(at.Lng),
	})
	if err != nil {
		return 0, fmt.Errorf("update rider location: %w", err)
	}
	return n, nil
}

func (s *Service) setStatus(ctx context.Context, row dbgen.Order, target dbgen.OrderStatus) (Order, error) {
	updated, err := s.Queries.UpdateOrderStatus(ctx, dbgen.UpdateOrderStatusParams{ID: row.ID, Status: target})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, fmt.Errorf("update status: %w", err)
	}
	s.emit(ctx, order.TopicFor(target), updated, row.Status)
	return s.view(ctx, updated)
}

func (s *Service) load(ctx context.Context, riderID, orderID string) (dbgen.Order, error) {
	rid, oid, err := parseIDs(riderID, orderID)
	if err != nil {
		return dbgen.Order{}, err
	}
	row, err := s.Queries.GetOrderForRider(ctx, dbgen.GetOrderForRiderParams{ID: oid, RiderID: rid})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Order{}, ErrOrderNotFound
		}
		return dbgen.Order{}, fmt.Errorf("get rider order: %w", err)
	}
	return row, nil
}

func (s *Service) views(ctx context.Context, rows []dbgen.Order) ([]Order, error) {
	out := make([]Order, 0, len(rows))
	for _, row := range rows {
		v, err := s.view(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) view(ctx context.Context, row dbgen.Order) (Order, error) {
	items, err := s.Queries.ListOrderItems(ctx, row.ID)
	if err != nil {
		return Order{}, fmt.Errorf("list order items: %w", err)
	}
	v := Order{Order: order.FromRow(row), Items: make([]order.Item, 0, len(items)), CustomerName: "Customer"}
	for _, it := range items {
		v.Items = append(v.Items, order.ItemFromRow(it))
		v.ItemsCount += int(it.Quantity)
	}
	if u, err := s.Queries.GetUserByID(ctx, row.UserID); err == nil {
		if u.Name.Valid && u.Name.String != "" {
			v.CustomerName = u.Name.String
		}
		v.CustomerMobile = u.Mobile.String
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return Order{}, fmt.Errorf("get customer: %w", err)
	}
	if row.AddressID.Valid {
		addr, err := s.Queries.GetAddressForUser(ctx, dbgen.GetAddressForUserParams{ID: row.AddressID, UserID: row.UserID})
		if err == nil && addr.Latitude.Valid && addr.Longitude.Valid {
			v.Delivery = &geo.Point{Lat: addr.Latitude.Float64, Lng: addr.Longitude.Float64}
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return Order{}, fmt.Errorf("get address: %w", err)
		}
	}
	return v, nil
}

func (s *Service) emit(ctx context.Context, topic string, row dbgen.Order, previous dbgen.OrderStatus) {
	if s.Events == nil {
		return
	}
	payload := events.OrderStatusPayload{
		OrderID:        common.UUIDString(row.ID),
		UserID:         common.UUIDString(row.UserID),
		RiderID:        common.UUIDString(row.RiderID),
		Status:         string(row.Status),
		PreviousStatus: string(previous),
	}
	if _, err := s.Events.Emit(ctx, topic, row.ID, payload); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("emit rider event")
	}
}

func parseIDs(riderID, orderID string) (pgtype.UUID, pgtype.UUID, error) {
	rid, err := common.ParseUUID(riderID)
	if err != nil {
		return pgtype.UUID{}, pgtype.UUID{}, ErrOrderNotFound
	}
	oid, err := common.ParseUUID(orderID)
	if err != nil {
		return pgtype.UUID{}, pgtype.UUID{}, ErrOrderNotFound
	}
	return rid, oid, nil
}

// AsAppError maps rider errors onto API errors.
func AsAppError(err error) error {
	if err == nil || common.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, ErrOrderNotFound):
		return common.NewAppError("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound, err)
	case errors.Is(err, ErrAlreadyTaken):
		return common.NewAppError("ORDER_UNAVAILABLE", "Order is no longer available for pickup", http.StatusConflict, err)
	case errors.Is(err, ErrInvalidOTP):
		return common.NewAppError("INVALID_OTP", "Invalid OTP", http.StatusBadRequest, err)
	case errors.Is(err, ErrStatusForbidden):
		return common.NewAppError("STATUS_NOT_ALLOWED", "Status cannot be set by rider", http.StatusBadRequest, err)
	case errors.Is(err, ErrInvalidLocation):
		return common.NewAppError(common.CodeValidation, "Invalid coordinates", http.StatusBadRequest, err)
	}
	return order.AsAppError(err)
}
