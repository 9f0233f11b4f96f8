package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
)

// Statuses lists every order lifecycle status.
var Statuses = []dbgen.OrderStatus{
	dbgen.OrderStatusPending,
	dbgen.OrderStatusConfirmed,
	dbgen.OrderStatusPreparing,
	dbgen.OrderStatusReadyForPickup,
	dbgen.OrderStatusPickupPending,
	dbgen.OrderStatusOnTheWay,
	dbgen.OrderStatusDeliveryPending,
	dbgen.OrderStatusPickupFailed,
	dbgen.OrderStatusPickupRescheduled,
	dbgen.OrderStatusDeliveryFailed,
	dbgen.OrderStatusDeliveryRescheduled,
	dbgen.OrderStatusDelivered,
	dbgen.OrderStatusCancelled,
}

// ParseStatus validates a status string.
func ParseStatus(v string) (dbgen.OrderStatus, error) {
	for _, st := range Statuses {
		if string(st) == v {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// TopicFor picks the event topic announcing a move into status.
func TopicFor(status dbgen.OrderStatus) string {
	switch status {
	case dbgen.OrderStatusDelivered:
		return events.TopicOrderDelivered
	case dbgen.OrderStatusCancelled:
		return events.TopicOrderCancelled
	default:
		return events.TopicOrderStatusChanged
	}
}

// AdminList returns a page of all orders, optionally filtered by status.
func (s *Service) AdminList(ctx context.Context, status string, page, perPage int) ([]Order, common.Pagination, error) {
	filter := common.Text(status)
	if filter.Valid {
		if _, err := ParseStatus(filter.String); err != nil {
			return nil, common.Pagination{}, err
		}
	}
	total, err := s.queries.CountOrdersAdmin(ctx, filter)
	if err != nil {
		return nil, common.Pagination{}, fmt.Errorf("count orders: %w", err)
	}
	rows, err := s.queries.ListOrdersAdmin(ctx, dbgen.ListOrdersAdminParams{
		Limit:  int32(perPage),
		Offset: common.Offset(page, perPage),
		Status: filter,
	})
	if err != nil {
		return nil, common.Pagination{}, fmt.Errorf("list orders: %w", err)
	}
	out := make([]Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, toOrder(row, false))
	}
	return out, common.BuildPagination(page, perPage, total), nil
}

// AdminDetail returns any order.
func (s *Service) AdminDetail(ctx context.Context, orderID string) (Detail, error) {
	row, err := s.load(ctx, orderID)
	if err != nil {
		return Detail{}, err
	}
	return s.detail(ctx, row, false)
}

// UpdateStatus moves an order to status. Totals are never recomputed. Setting the current
// status again is a no-op and emits nothing.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (Order, error) {
	target, err := ParseStatus(status)
	if err != nil {
		return Order{}, err
	}
	current, err := s.load(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if current.Status == target {
		return toOrder(current, false), nil
	}
	row, err := s.queries.UpdateOrderStatus(ctx, dbgen.UpdateOrderStatusParams{ID: current.ID, Status: target})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, fmt.Errorf("update status: %w", err)
	}
	s.emit(ctx, TopicFor(target), row, current.Status)
	s.stats.Flush(ctx)
	return toOrder(row, false), nil
}

func (s *Service) load(ctx context.Context, orderID string) (dbgen.Order, error) {
	oid, err := common.ParseUUID(orderID)
	if err != nil {
		return dbgen.Order{}, ErrOrderNotFound
	}
	row, err := s.queries.GetOrderByID(ctx, oid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Order{}, ErrOrderNotFound
		}
		return dbgen.Order{}, fmt.Errorf("get order: %w", err)
	}
	return row, nil
}

// Stats summarises orders created in [From, To).
type Stats struct {
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	TotalOrders     int64     `json:"total_orders"`
	OpenOrders      int64     `json:"open_orders"`
	DeliveredOrders int64     `json:"delivered_orders"`
	CancelledOrders int64     `json:"cancelled_orders"`
	Revenue         string    `json:"revenue"`
	Discounts       string    `json:"discounts"`
}

// Stats returns dashboard counters for the window. A zero window means the current UTC day.
func (s *Service) Stats(ctx context.Context, from, to time.Time) (Stats, error) {
	if from.IsZero() {
		now := s.now().UTC()
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if to.IsZero() || !to.After(from) {
		to = from.Add(24 * time.Hour)
	}
	key := statsKeyPrefix + strconv.FormatInt(from.Unix(), 10) + ":" + strconv.FormatInt(to.Unix(), 10)
	var cached Stats
	if ok := s.stats.get(ctx, key, &cached); ok {
		return cached, nil
	}
	row, err := s.queries.GetDashboardStats(ctx, dbgen.GetDashboardStatsParams{
		CreatedAt:  common.Timestamptz(from),
		CreatedAt2: common.Timestamptz(to),
	})
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	out := Stats{
		From:            from,
		To:              to,
		TotalOrders:     row.TotalOrders,
		OpenOrders:      row.OpenOrders,
		DeliveredOrders: row.DeliveredOrders,
		CancelledOrders: row.CancelledOrders,
		Revenue:         row.Revenue.StringFixed(2),
		Discounts:       row.Discounts.StringFixed(2),
	}
	s.stats.set(ctx, key, out)
	return out, nil
}

const statsKeyPrefix = "dashboard:stats:"

// StatsCache keeps dashboard stats in Redis. A nil StatsCache disables caching.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache constructs a StatsCache.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func (c *StatsCache) get(ctx context.Context, key string, dst *Stats) bool {
	if !c.enabled() {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard stats cache read")
		}
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *StatsCache) set(ctx context.Context, key string, v Stats) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard stats cache write")
	}
}

// Flush drops every cached window.
func (c *StatsCache) Flush(ctx context.Context) {
	if !c.enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, statsKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard stats cache scan")
		return
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}
