package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
	"github.com/noah-isme/backend-food/internal/geo"
)

func pgID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

type emitted struct {
	topic   string
	payload events.OrderStatusPayload
}

type recordingEmitter struct {
	events []emitted
}

func (e *recordingEmitter) Emit(_ context.Context, topic string, _ pgtype.UUID, payload any) (dbgen.DomainEvent, error) {
	p, _ := payload.(events.OrderStatusPayload)
	e.events = append(e.events, emitted{topic: topic, payload: p})
	return dbgen.DomainEvent{}, nil
}

type fakeQueries struct {
	orders      map[[16]byte]dbgen.Order
	items       map[[16]byte][]dbgen.OrderItem
	addresses   map[[16]byte]dbgen.Address
	riders      map[[16]byte]dbgen.Rider
	reviews     map[[16]byte]dbgen.OrderReview
	itemReviews map[[16]byte][]dbgen.OrderItemReview
	statsCalls  int
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		orders:      map[[16]byte]dbgen.Order{},
		items:       map[[16]byte][]dbgen.OrderItem{},
		addresses:   map[[16]byte]dbgen.Address{},
		riders:      map[[16]byte]dbgen.Rider{},
		reviews:     map[[16]byte]dbgen.OrderReview{},
		itemReviews: map[[16]byte][]dbgen.OrderItemReview{},
	}
}

func (f *fakeQueries) addOrder(userID pgtype.UUID, status dbgen.OrderStatus) dbgen.Order {
	o := dbgen.Order{
		ID:             pgID(),
		UserID:         userID,
		DeliveryMethod: "delivery",
		Status:         status,
		Subtotal:       decimal.RequireFromString("150"),
		Tax:            decimal.RequireFromString("7.5"),
		PlatformFee:    decimal.RequireFromString("5"),
		DeliveryCharge: decimal.Zero,
		CouponDiscount: decimal.Zero,
		TotalPrice:     decimal.RequireFromString("162.5"),
		DeliveryOtp:    pgtype.Text{String: "4821", Valid: true},
		PaymentMethod:  "cod",
		CreatedAt:      common.Timestamptz(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	f.orders[o.ID.Bytes] = o
	f.items[o.ID.Bytes] = []dbgen.OrderItem{
		{ID: pgID(), OrderID: o.ID, ItemID: pgID(), ItemName: "Dosa", Quantity: 2, PriceAtOrder: decimal.RequireFromString("60"), TaxAtOrder: decimal.RequireFromString("6")},
		{ID: pgID(), OrderID: o.ID, ItemID: pgID(), ItemName: "Coffee", Quantity: 1, PriceAtOrder: decimal.RequireFromString("30"), TaxAtOrder: decimal.RequireFromString("1.5")},
	}
	return o
}

func (f *fakeQueries) GetOrderForUser(_ context.Context, arg dbgen.GetOrderForUserParams) (dbgen.Order, error) {
	o, ok := f.orders[arg.ID.Bytes]
	if !ok || o.UserID.Bytes != arg.UserID.Bytes {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeQueries) GetOrderByID(_ context.Context, id pgtype.UUID) (dbgen.Order, error) {
	o, ok := f.orders[id.Bytes]
	if !ok {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeQueries) ListOrdersForUser(_ context.Context, arg dbgen.ListOrdersForUserParams) ([]dbgen.Order, error) {
	var out []dbgen.Order
	for _, o := range f.orders {
		if o.UserID.Bytes == arg.UserID.Bytes {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeQueries) CountOrdersForUser(ctx context.Context, userID pgtype.UUID) (int64, error) {
	rows, _ := f.ListOrdersForUser(ctx, dbgen.ListOrdersForUserParams{UserID: userID})
	return int64(len(rows)), nil
}

func (f *fakeQueries) GetActiveOrderForUser(_ context.Context, userID pgtype.UUID) (dbgen.Order, error) {
	for _, o := range f.orders {
		if o.UserID.Bytes == userID.Bytes && o.Status != dbgen.OrderStatusDelivered && o.Status != dbgen.OrderStatusCancelled {
			return o, nil
		}
	}
	return dbgen.Order{}, pgx.ErrNoRows
}

func (f *fakeQueries) CancelOrderForUser(_ context.Context, arg dbgen.CancelOrderForUserParams) (int64, error) {
	o, ok := f.orders[arg.ID.Bytes]
	if !ok || o.UserID.Bytes != arg.UserID.Bytes {
		return 0, nil
	}
	if o.Status != dbgen.OrderStatusConfirmed && o.Status != dbgen.OrderStatusPickupPending {
		return 0, nil
	}
	o.Status = dbgen.OrderStatusCancelled
	f.orders[o.ID.Bytes] = o
	return 1, nil
}

func (f *fakeQueries) ListOrderItems(_ context.Context, orderID pgtype.UUID) ([]dbgen.OrderItem, error) {
	return f.items[orderID.Bytes], nil
}

func (f *fakeQueries) ListOrdersAdmin(_ context.Context, arg dbgen.ListOrdersAdminParams) ([]dbgen.Order, error) {
	var out []dbgen.Order
	for _, o := range f.orders {
		if !arg.Status.Valid || string(o.Status) == arg.Status.String {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeQueries) CountOrdersAdmin(ctx context.Context, status pgtype.Text) (int64, error) {
	rows, _ := f.ListOrdersAdmin(ctx, dbgen.ListOrdersAdminParams{Status: status})
	return int64(len(rows)), nil
}

func (f *fakeQueries) UpdateOrderStatus(_ context.Context, arg dbgen.UpdateOrderStatusParams) (dbgen.Order, error) {
	o, ok := f.orders[arg.ID.Bytes]
	if !ok {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.Status
	f.orders[o.ID.Bytes] = o
	return o, nil
}

func (f *fakeQueries) GetDashboardStats(context.Context, dbgen.GetDashboardStatsParams) (dbgen.GetDashboardStatsRow, error) {
	f.statsCalls++
	row := dbgen.GetDashboardStatsRow{Revenue: decimal.Zero, Discounts: decimal.Zero}
	for _, o := range f.orders {
		row.TotalOrders++
		switch o.Status {
		case dbgen.OrderStatusDelivered:
			row.DeliveredOrders++
		case dbgen.OrderStatusCancelled:
			row.CancelledOrders++
			continue
		default:
			row.OpenOrders++
		}
		row.Revenue = row.Revenue.Add(o.TotalPrice)
		row.Discounts = row.Discounts.Add(o.CouponDiscount)
	}
	return row, nil
}

func (f *fakeQueries) GetAddressForUser(_ context.Context, arg dbgen.GetAddressForUserParams) (dbgen.Address, error) {
	a, ok := f.addresses[arg.ID.Bytes]
	if !ok || a.UserID.Bytes != arg.UserID.Bytes {
		return dbgen.Address{}, pgx.ErrNoRows
	}
	return a, nil
}

func (f *fakeQueries) GetRiderByID(_ context.Context, id pgtype.UUID) (dbgen.Rider, error) {
	r, ok := f.riders[id.Bytes]
	if !ok {
		return dbgen.Rider{}, pgx.ErrNoRows
	}
	return r, nil
}

func (f *fakeQueries) GetOrderReview(_ context.Context, orderID pgtype.UUID) (dbgen.OrderReview, error) {
	r, ok := f.reviews[orderID.Bytes]
	if !ok {
		return dbgen.OrderReview{}, pgx.ErrNoRows
	}
	return r, nil
}

func (f *fakeQueries) ListOrderItemReviews(_ context.Context, reviewID pgtype.UUID) ([]dbgen.OrderItemReview, error) {
	return f.itemReviews[reviewID.Bytes], nil
}

func (f *fakeQueries) CreateOrderReview(_ context.Context, arg dbgen.CreateOrderReviewParams) (dbgen.OrderReview, error) {
	r := dbgen.OrderReview{ID: pgID(), OrderID: arg.OrderID, UserID: arg.UserID, OverallRating: arg.OverallRating, Comment: arg.Comment}
	f.reviews[arg.OrderID.Bytes] = r
	return r, nil
}

func (f *fakeQueries) CreateOrderItemReview(_ context.Context, arg dbgen.CreateOrderItemReviewParams) (dbgen.OrderItemReview, error) {
	r := dbgen.OrderItemReview{ID: pgID(), ReviewID: arg.ReviewID, OrderItemID: arg.OrderItemID, Rating: arg.Rating, Comment: arg.Comment}
	f.itemReviews[arg.ReviewID.Bytes] = append(f.itemReviews[arg.ReviewID.Bytes], r)
	return r, nil
}

var restaurant = geo.Point{Lat: 12.9697368, Lng: 80.2479267}

func newTestService(q *fakeQueries, em *recordingEmitter) *Service {
	return NewService(ServiceConfig{Queries: q, Events: em, Restaurant: restaurant})
}

func TestDetailIncludesLinesRiderAndLocations(t *testing.T) {
	q := newFakeQueries()
	user := pgID()
	o := q.addOrder(user, dbgen.OrderStatusOnTheWay)
	rider := dbgen.Rider{ID: pgID(), Name: "Ravi", Mobile: "9876543210", IsActive: true}
	q.riders[rider.ID.Bytes] = rider
	addr := dbgen.Address{ID: pgID(), UserID: user, Latitude: common.Float8(12.98), Longitude: common.Float8(80.25)}
	q.addresses[addr.ID.Bytes] = addr
	o.RiderID = rider.ID
	o.RiderLat = common.Float8(12.975)
	o.RiderLng = common.Float8(80.249)
	o.AddressID = addr.ID
	q.orders[o.ID.Bytes] = o

	svc := newTestService(q, nil)
	d, err := svc.Detail(context.Background(), common.UUIDString(user), common.UUIDString(o.ID))
	require.NoError(t, err)
	require.Equal(t, "162.50", d.Total)
	require.Equal(t, "4821", d.DeliveryOTP)
	require.Len(t, d.Items, 2)
	require.Equal(t, "126.00", d.Items[0].Total)
	require.Equal(t, "31.50", d.Items[1].Total)
	require.NotNil(t, d.Rider)
	require.Equal(t, "Ravi", d.Rider.Name)
	require.NotNil(t, d.Rider.Location)
	require.NotNil(t, d.Delivery)
	require.Equal(t, restaurant, d.Restaurant)
	require.Nil(t, d.Review)

	_, err = svc.Detail(context.Background(), common.UUIDString(pgID()), common.UUIDString(o.ID))
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeliveryOTPHiddenOnceDelivered(t *testing.T) {
	q := newFakeQueries()
	user := pgID()
	o := q.addOrder(user, dbgen.OrderStatusDelivered)

	d, err := newTestService(q, nil).Detail(context.Background(), common.UUIDString(user), common.UUIDString(o.ID))
	require.NoError(t, err)
	require.Empty(t, d.DeliveryOTP)
}

func TestActiveOrder(t *testing.T) {
	q := newFakeQueries()
	user := pgID()
	svc := newTestService(q, nil)

	active, err := svc.Active(context.Background(), common.UUIDString(user))
	require.NoError(t, err)
	require.Nil(t, active)

	q.addOrder(user, dbgen.OrderStatusDelivered)
	o := q.addOrder(user, dbgen.OrderStatusPreparing)
	active, err = svc.Active(context.Background(), common.UUIDString(user))
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, common.UUIDString(o.ID), active.ID)
}

func TestCancel(t *testing.T) {
	q := newFakeQueries()
	em := &recordingEmitter{}
	user := pgID()
	confirmed := q.addOrder(user, dbgen.OrderStatusConfirmed)
	preparing := q.addOrder(user, dbgen.OrderStatusPreparing)
	svc := newTestService(q, em)

	out, err := svc.Cancel(context.Background(), common.UUIDString(user), common.UUIDString(confirmed.ID))
	require.NoError(t, err)
	require.Equal(t, "cancelled", out.Status)
	require.Len(t, em.events, 1)
	require.Equal(t, events.TopicOrderCancelled, em.events[0].topic)
	require.Equal(t, "confirmed", em.events[0].payload.PreviousStatus)

	_, err = svc.Cancel(context.Background(), common.UUIDString(user), common.UUIDString(preparing.ID))
	require.ErrorIs(t, err, ErrNotCancellable)
	require.Len(t, em.events, 1)

	_, err = svc.Cancel(context.Background(), common.UUIDString(user), "not-a-uuid")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSubmitReview(t *testing.T) {
	q := newFakeQueries()
	user := pgID()
	o := q.addOrder(user, dbgen.OrderStatusOnTheWay)
	svc := newTestService(q, nil)
	uid, oid := common.UUIDString(user), common.UUIDString(o.ID)
	lines := q.items[o.ID.Bytes]

	in := ReviewInput{Items: []ItemRating{
		{OrderItemID: common.UUIDString(lines[0].ID), Rating: 4},
		{OrderItemID: common.UUIDString(lines[1].ID), Rating: 5},
		{OrderItemID: common.UUIDString(pgID()), Rating: 1},
		{OrderItemID: common.UUIDString(lines[1].ID), Rating: 9},
	}}
	_, err := svc.SubmitReview(context.Background(), uid, oid, in)
	require.ErrorIs(t, err, ErrNotDelivered)

	o.Status = dbgen.OrderStatusDelivered
	q.orders[o.ID.Bytes] = o

	_, err = svc.SubmitReview(context.Background(), uid, oid, ReviewInput{})
	require.ErrorIs(t, err, ErrRatingRequired)

	rev, err := svc.SubmitReview(context.Background(), uid, oid, in)
	require.NoError(t, err)
	require.EqualValues(t, 5, rev.OverallRating)
	require.Len(t, rev.Items, 2)

	_, err = svc.SubmitReview(context.Background(), uid, oid, in)
	require.ErrorIs(t, err, ErrAlreadyReviewed)

	got, err := svc.Review(context.Background(), uid, oid)
	require.NoError(t, err)
	require.Equal(t, rev.ID, got.ID)
}

func TestSubmitReviewExplicitOverall(t *testing.T) {
	q := newFakeQueries()
	user := pgID()
	o := q.addOrder(user, dbgen.OrderStatusDelivered)
	three := int32(3)
	comment := "cold coffee"

	rev, err := newTestService(q, nil).SubmitReview(context.Background(), common.UUIDString(user), common.UUIDString(o.ID), ReviewInput{
		OverallRating: &three,
		Comment:       &comment,
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, rev.OverallRating)
	require.Equal(t, "cold coffee", *rev.Comment)
	require.Empty(t, rev.Items)
}

func TestUpdateStatus(t *testing.T) {
	q := newFakeQueries()
	em := &recordingEmitter{}
	o := q.addOrder(pgID(), dbgen.OrderStatusConfirmed)
	svc := newTestService(q, em)
	id := common.UUIDString(o.ID)

	_, err := svc.UpdateStatus(context.Background(), id, "packed")
	require.ErrorIs(t, err, ErrInvalidStatus)

	out, err := svc.UpdateStatus(context.Background(), id, "preparing")
	require.NoError(t, err)
	require.Equal(t, "preparing", out.Status)
	require.Equal(t, "162.50", out.Total)

	_, err = svc.UpdateStatus(context.Background(), id, "preparing")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), id, "delivered")
	require.NoError(t, err)

	require.Len(t, em.events, 2)
	require.Equal(t, events.TopicOrderStatusChanged, em.events[0].topic)
	require.Equal(t, events.TopicOrderDelivered, em.events[1].topic)
	require.Equal(t, "preparing", em.events[1].payload.PreviousStatus)

	_, err = svc.UpdateStatus(context.Background(), common.UUIDString(pgID()), "preparing")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestStatsCachedUntilStatusChange(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	q := newFakeQueries()
	o := q.addOrder(pgID(), dbgen.OrderStatusConfirmed)
	q.addOrder(pgID(), dbgen.OrderStatusDelivered)
	svc := NewService(ServiceConfig{Queries: q, Stats: NewStatsCache(client, time.Minute)})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC) }

	stats, err := svc.Stats(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.TotalOrders)
	require.EqualValues(t, 1, stats.OpenOrders)
	require.Equal(t, "325.00", stats.Revenue)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), stats.From)

	_, err = svc.Stats(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 1, q.statsCalls)

	_, err = svc.UpdateStatus(context.Background(), common.UUIDString(o.ID), "cancelled")
	require.NoError(t, err)

	stats, err = svc.Stats(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 2, q.statsCalls)
	require.EqualValues(t, 1, stats.CancelledOrders)
	require.Equal(t, "162.50", stats.Revenue)
}

func TestHandlersRequireUser(t *testing.T) {
	h := &Handler{Service: newTestService(newFakeQueries(), nil)}
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	(&Handler{}).List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlerListAndCancel(t *testing.T) {
	q := newFakeQueries()
	user := pgID()
	q.addOrder(user, dbgen.OrderStatusConfirmed)
	preparing := q.addOrder(user, dbgen.OrderStatusPreparing)
	h := &Handler{Service: newTestService(q, &recordingEmitter{})}

	r := chi.NewRouter()
	r.Get("/api/v1/orders", h.List)
	r.Post("/api/v1/orders/{id}/cancel", h.Cancel)
	withUser := func(req *http.Request) *http.Request {
		return req.WithContext(common.WithUserID(req.Context(), common.UUIDString(user)))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/orders?page=1&limit=10", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data       []Order           `json:"data"`
		Pagination common.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.EqualValues(t, 2, body.Pagination.TotalItems)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+common.UUIDString(preparing.ID)+"/cancel", nil)))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "ORDER_NOT_CANCELLABLE")
}

func TestAdminPatchStatusHandler(t *testing.T) {
	q := newFakeQueries()
	o := q.addOrder(pgID(), dbgen.OrderStatusConfirmed)
	h := &AdminHandler{Service: newTestService(q, &recordingEmitter{})}
	r := chi.NewRouter()
	r.Patch("/api/v1/admin/orders/{id}/status", h.PatchStatus)
	path := "/api/v1/admin/orders/" + common.UUIDString(o.ID) + "/status"

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{"status":"shipped"}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_STATUS")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{"status":"ready_for_pickup"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, dbgen.OrderStatusReadyForPickup, q.orders[o.ID.Bytes].Status)
}
