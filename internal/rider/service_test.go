package rider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/events"
	"github.com/noah-isme/backend-food/internal/geo"
	"github.com/noah-isme/backend-food/internal/order"
)

func pgID() pgtype.UUID { return pgtype.UUID{Bytes: uuid.New(), Valid: true} }

type fakeQueries struct {
	mu     sync.Mutex
	orders map[[16]byte]dbgen.Order
	users  map[[16]byte]dbgen.User
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{orders: map[[16]byte]dbgen.Order{}, users: map[[16]byte]dbgen.User{}}
}

func (f *fakeQueries) addOrder(status dbgen.OrderStatus) dbgen.Order {
	u := dbgen.User{ID: pgID(), Mobile: pgtype.Text{String: "9000000001", Valid: true}, Name: pgtype.Text{String: "Asha", Valid: true}}
	f.users[u.ID.Bytes] = u
	o := dbgen.Order{
		ID:             pgID(),
		UserID:         u.ID,
		DeliveryMethod: "delivery",
		Status:         status,
		Subtotal:       decimal.RequireFromString("100"),
		Tax:            decimal.RequireFromString("5"),
		PlatformFee:    decimal.RequireFromString("5"),
		DeliveryCharge: decimal.RequireFromString("10"),
		CouponDiscount: decimal.Zero,
		TotalPrice:     decimal.RequireFromString("120"),
		DeliveryOtp:    pgtype.Text{String: "1234", Valid: true},
		PaymentMethod:  "cod",
	}
	f.orders[o.ID.Bytes] = o
	return o
}

func (f *fakeQueries) ListOrdersForRider(_ context.Context, arg dbgen.ListOrdersForRiderParams) ([]dbgen.Order, error) {
	var out []dbgen.Order
	for _, o := range f.orders {
		if o.RiderID.Valid && o.RiderID.Bytes == arg.RiderID.Bytes {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeQueries) ListReadyOrdersForPickup(context.Context) ([]dbgen.Order, error) {
	var out []dbgen.Order
	for _, o := range f.orders {
		if o.Status == dbgen.OrderStatusReadyForPickup && !o.RiderID.Valid {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeQueries) AssignRiderToOrder(_ context.Context, arg dbgen.AssignRiderToOrderParams) (dbgen.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[arg.ID.Bytes]
	if !ok || o.RiderID.Valid || o.Status != dbgen.OrderStatusReadyForPickup {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	o.RiderID = arg.RiderID
	o.Status = dbgen.OrderStatusOnTheWay
	f.orders[o.ID.Bytes] = o
	return o, nil
}

func (f *fakeQueries) GetOrderForRider(_ context.Context, arg dbgen.GetOrderForRiderParams) (dbgen.Order, error) {
	o, ok := f.orders[arg.ID.Bytes]
	if !ok || !o.RiderID.Valid || o.RiderID.Bytes != arg.RiderID.Bytes {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	return o, nil
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

func (f *fakeQueries) UpdateRiderLocation(_ context.Context, arg dbgen.UpdateRiderLocationParams) (int64, error) {
	var n int64
	for id, o := range f.orders {
		if o.RiderID.Valid && o.RiderID.Bytes == arg.RiderID.Bytes &&
			(o.Status == dbgen.OrderStatusOnTheWay || o.Status == dbgen.OrderStatusDeliveryPending) {
			o.RiderLat, o.RiderLng = arg.RiderLat, arg.RiderLng
			f.orders[id] = o
			n++
		}
	}
	return n, nil
}

func (f *fakeQueries) ListOrderItems(_ context.Context, orderID pgtype.UUID) ([]dbgen.OrderItem, error) {
	return []dbgen.OrderItem{{ID: pgID(), OrderID: orderID, ItemID: pgID(), ItemName: "Dosa", Quantity: 2,
		PriceAtOrder: decimal.RequireFromString("50"), TaxAtOrder: decimal.RequireFromString("5")}}, nil
}

func (f *fakeQueries) GetUserByID(_ context.Context, id pgtype.UUID) (dbgen.User, error) {
	u, ok := f.users[id.Bytes]
	if !ok {
		return dbgen.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeQueries) GetAddressForUser(context.Context, dbgen.GetAddressForUserParams) (dbgen.Address, error) {
	return dbgen.Address{}, pgx.ErrNoRows
}

type recordingEmitter struct {
	mu     sync.Mutex
	topics []string
}

func (e *recordingEmitter) Emit(_ context.Context, topic string, _ pgtype.UUID, _ any) (dbgen.DomainEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.topics = append(e.topics, topic)
	return dbgen.DomainEvent{}, nil
}

func TestAcceptOnlyOneRiderWins(t *testing.T) {
	q := newFakeQueries()
	em := &recordingEmitter{}
	svc := &Service{Queries: q, Events: em}
	o := q.addOrder(dbgen.OrderStatusReadyForPickup)

	ready, err := svc.Ready(context.Background())
	require.NoError(t, err)
	require.Len(t, ready, 1)
	require.Empty(t, ready[0].DeliveryOTP)
	require.Equal(t, "Asha", ready[0].CustomerName)
	require.Equal(t, 2, ready[0].ItemsCount)

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Accept(context.Background(), common.UUIDString(pgID()), common.UUIDString(o.ID))
			results <- err
		}()
	}
	wg.Wait()
	close(results)
	wins := 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrAlreadyTaken)
	}
	require.Equal(t, 1, wins)
	require.Equal(t, []string{events.TopicOrderAssigned}, em.topics)
	require.Equal(t, dbgen.OrderStatusOnTheWay, q.orders[o.ID.Bytes].Status)
}

func TestDeliverChecksOTP(t *testing.T) {
	q := newFakeQueries()
	em := &recordingEmitter{}
	svc := &Service{Queries: q, Events: em}
	o := q.addOrder(dbgen.OrderStatusReadyForPickup)
	rider := common.UUIDString(pgID())
	_, err := svc.Accept(context.Background(), rider, common.UUIDString(o.ID))
	require.NoError(t, err)

	_, err = svc.Deliver(context.Background(), common.UUIDString(pgID()), common.UUIDString(o.ID), "1234")
	require.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.Deliver(context.Background(), rider, common.UUIDString(o.ID), "9999")
	require.ErrorIs(t, err, ErrInvalidOTP)

	out, err := svc.Deliver(context.Background(), rider, common.UUIDString(o.ID), "1234")
	require.NoError(t, err)
	require.Equal(t, "delivered", out.Status)
	require.Equal(t, []string{events.TopicOrderAssigned, events.TopicOrderDelivered}, em.topics)
}

func TestRiderStatusUpdates(t *testing.T) {
	q := newFakeQueries()
	svc := &Service{Queries: q}
	o := q.addOrder(dbgen.OrderStatusReadyForPickup)
	rider := common.UUIDString(pgID())
	_, err := svc.Accept(context.Background(), rider, common.UUIDString(o.ID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), rider, common.UUIDString(o.ID), "delivered")
	require.ErrorIs(t, err, ErrStatusForbidden)

	_, err = svc.UpdateStatus(context.Background(), rider, common.UUIDString(o.ID), "teleported")
	require.ErrorIs(t, err, order.ErrInvalidStatus)

	out, err := svc.UpdateStatus(context.Background(), rider, common.UUIDString(o.ID), "delivery_pending")
	require.NoError(t, err)
	require.Equal(t, "delivery_pending", out.Status)
}

func TestUpdateLocation(t *testing.T) {
	q := newFakeQueries()
	svc := &Service{Queries: q}
	o := q.addOrder(dbgen.OrderStatusReadyForPickup)
	rider := common.UUIDString(pgID())
	_, err := svc.Accept(context.Background(), rider, common.UUIDString(o.ID))
	require.NoError(t, err)

	_, err = svc.UpdateLocation(context.Background(), rider, geo.Point{Lat: 123, Lng: 80})
	require.ErrorIs(t, err, ErrInvalidLocation)

	n, err := svc.UpdateLocation(context.Background(), rider, geo.Point{Lat: 12.97, Lng: 80.24})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	require.InDelta(t, 12.97, q.orders[o.ID.Bytes].RiderLat.Float64, 1e-9)
}

func TestHandlers(t *testing.T) {
	q := newFakeQueries()
	o := q.addOrder(dbgen.OrderStatusReadyForPickup)
	rider := common.UUIDString(pgID())
	h := &Handler{Service: &Service{Queries: q}}
	r := chi.NewRouter()
	r.Post("/api/v1/rider/orders/{id}/accept", h.Accept)
	r.Post("/api/v1/rider/orders/{id}/deliver", h.Deliver)
	as := func(req *http.Request) *http.Request {
		return req.WithContext(common.WithUserID(req.Context(), rider))
	}
	base := "/api/v1/rider/orders/" + common.UUIDString(o.ID)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, base+"/accept", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, base+"/accept", nil)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, base+"/accept", nil)))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, base+"/deliver", strings.NewReader(`{"otp":"12"}`))))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, as(httptest.NewRequest(http.MethodPost, base+"/deliver", strings.NewReader(`{"otp":"1234"}`))))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"delivered"`)
}
