package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/geo"
	"github.com/noah-isme/backend-food/internal/pricing"
)

var restaurant = geo.Point{Lat: 12.9697368, Lng: 80.2479267}

type stubQuerier struct {
	addresses []dbgen.Address
	updated   []dbgen.UpdateAddressCoordinatesParams
	deleted   int64
}

func (s *stubQuerier) ListAddressesByUser(context.Context, pgtype.UUID) ([]dbgen.Address, error) {
	return s.addresses, nil
}

func (s *stubQuerier) GetAddressForUser(_ context.Context, arg dbgen.GetAddressForUserParams) (dbgen.Address, error) {
	for _, a := range s.addresses {
		if a.ID == arg.ID && a.UserID == arg.UserID {
			return a, nil
		}
	}
	return dbgen.Address{}, pgx.ErrNoRows
}

func (s *stubQuerier) UpdateAddressCoordinates(_ context.Context, arg dbgen.UpdateAddressCoordinatesParams) error {
	s.updated = append(s.updated, arg)
	return nil
}

func (s *stubQuerier) DeleteAddressForUser(context.Context, dbgen.DeleteAddressForUserParams) (int64, error) {
	return s.deleted, nil
}

type stubGeocoder struct {
	point geo.Point
	err   error
	calls int
}

func (g *stubGeocoder) Geocode(context.Context, string) (geo.Point, error) {
	g.calls++
	return g.point, g.err
}

func newID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func addressAt(userID pgtype.UUID, lat, lng *float64) dbgen.Address {
	a := dbgen.Address{ID: newID(), UserID: userID, FullAddress: "12 Beach Road"}
	if lat != nil {
		a.Latitude = common.Float8(*lat)
		a.Longitude = common.Float8(*lng)
	}
	return a
}

func ptr(v float64) *float64 { return &v }

func newService(q *stubQuerier, g geo.Geocoder) *Service {
	return &Service{Q: q, Geocoder: g, Restaurant: restaurant, Delivery: pricing.DefaultDeliveryPolicy()}
}

func TestListQuotesDeliveryPerAddress(t *testing.T) {
	uid := newID()
	near := addressAt(uid, ptr(restaurant.Lat+0.009), ptr(restaurant.Lng))
	mid := addressAt(uid, ptr(restaurant.Lat+0.027), ptr(restaurant.Lng))
	far := addressAt(uid, ptr(restaurant.Lat+0.09), ptr(restaurant.Lng))
	q := &stubQuerier{addresses: []dbgen.Address{near, mid, far}}

	out, err := newService(q, nil).List(context.Background(), common.UUIDString(uid))
	require.NoError(t, err)
	require.Len(t, out, 3)

	require.True(t, out[0].DeliveryAvailable)
	require.Equal(t, "0.00", out[0].DeliveryCharge)
	require.InDelta(t, 1.0, *out[0].DistanceKm, 0.01)

	require.True(t, out[1].DeliveryAvailable)
	require.NotEqual(t, "0.00", out[1].DeliveryCharge)

	require.False(t, out[2].DeliveryAvailable)
	require.Greater(t, *out[2].DistanceKm, 5.0)
}

func TestListGeocodesAndStoresMissingCoordinates(t *testing.T) {
	uid := newID()
	q := &stubQuerier{addresses: []dbgen.Address{addressAt(uid, nil, nil)}}
	g := &stubGeocoder{point: geo.Point{Lat: restaurant.Lat, Lng: restaurant.Lng}}

	out, err := newService(q, g).List(context.Background(), common.UUIDString(uid))
	require.NoError(t, err)
	require.Equal(t, 1, g.calls)
	require.Len(t, q.updated, 1)
	require.Equal(t, restaurant.Lat, q.updated[0].Latitude.Float64)
	require.NotNil(t, out[0].DistanceKm)
	require.Zero(t, *out[0].DistanceKm)
	require.True(t, out[0].DeliveryAvailable)
}

func TestListKeepsAddressWhenGeocoderFails(t *testing.T) {
	uid := newID()
	q := &stubQuerier{addresses: []dbgen.Address{addressAt(uid, nil, nil)}}
	g := &stubGeocoder{err: geo.ErrUnavailable}

	out, err := newService(q, g).List(context.Background(), common.UUIDString(uid))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Nil(t, out[0].DistanceKm)
	require.False(t, out[0].DeliveryAvailable)
	require.Empty(t, q.updated)
}

func TestLocate(t *testing.T) {
	uid := newID()
	placed := addressAt(uid, ptr(13.0), ptr(80.2))
	unplaced := addressAt(uid, nil, nil)
	q := &stubQuerier{addresses: []dbgen.Address{placed, unplaced}}

	t.Run("stored coordinates", func(t *testing.T) {
		loc, err := newService(q, nil).Locate(context.Background(), common.UUIDString(uid), common.UUIDString(placed.ID))
		require.NoError(t, err)
		require.Equal(t, &geo.Point{Lat: 13.0, Lng: 80.2}, loc.Point)
		require.Equal(t, "12 Beach Road", loc.FullAddress)
	})

	t.Run("not owned", func(t *testing.T) {
		_, err := newService(q, nil).Locate(context.Background(), common.UUIDString(newID()), common.UUIDString(placed.ID))
		require.ErrorIs(t, err, ErrAddressNotFound)
	})

	t.Run("address not placeable", func(t *testing.T) {
		g := &stubGeocoder{err: geo.ErrNotFound}
		loc, err := newService(q, g).Locate(context.Background(), common.UUIDString(uid), common.UUIDString(unplaced.ID))
		require.NoError(t, err)
		require.Nil(t, loc.Point)
	})

	t.Run("geocoder down", func(t *testing.T) {
		g := &stubGeocoder{err: geo.ErrUnavailable}
		_, err := newService(q, g).Locate(context.Background(), common.UUIDString(uid), common.UUIDString(unplaced.ID))
		require.ErrorIs(t, err, geo.ErrUnavailable)

		var appErr *common.AppError
		require.True(t, errors.As(AsAppError(err), &appErr))
		require.Equal(t, http.StatusServiceUnavailable, appErr.HTTPStatus)
	})
}

func TestDeleteMissingAddress(t *testing.T) {
	q := &stubQuerier{deleted: 0}
	err := newService(q, nil).Delete(context.Background(), common.UUIDString(newID()), common.UUIDString(newID()))
	require.ErrorIs(t, err, ErrAddressNotFound)

	var appErr *common.AppError
	require.True(t, errors.As(AsAppError(err), &appErr))
	require.Equal(t, "Address not found", appErr.Message)
}

func TestHandlerDeleteAddress(t *testing.T) {
	uid := newID()
	h := &Handler{Svc: newService(&stubQuerier{deleted: 1}, nil)}
	r := chi.NewRouter()
	r.Delete("/addresses/{id}", h.DeleteAddress)

	req := httptest.NewRequest(http.MethodDelete, "/addresses/"+common.UUIDString(newID()), nil)
	req = req.WithContext(common.WithUserID(req.Context(), common.UUIDString(uid)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandlerListAddressesRequiresAuth(t *testing.T) {
	h := &Handler{Svc: newService(&stubQuerier{}, nil)}
	rec := httptest.NewRecorder()
	h.ListAddresses(rec, httptest.NewRequest(http.MethodGet, "/addresses", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "UNAUTHORIZED", body["error"]["code"])
}
