package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/db"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/geo"
	"github.com/noah-isme/backend-food/internal/obs"
	"github.com/noah-isme/backend-food/internal/pricing"
)

// ErrAddressNotFound indicates the address does not exist or belongs to someone else.
var ErrAddressNotFound = errors.New("user: address not found")

// Querier lists the address queries used by the service.
type Querier interface {
	ListAddressesByUser(ctx context.Context, userID pgtype.UUID) ([]dbgen.Address, error)
	GetAddressForUser(ctx context.Context, arg dbgen.GetAddressForUserParams) (dbgen.Address, error)
	UpdateAddressCoordinates(ctx context.Context, arg dbgen.UpdateAddressCoordinatesParams) error
	DeleteAddressForUser(ctx context.Context, arg dbgen.DeleteAddressForUserParams) (int64, error)
}

// Address is an address with its delivery quote from the restaurant.
type Address struct {
	ID                string    `json:"id"`
	Label             string    `json:"label,omitempty"`
	FullAddress       string    `json:"full_address"`
	Landmark          string    `json:"landmark,omitempty"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	IsDefault         bool      `json:"is_default"`
	DistanceKm        *float64  `json:"distance_km"`
	DeliveryAvailable bool      `json:"delivery_available"`
	DeliveryCharge    string    `json:"delivery_charge"`
	CreatedAt         time.Time `json:"created_at"`
}

// AddressInput captures the payload for a new address.
type AddressInput struct {
	Label       string   `json:"label" validate:"max=50"`
	FullAddress string   `json:"full_address" validate:"required,max=500"`
	Landmark    string   `json:"landmark" validate:"max=200"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	IsDefault   bool     `json:"is_default"`
}

// Location is where an order will be delivered. Point is nil when the address could not be placed.
type Location struct {
	AddressID   pgtype.UUID
	FullAddress string
	Point       *geo.Point
}

// Service manages the address book and resolves delivery locations.
type Service struct {
	Pool       db.TxBeginner
	Q          Querier
	Geocoder   geo.Geocoder
	Restaurant geo.Point
	Delivery   pricing.DeliveryPolicy
}

// List returns the user's addresses with distance and delivery charge. Addresses without
// coordinates are geocoded and updated; geocoder failures leave them without a quote.
func (s *Service) List(ctx context.Context, userID string) ([]Address, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	rows, err := s.Q.ListAddressesByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	out := make([]Address, 0, len(rows))
	for _, row := range rows {
		point, err := s.ensurePoint(ctx, row)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("address_id", common.UUIDString(row.ID)).Msg("geocode address")
		}
		out = append(out, s.toAddress(row, point))
	}
	return out, nil
}

// Create stores a new address. When no coordinates are supplied the address is geocoded
// once up front; a failed lookup is retried on later reads.
func (s *Service) Create(ctx context.Context, userID string, in AddressInput) (Address, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return Address{}, fmt.Errorf("user: %w", err)
	}
	params := dbgen.CreateAddressParams{
		UserID:      uid,
		Label:       common.Text(in.Label),
		FullAddress: strings.TrimSpace(in.FullAddress),
		Landmark:    common.Text(in.Landmark),
		IsDefault:   in.IsDefault,
	}
	if in.Latitude != nil && in.Longitude != nil {
		params.Latitude = common.Float8(*in.Latitude)
		params.Longitude = common.Float8(*in.Longitude)
	} else if s.Geocoder != nil {
		if p, err := s.geocode(ctx, params.FullAddress); err == nil {
			params.Latitude = common.Float8(p.Lat)
			params.Longitude = common.Float8(p.Lng)
		}
	}
	var created dbgen.Address
	err = db.InTx(ctx, s.Pool, func(q *dbgen.Queries) error {
		if in.IsDefault {
			if err := q.UnsetDefaultAddresses(ctx, uid); err != nil {
				return err
			}
		}
		var err error
		created, err = q.CreateAddress(ctx, params)
		return err
	})
	if err != nil {
		return Address{}, fmt.Errorf("create address: %w", err)
	}
	return s.toAddress(created, pointOf(created)), nil
}

// Delete removes an address owned by the user.
func (s *Service) Delete(ctx context.Context, userID, addressID string) error {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return fmt.Errorf("user: %w", err)
	}
	aid, err := common.ParseUUID(addressID)
	if err != nil {
		return ErrAddressNotFound
	}
	n, err := s.Q.DeleteAddressForUser(ctx, dbgen.DeleteAddressForUserParams{ID: aid, UserID: uid})
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if n == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// Locate resolves an owned address into a delivery location, geocoding and storing missing
// coordinates. geo.ErrUnavailable is returned when the geocoder cannot be reached.
func (s *Service) Locate(ctx context.Context, userID, addressID string) (Location, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return Location{}, fmt.Errorf("user: %w", err)
	}
	aid, err := common.ParseUUID(addressID)
	if err != nil {
		return Location{}, ErrAddressNotFound
	}
	row, err := s.Q.GetAddressForUser(ctx, dbgen.GetAddressForUserParams{ID: aid, UserID: uid})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Location{}, ErrAddressNotFound
		}
		return Location{}, fmt.Errorf("load address: %w", err)
	}
	point, err := s.ensurePoint(ctx, row)
	if err != nil && !errors.Is(err, geo.ErrNotFound) {
		return Location{}, err
	}
	return Location{AddressID: row.ID, FullAddress: row.FullAddress, Point: point}, nil
}

func (s *Service) ensurePoint(ctx context.Context, row dbgen.Address) (*geo.Point, error) {
	if p := pointOf(row); p != nil {
		return p, nil
	}
	if s.Geocoder == nil {
		return nil, geo.ErrNotFound
	}
	p, err := s.geocode(ctx, row.FullAddress)
	if err != nil {
		return nil, err
	}
	if err := s.Q.UpdateAddressCoordinates(ctx, dbgen.UpdateAddressCoordinatesParams{
		ID:        row.ID,
		Latitude:  common.Float8(p.Lat),
		Longitude: common.Float8(p.Lng),
	}); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("store geocoded coordinates")
	}
	return &p, nil
}

func (s *Service) geocode(ctx context.Context, address string) (geo.Point, error) {
	p, err := s.Geocoder.Geocode(ctx, address)
	switch {
	case err == nil:
		obs.Inc(obs.GeocodeRequestsTotal, "ok")
	case errors.Is(err, geo.ErrNotFound):
		obs.Inc(obs.GeocodeRequestsTotal, "not_found")
	default:
		obs.Inc(obs.GeocodeRequestsTotal, "unavailable")
	}
	return p, err
}

func (s *Service) toAddress(row dbgen.Address, point *geo.Point) Address {
	a := Address{
		ID:             common.UUIDString(row.ID),
		Label:          row.Label.String,
		FullAddress:    row.FullAddress,
		Landmark:       row.Landmark.String,
		IsDefault:      row.IsDefault,
		DeliveryCharge: decimal.Zero.StringFixed(2),
		CreatedAt:      row.CreatedAt.Time,
	}
	if point == nil {
		return a
	}
	lat, lng := point.Lat, point.Lng
	a.Latitude, a.Longitude = &lat, &lng
	d, ok := geo.DistanceBetween(&s.Restaurant, point)
	if !ok {
		return a
	}
	rounded := decimal.NewFromFloat(d).Round(2).InexactFloat64()
	a.DistanceKm = &rounded
	a.DeliveryAvailable = s.Delivery.Serviceable(d)
	a.DeliveryCharge = s.Delivery.Fee(d, true).StringFixed(2)
	return a
}

func pointOf(row dbgen.Address) *geo.Point {
	if !row.Latitude.Valid || !row.Longitude.Valid {
		return nil
	}
	return &geo.Point{Lat: row.Latitude.Float64, Lng: row.Longitude.Float64}
}

// AsAppError maps address errors onto API errors.
func AsAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrAddressNotFound):
		return common.NewAppError("ADDRESS_NOT_FOUND", "Address not found", http.StatusNotFound, err)
	case errors.Is(err, geo.ErrUnavailable):
		return common.NewAppError("GEOCODER_UNAVAILABLE", "Could not determine delivery location. Please try again.", http.StatusServiceUnavailable, err)
	}
	return err
}
