package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"googlemaps.github.io/maps"

	"github.com/noah-isme/backend-food/internal/resilience"
)

var (
	// ErrNotFound means the geocoder answered but could not place the address.
	ErrNotFound = errors.New("geo: address not found")
	// ErrUnavailable means the geocoder could not be reached or rejected the request.
	ErrUnavailable = errors.New("geo: geocoder unavailable")
)

// Geocoder resolves a free-form address into a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Point, error)
}

// GoogleGeocoder calls the Google Geocoding API through the maps SDK. Requests go over the
// geocoding upstream client, so they are retried and circuit-broken like every other upstream.
type GoogleGeocoder struct {
	APIKey  string
	BaseURL string
	HTTP    resilience.HTTPClient
}

// NewGoogleGeocoder builds a geocoder with the production upstream settings.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{APIKey: apiKey, HTTP: resilience.For(resilience.Geocoding)}
}

func (g *GoogleGeocoder) client() (*maps.Client, error) {
	opts := []maps.ClientOption{
		maps.WithAPIKey(g.APIKey),
		maps.WithHTTPClient(g.HTTP.StdClient()),
	}
	if g.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(g.BaseURL))
	}
	return maps.NewClient(opts...)
}

// Geocode returns the first match for address.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Point{}, ErrNotFound
	}
	if g == nil || g.APIKey == "" {
		return Point{}, fmt.Errorf("%w: api key not configured", ErrUnavailable)
	}
	ctx, span := otel.Tracer("geo").Start(ctx, "geo.Geocode")
	defer span.End()

	c, err := g.client()
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	results, err := c.Geocode(ctx, &maps.GeocodingRequest{Address: address, Region: "in"})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocode failed")
		return Point{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	span.SetAttributes(attribute.Int("geocode.results", len(results)))
	// ZERO_RESULTS is not an error to the SDK; it yields an empty slice.
	if len(results) == 0 {
		return Point{}, ErrNotFound
	}
	loc := results[0].Geometry.Location
	return Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
