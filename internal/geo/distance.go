// Package geo computes great-circle distances and resolves street addresses to coordinates.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the Haversine distance between a and b in kilometres.
func Distance(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}

// DistanceBetween is Distance for optional points. ok is false when either side is missing.
func DistanceBetween(a, b *Point) (km float64, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return Distance(*a, *b), true
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
