package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceSamePointIsZero(t *testing.T) {
	p := Point{Lat: 12.9697368, Lng: 80.2479267}
	require.Equal(t, 0.0, Distance(p, p))
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	d := Distance(Point{Lat: 0, Lng: 0}, Point{Lat: 1, Lng: 0})
	require.InDelta(t, 111.19, d, 0.01)
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Point{Lat: 12.9697368, Lng: 80.2479267}
	b := Point{Lat: 13.0067, Lng: 80.2206}
	require.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
	require.InDelta(t, 5.0, Distance(a, b), 0.3)
}

func TestDistanceBetweenUnknown(t *testing.T) {
	a := &Point{Lat: 1, Lng: 1}
	_, ok := DistanceBetween(a, nil)
	require.False(t, ok)
	_, ok = DistanceBetween(nil, a)
	require.False(t, ok)

	km, ok := DistanceBetween(a, a)
	require.True(t, ok)
	require.Zero(t, km)
}
