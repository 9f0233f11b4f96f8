package pricing

import (
	"github.com/shopspring/decimal"
)

// DeliveryPolicy maps a delivery distance to a fee. Distances up to FreeRadiusKm (inclusive)
// are free; every kilometre beyond it costs PerKm. Nothing beyond MaxRadiusKm is serviceable.
type DeliveryPolicy struct {
	FreeRadiusKm float64
	PerKm        decimal.Decimal
	MaxRadiusKm  float64
}

// DefaultDeliveryPolicy is free up to 2 km, 10 per km after, delivering within 5 km.
func DefaultDeliveryPolicy() DeliveryPolicy {
	return DeliveryPolicy{FreeRadiusKm: 2, PerKm: decimal.NewFromInt(10), MaxRadiusKm: 5}
}

// Fee returns the delivery charge for a distance. An unknown distance is charged nothing;
// callers reject unresolvable locations before pricing.
func (p DeliveryPolicy) Fee(distanceKm float64, known bool) decimal.Decimal {
	if !known || distanceKm <= p.FreeRadiusKm {
		return decimal.Zero
	}
	extra := decimal.NewFromFloat(distanceKm - p.FreeRadiusKm)
	return extra.Mul(p.PerKm).Round(2)
}

// Serviceable reports whether distanceKm lies within the delivery radius. The boundary is included.
func (p DeliveryPolicy) Serviceable(distanceKm float64) bool {
	return distanceKm <= p.MaxRadiusKm
}
