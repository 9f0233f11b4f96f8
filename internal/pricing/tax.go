package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Tax returns subtotal × gstPercent / 100 without rounding.
func Tax(subtotal, gstPercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(gstPercent).Div(hundred)
}

// EffectiveGST picks the item override when present, else the category rate.
func EffectiveGST(itemOverride decimal.NullDecimal, categoryRate decimal.Decimal) decimal.Decimal {
	if itemOverride.Valid {
		return itemOverride.Decimal
	}
	return categoryRate
}

// Component is one part of a combo.
type Component struct {
	Price    decimal.Decimal
	Quantity int32
}

// EffectivePrice returns the price a customer pays for one unit of an item. A combo costs the
// sum of its components; its own stored price is ignored.
func EffectivePrice(price decimal.Decimal, isCombo bool, components []Component) decimal.Decimal {
	if !isCombo {
		return price
	}
	total := decimal.Zero
	for _, c := range components {
		total = total.Add(c.Price.Mul(decimal.NewFromInt32(c.Quantity)))
	}
	return total
}
