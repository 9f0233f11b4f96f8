package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTaxKeepsFullPrecision(t *testing.T) {
	got := Tax(decimal.RequireFromString("99.99"), decimal.RequireFromString("5"))
	require.Equal(t, "4.9995", got.String())
}

func TestEffectiveGSTPrefersItemOverride(t *testing.T) {
	category := decimal.NewFromInt(5)
	require.True(t, EffectiveGST(decimal.NullDecimal{}, category).Equal(category))

	override := decimal.NullDecimal{Decimal: decimal.NewFromInt(18), Valid: true}
	require.Equal(t, "18", EffectiveGST(override, category).String())

	zero := decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
	require.True(t, EffectiveGST(zero, category).IsZero())
}

func TestEffectivePriceForCombo(t *testing.T) {
	components := []Component{
		{Price: decimal.RequireFromString("120.00"), Quantity: 1},
		{Price: decimal.RequireFromString("40.50"), Quantity: 2},
	}
	require.Equal(t, "201", EffectivePrice(decimal.NewFromInt(150), true, components).String())
	require.Equal(t, "150", EffectivePrice(decimal.NewFromInt(150), false, components).String())
	require.True(t, EffectivePrice(decimal.NewFromInt(150), true, nil).IsZero())
}
