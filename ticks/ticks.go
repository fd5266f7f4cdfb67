// Package ticks converts between tick-denominated distances, absolute price
// offsets and money amounts for a single instrument.
package ticks

import "github.com/shopspring/decimal"

// ToPriceOffset turns a distance expressed in ticks (pips/points) into an
// absolute price offset. A non-positive tick size yields zero.
func ToPriceOffset(units, tickSize decimal.Decimal) decimal.Decimal {
	if !tickSize.IsPositive() {
		return decimal.Zero
	}
	return units.Mul(tickSize)
}

// ToMoney values a price move of priceDelta for the given volume.
// Missing tick metadata (size or value <= 0) yields zero.
func ToMoney(priceDelta, tickSize, tickValue, volume decimal.Decimal) decimal.Decimal {
	if !tickSize.IsPositive() || !tickValue.IsPositive() {
		return decimal.Zero
	}
	return priceDelta.Div(tickSize).Mul(tickValue).Mul(volume)
}
