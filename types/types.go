package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// SideOf maps a direction flag to its Side.
func SideOf(buy bool) Side {
	if buy {
		return Buy
	}
	return Sell
}

// Order is always a market order; Price is the reference price the
// strategy saw when it decided to trade.
type Order struct {
	Symbol string
	Side   Side
	Qty    decimal.Decimal
	Price  decimal.Decimal
	// meta
	Comment string
}

type Fill struct {
	ID     string
	Symbol string
	Side   Side
	Qty    decimal.Decimal
	Price  decimal.Decimal
	Time   time.Time
}
