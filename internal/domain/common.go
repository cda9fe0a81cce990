package domain

import "strings"

// Direction represents the side of a manual order (BUY or SELL).
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// ParseDirection converts a caller-supplied trade type into a Direction.
// Matching is case-insensitive. The second return value is false for anything
// other than BUY or SELL.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, true
	case Sell:
		return Sell, true
	default:
		return "", false
	}
}

// OrderType returns the terminal order type constant for the direction.
func (d Direction) OrderType() OrderType {
	switch d {
	case Sell:
		return OrderTypeSell
	default:
		return OrderTypeBuy
	}
}

// QuotePrice picks the side of the quote a market order of this direction fills against.
func (d Direction) QuotePrice(bid, ask float64) float64 {
	switch d {
	case Sell:
		return bid
	default:
		return ask
	}
}

// OrderType mirrors the terminal's ORDER_TYPE_* constants.
type OrderType int

const (
	OrderTypeBuy  OrderType = 0
	OrderTypeSell OrderType = 1
)

// TradeAction mirrors the terminal's TRADE_ACTION_* constants.
type TradeAction int

// ActionDeal places a market order for immediate execution.
const ActionDeal TradeAction = 1

// OrderTime mirrors the terminal's ORDER_TIME_* constants.
type OrderTime int

// TimeGTC keeps the order until it is explicitly cancelled.
const TimeGTC OrderTime = 0

// OrderFilling mirrors the terminal's ORDER_FILLING_* constants.
type OrderFilling int

// FillingIOC fills what is available immediately and cancels the rest.
const FillingIOC OrderFilling = 1
