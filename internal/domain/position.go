package domain

// Position represents an exposure currently open on the trading account.
// It may disappear between invocations if closed outside the gateway.
type Position struct {
	Ticket     int64     `json:"ticket"`
	Symbol     string    `json:"symbol"`
	Type       int       `json:"type"` // Terminal POSITION_TYPE_* code
	Volume     float64   `json:"volume"`
	OpenPrice  float64   `json:"open_price"`
	StopLoss   float64   `json:"sl"`
	TakeProfit float64   `json:"tp"`
	Profit     float64   `json:"profit"` // Floating profit
	OpenTime   Timestamp `json:"open_time"`
}
