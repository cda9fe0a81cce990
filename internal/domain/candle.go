package domain

// Candle represents a single bar delivered by the terminal.
type Candle struct {
	Symbol    string    `json:"symbol"`
	Timestamp Timestamp `json:"timestamp"` // Bar open time
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"` // Tick volume
}

// Tick is the most recent quote for a symbol.
type Tick struct {
	Symbol    string    `json:"symbol"`
	Timestamp Timestamp `json:"timestamp"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Last      float64   `json:"last"`
	Volume    int64     `json:"volume"`
}
