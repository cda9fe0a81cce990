package domain

// AccountSnapshot is a point-in-time view of the trading account.
type AccountSnapshot struct {
	Balance     float64 `json:"balance"`
	Equity      float64 `json:"equity"`
	Margin      float64 `json:"margin"`
	FreeMargin  float64 `json:"free_margin"`
	MarginLevel float64 `json:"margin_level"`
	Leverage    int64   `json:"leverage"`
	Name        string  `json:"name"`
	Login       int64   `json:"login"`
	Currency    string  `json:"currency"`
}
