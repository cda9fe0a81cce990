package domain

// Deal represents a closed execution from the terminal's deal history.
type Deal struct {
	DealID  int64     `json:"deal_id"`
	OrderID int64     `json:"order_id"`
	Symbol  string    `json:"symbol"`
	Type    int       `json:"type"` // Terminal DEAL_TYPE_* code
	Volume  float64   `json:"volume"`
	Price   float64   `json:"price"`
	Profit  float64   `json:"profit"`
	Time    Timestamp `json:"time"`
}
