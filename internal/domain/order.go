package domain

const (
	// OrderDeviation is the slippage tolerance, in points, of every gateway order.
	OrderDeviation = 20
	// OrderMagic tags orders placed through the gateway.
	OrderMagic int64 = 1000
	// OrderComment marks orders placed through the gateway.
	OrderComment = "Manual trade from web"
)

// OrderRequest is a market order exactly as it is handed to the terminal.
type OrderRequest struct {
	Action      TradeAction  `json:"action"`
	Symbol      string       `json:"symbol"`
	Volume      float64      `json:"volume"`
	Direction   Direction    `json:"direction"`
	Type        OrderType    `json:"type"`
	Price       float64      `json:"price"` // Quoted at request time, not guaranteed at fill
	Deviation   int          `json:"deviation"`
	Magic       int64        `json:"magic"`
	Comment     string       `json:"comment"`
	TypeTime    OrderTime    `json:"type_time"`
	TypeFilling OrderFilling `json:"type_filling"`
	StopLoss    *float64     `json:"sl,omitempty"` // Absolute price
	TakeProfit  *float64     `json:"tp,omitempty"` // Absolute price
}

// NewMarketOrder builds a gateway market order. Zero stopLoss or takeProfit
// values are left out of the request.
func NewMarketOrder(symbol string, dir Direction, volume, price, stopLoss, takeProfit float64) OrderRequest {
	req := OrderRequest{
		Action:      ActionDeal,
		Symbol:      symbol,
		Volume:      volume,
		Direction:   dir,
		Type:        dir.OrderType(),
		Price:       price,
		Deviation:   OrderDeviation,
		Magic:       OrderMagic,
		Comment:     OrderComment,
		TypeTime:    TimeGTC,
		TypeFilling: FillingIOC,
	}
	if stopLoss != 0 {
		sl := stopLoss
		req.StopLoss = &sl
	}
	if takeProfit != 0 {
		tp := takeProfit
		req.TakeProfit = &tp
	}
	return req
}

// OrderResult is the broker's answer to an order submission. The gateway
// forwards it as received and never interprets the retcode.
type OrderResult struct {
	Retcode         int64         `json:"retcode"`
	Deal            int64         `json:"deal"`
	Order           int64         `json:"order"`
	Volume          float64       `json:"volume"`
	Price           float64       `json:"price"`
	Bid             float64       `json:"bid"`
	Ask             float64       `json:"ask"`
	Comment         string        `json:"comment"`
	RequestID       int64         `json:"request_id"`
	RetcodeExternal int64         `json:"retcode_external"`
	Request         *OrderRequest `json:"request,omitempty"`
}

// OrderSubmission pairs a submitted request with the terminal's result.
// Result is nil when the terminal returned nothing.
type OrderSubmission struct {
	Order  OrderRequest `json:"order"`
	Result *OrderResult `json:"result"`
}
