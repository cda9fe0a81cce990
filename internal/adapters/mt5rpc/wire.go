package mt5rpc

import (
	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
)

// ServiceName is the net/rpc service the terminal bridge registers.
const ServiceName = "Terminal"

// Empty is used for calls without arguments or without a reply payload.
type Empty struct{}

// InitializeArgs starts the terminal and logs in.
type InitializeArgs struct {
	Login    int64
	Password string
	Server   string
}

// InitializeReply reports whether init and login succeeded.
type InitializeReply struct {
	OK bool
}

// LastErrorReply carries the terminal's last-error payload.
type LastErrorReply struct {
	Code    int
	Message string
}

// AccountInfoReply carries the account record when Found is set.
type AccountInfoReply struct {
	Found   bool
	Account ports.RawAccount
}

// SymbolArgs selects a symbol. An empty Symbol means all symbols where the call allows it.
type SymbolArgs struct {
	Symbol string
}

// TickReply carries the last quote when Found is set.
type TickReply struct {
	Found bool
	Tick  ports.RawTick
}

// RatesArgs requests Count bars from position Start.
type RatesArgs struct {
	Symbol    string
	Timeframe int
	Start     int
	Count     int
}

// RatesReply carries bars oldest first. Found is false when the terminal had no data.
type RatesReply struct {
	Found bool
	Rates []ports.Rate
}

// HistoryArgs bounds a deal-history query in epoch seconds.
type HistoryArgs struct {
	From int64
	To   int64
}

// DealsReply carries closed deals. Found is false when the terminal had no data.
type DealsReply struct {
	Found bool
	Deals []ports.RawDeal
}

// PositionsReply carries open positions. Found is false when the terminal had no data.
type PositionsReply struct {
	Found     bool
	Positions []ports.RawPosition
}

// OrderSendArgs carries a trade request.
type OrderSendArgs struct {
	Request domain.OrderRequest
}

// OrderSendReply carries the broker result. Sent is false when the terminal returned nothing.
type OrderSendReply struct {
	Sent   bool
	Result domain.OrderResult
}
