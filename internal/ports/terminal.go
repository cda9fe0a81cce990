package ports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mt5gateway/internal/domain"
)

// Credentials identify the trading account a session logs in to.
type Credentials struct {
	Login    int64  // Numeric account id
	Password string // Account password
	Server   string // Broker trade server name
}

// LastError is the terminal's last-error payload.
type LastError struct {
	Code    int
	Message string
}

// String renders the payload as "(code, 'message')", the form terminal
// clients print. A message containing a single quote and no double quote is
// wrapped in double quotes instead.
func (e LastError) String() string {
	return fmt.Sprintf("(%d, %s)", e.Code, quoteMessage(e.Message))
}

func quoteMessage(msg string) string {
	quote := byte('\'')
	if strings.IndexByte(msg, '\'') >= 0 && strings.IndexByte(msg, '"') < 0 {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range msg {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// Rate is a raw bar as delivered by the terminal.
type Rate struct {
	Time       int64 // Bar open time, terminal epoch seconds
	Open       float64
	High       float64
	Low        float64
	Close      float64
	TickVolume int64
	Spread     int32
	RealVolume int64
}

// RawTick is the terminal's last quote for a symbol.
type RawTick struct {
	Time   int64 // Epoch seconds
	Bid    float64
	Ask    float64
	Last   float64
	Volume int64
}

// RawDeal is an entry of the terminal's closed-deal ledger.
type RawDeal struct {
	Ticket int64
	Order  int64
	Time   int64
	Type   int
	Volume float64
	Price  float64
	Profit float64
	Symbol string
}

// RawPosition is an open position as reported by the terminal.
type RawPosition struct {
	Ticket    int64
	Time      int64
	Type      int
	Volume    float64
	PriceOpen float64
	SL        float64
	TP        float64
	Profit    float64
	Symbol    string
}

// RawAccount is the terminal's account information record.
type RawAccount struct {
	Login       int64
	Leverage    int64
	Balance     float64
	Equity      float64
	Margin      float64
	MarginFree  float64
	MarginLevel float64
	Name        string
	Currency    string
}

// Terminal opens sessions against a trading terminal.
type Terminal interface {
	// Open initializes the terminal and logs in with the given credentials.
	// Init or login failures are reported as *ConnectionError. A partially
	// opened session is shut down before Open returns an error.
	Open(ctx context.Context, creds Credentials) (Session, error)
}

// Session is a live, logged-in terminal session. Absent data is reported as a
// nil result with a nil error; errors are reserved for transport failures.
type Session interface {
	// AccountInfo returns the account record, or nil if the terminal has none.
	AccountInfo(ctx context.Context) (*RawAccount, error)

	// SymbolInfoTick returns the last quote for symbol, or nil if unknown.
	SymbolInfoTick(ctx context.Context, symbol string) (*RawTick, error)

	// CopyRatesFromPos returns count bars starting at position start (0 = current bar),
	// oldest first. Returns nil if the terminal has no data.
	CopyRatesFromPos(ctx context.Context, symbol string, timeframe domain.Timeframe, start, count int) ([]Rate, error)

	// HistoryDeals returns closed deals with times in [from, to].
	HistoryDeals(ctx context.Context, from, to time.Time) ([]RawDeal, error)

	// Positions returns open positions, filtered to symbol when it is non-empty.
	Positions(ctx context.Context, symbol string) ([]RawPosition, error)

	// OrderSend submits a trade request. A nil result means the terminal returned nothing.
	OrderSend(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error)

	// LastError returns the terminal's last-error payload.
	LastError(ctx context.Context) (LastError, error)

	// Shutdown ends the session. Calling it more than once is a no-op.
	Shutdown(ctx context.Context) error
}
