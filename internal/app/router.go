package app

import (
	"context"
	"errors"
	"io"

	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
	"mt5gateway/internal/schema"
)

// Command types accepted by the gateway.
const (
	CommandCandle       = "candle"
	CommandTick         = "tick"
	CommandConnect      = "connect"
	CommandAccount      = "account"
	CommandTradeHistory = "trade_history"
	CommandTrade        = "trade"
	CommandOpenTrades   = "open_trades"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

const (
	msgInvalidType        = "Invalid type parameter"
	msgAccountUnavailable = "Could not retrieve account info"
)

// Command is one parsed gateway invocation.
type Command struct {
	Type         string
	Credentials  ports.Credentials
	Symbol       string
	Timeframe    domain.Timeframe
	Count        int
	From         string // ISO-8601, optional
	To           string // ISO-8601, optional
	TradeType    string
	Volume       float64
	StopLoss     float64
	TakeProfit   float64
	InvocationID string
}

type connectResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type accountResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	*domain.AccountSnapshot
}

// Run executes cmd, writes exactly one JSON document to w and returns the
// process exit code. The session, if one is opened, is released after the
// document is written.
func (g *Gateway) Run(ctx context.Context, cmd Command, w io.Writer) int {
	switch cmd.Type {
	case CommandConnect:
		return g.runConnect(ctx, cmd, w)
	case CommandAccount:
		return g.runAccount(ctx, cmd, w)
	case CommandCandle, CommandTick, CommandTradeHistory, CommandTrade, CommandOpenTrades:
		return g.runData(ctx, cmd, w)
	default:
		g.logger.Warn(ctx, "Unknown command type", map[string]interface{}{"type": cmd.Type})
		return g.emit(ctx, w, schema.KindError, ErrorDocument{Error: msgInvalidType}, ExitOK)
	}
}

func (g *Gateway) runConnect(ctx context.Context, cmd Command, w io.Writer) int {
	s, err := g.sessions.Open(ctx, cmd.Credentials)
	if err != nil {
		return g.emit(ctx, w, schema.KindConnect, connectResponse{Error: lastErrorText(err)}, ExitOK)
	}
	defer g.sessions.Close(ctx, s)
	return g.emit(ctx, w, schema.KindConnect, connectResponse{Success: true}, ExitOK)
}

func (g *Gateway) runAccount(ctx context.Context, cmd Command, w io.Writer) int {
	s, err := g.sessions.Open(ctx, cmd.Credentials)
	if err != nil {
		return g.emit(ctx, w, schema.KindAccount, accountResponse{Error: lastErrorText(err)}, ExitOK)
	}
	defer g.sessions.Close(ctx, s)

	snapshot, err := g.FetchAccount(ctx, s)
	if err != nil {
		g.logger.Error(ctx, err, "Account info request failed")
	}
	if snapshot == nil {
		return g.emit(ctx, w, schema.KindAccount, accountResponse{Error: msgAccountUnavailable}, ExitOK)
	}
	return g.emit(ctx, w, schema.KindAccount, accountResponse{Success: true, AccountSnapshot: snapshot}, ExitOK)
}

func (g *Gateway) runData(ctx context.Context, cmd Command, w io.Writer) int {
	s, err := g.sessions.Open(ctx, cmd.Credentials)
	if err != nil {
		return g.emit(ctx, w, schema.KindError, ErrorDocument{Error: err.Error()}, ExitFailure)
	}
	defer g.sessions.Close(ctx, s)

	kind, doc, err := g.dispatch(ctx, s, cmd)
	if err != nil {
		var verr *ports.ValidationError
		if errors.As(err, &verr) {
			g.logger.Warn(ctx, "Trade rejected by validation", map[string]interface{}{"reason": verr.Msg})
		} else {
			g.logger.Error(ctx, err, "Command failed", map[string]interface{}{"type": cmd.Type})
		}
		return g.emit(ctx, w, schema.KindError, ErrorDocument{Error: err.Error()}, ExitFailure)
	}
	return g.emit(ctx, w, kind, doc, ExitOK)
}

func (g *Gateway) dispatch(ctx context.Context, s ports.Session, cmd Command) (string, interface{}, error) {
	switch cmd.Type {
	case CommandCandle:
		candles, err := g.FetchCandles(ctx, s, cmd.Symbol, cmd.Timeframe, cmd.Count)
		return schema.KindCandle, candles, err
	case CommandTick:
		tick, err := g.FetchTick(ctx, s, cmd.Symbol)
		return schema.KindTick, tick, err
	case CommandTradeHistory:
		deals, err := g.FetchTradeHistory(ctx, s, cmd.From, cmd.To)
		return schema.KindTradeHistory, deals, err
	case CommandOpenTrades:
		positions, err := g.FetchOpenPositions(ctx, s, cmd.Symbol)
		return schema.KindOpenTrades, positions, err
	case CommandTrade:
		sub, err := g.SubmitOrder(ctx, s, OrderParams{
			Symbol:     cmd.Symbol,
			TradeType:  cmd.TradeType,
			Volume:     cmd.Volume,
			StopLoss:   cmd.StopLoss,
			TakeProfit: cmd.TakeProfit,
		})
		if err != nil {
			return schema.KindTrade, nil, err
		}
		g.journalOrder(ctx, cmd, sub)
		return schema.KindTrade, sub, nil
	}
	return schema.KindError, ErrorDocument{Error: msgInvalidType}, nil
}

// emit writes doc and returns code, or ExitFailure if the document could not be written.
func (g *Gateway) emit(ctx context.Context, w io.Writer, kind string, doc interface{}, code int) int {
	if err := g.output.Write(ctx, w, kind, doc); err != nil {
		g.logger.Error(ctx, err, "Failed to write output document", map[string]interface{}{"kind": kind})
		return ExitFailure
	}
	return code
}

// lastErrorText renders an open failure the way connect and account report it.
func lastErrorText(err error) string {
	var cerr *ports.ConnectionError
	if errors.As(err, &cerr) {
		return cerr.LastError.String()
	}
	return err.Error()
}
