package mt5rpc

import (
	"context"
	"errors"
	"net/rpc"
	"time"

	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
)

// session implements ports.Session over one bridge connection.
type session struct {
	client *rpc.Client
	logger ports.Logger
	closed bool
}

// call invokes a bridge method and waits for the reply or for ctx. A
// cancelled call closes the transport, so the session is unusable afterwards.
func (s *session) call(ctx context.Context, method string, args, reply interface{}) error {
	if s.closed {
		return ports.ErrSessionClosed
	}
	call := s.client.Go(ServiceName+"."+method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		s.closeTransport()
		return ctx.Err()
	case done := <-call.Done:
		return done.Error
	}
}

func (s *session) closeTransport() {
	s.closed = true
	if err := s.client.Close(); err != nil && !errors.Is(err, rpc.ErrShutdown) {
		s.logger.Debug(context.Background(), "Closing bridge connection returned error", map[string]interface{}{"error": err.Error()})
	}
}

// AccountInfo retrieves the account record.
func (s *session) AccountInfo(ctx context.Context) (*ports.RawAccount, error) {
	op := "AccountInfo"
	var reply AccountInfoReply
	if err := s.call(ctx, op, Empty{}, &reply); err != nil {
		return nil, handleError(ctx, s.logger, err, op)
	}
	if !reply.Found {
		s.logger.Debug(ctx, op+": terminal returned no account info")
		return nil, nil
	}
	acc := reply.Account
	return &acc, nil
}

// SymbolInfoTick retrieves the last quote for a symbol.
func (s *session) SymbolInfoTick(ctx context.Context, symbol string) (*ports.RawTick, error) {
	op := "SymbolInfoTick"
	var reply TickReply
	if err := s.call(ctx, op, SymbolArgs{Symbol: symbol}, &reply); err != nil {
		return nil, handleError(ctx, s.logger, err, op)
	}
	if !reply.Found {
		s.logger.Debug(ctx, op+": no quote for symbol", map[string]interface{}{"symbol": symbol})
		return nil, nil
	}
	tick := reply.Tick
	return &tick, nil
}

// CopyRatesFromPos retrieves count bars starting at position start.
func (s *session) CopyRatesFromPos(ctx context.Context, symbol string, timeframe domain.Timeframe, start, count int) ([]ports.Rate, error) {
	op := "CopyRatesFromPos"
	var reply RatesReply
	args := RatesArgs{Symbol: symbol, Timeframe: int(timeframe), Start: start, Count: count}
	if err := s.call(ctx, op, args, &reply); err != nil {
		return nil, handleError(ctx, s.logger, err, op)
	}
	if !reply.Found {
		s.logger.Debug(ctx, op+": no rates", map[string]interface{}{"symbol": symbol, "timeframe": timeframe.String()})
		return nil, nil
	}
	return reply.Rates, nil
}

// HistoryDeals retrieves closed deals in [from, to].
func (s *session) HistoryDeals(ctx context.Context, from, to time.Time) ([]ports.RawDeal, error) {
	op := "HistoryDealsGet"
	var reply DealsReply
	if err := s.call(ctx, op, HistoryArgs{From: from.Unix(), To: to.Unix()}, &reply); err != nil {
		return nil, handleError(ctx, s.logger, err, op)
	}
	if !reply.Found {
		return nil, nil
	}
	return reply.Deals, nil
}

// Positions retrieves open positions, optionally for one symbol.
func (s *session) Positions(ctx context.Context, symbol string) ([]ports.RawPosition, error) {
	op := "PositionsGet"
	var reply PositionsReply
	if err := s.call(ctx, op, SymbolArgs{Symbol: symbol}, &reply); err != nil {
		return nil, handleError(ctx, s.logger, err, op)
	}
	if !reply.Found {
		return nil, nil
	}
	return reply.Positions, nil
}

// OrderSend submits a trade request and returns the broker result unmodified.
func (s *session) OrderSend(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	op := "OrderSend"
	var reply OrderSendReply
	if err := s.call(ctx, op, OrderSendArgs{Request: req}, &reply); err != nil {
		return nil, handleError(ctx, s.logger, err, op)
	}
	if !reply.Sent {
		s.logger.Warn(ctx, op+": terminal returned no result", map[string]interface{}{"symbol": req.Symbol})
		return nil, nil
	}
	result := reply.Result
	s.logger.Info(ctx, op+" completed", map[string]interface{}{
		"symbol":  req.Symbol,
		"retcode": result.Retcode,
		"order":   result.Order,
		"deal":    result.Deal,
	})
	return &result, nil
}

// LastError retrieves the terminal's last-error payload.
func (s *session) LastError(ctx context.Context) (ports.LastError, error) {
	op := "LastError"
	var reply LastErrorReply
	if err := s.call(ctx, op, Empty{}, &reply); err != nil {
		return ports.LastError{}, handleError(ctx, s.logger, err, op)
	}
	return ports.LastError{Code: reply.Code, Message: reply.Message}, nil
}

// Shutdown ends the terminal session and closes the bridge connection.
func (s *session) Shutdown(ctx context.Context) error {
	op := "Shutdown"
	if s.closed {
		return nil
	}
	var reply Empty
	err := s.call(ctx, op, Empty{}, &reply)
	s.closeTransport()
	if err != nil {
		return handleError(ctx, s.logger, err, op)
	}
	s.logger.Debug(ctx, op+" successful")
	return nil
}
