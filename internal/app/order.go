package app

import (
	"context"
	"fmt"

	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
)

// OrderParams are the caller-supplied parameters of a manual market order.
type OrderParams struct {
	Symbol     string
	TradeType  string  // BUY or SELL, any case
	Volume     float64 // Lots
	StopLoss   float64 // Absolute price, 0 for none
	TakeProfit float64 // Absolute price, 0 for none
}

// Validation messages of the trade command.
const (
	msgMissingTradeParams = "Missing trade params"
	msgInvalidTradeType   = "Invalid trade type %s"
	msgInvalidSymbol      = "Invalid symbol %s"
)

// SubmitOrder validates params, builds a market order priced from the live
// quote and submits it once. Validation failures are *ports.ValidationError
// and happen before anything is sent. The broker result is returned as is.
func (g *Gateway) SubmitOrder(ctx context.Context, s ports.Session, params OrderParams) (*domain.OrderSubmission, error) {
	if params.Symbol == "" || params.TradeType == "" || params.Volume == 0 {
		return nil, &ports.ValidationError{Msg: msgMissingTradeParams}
	}

	dir, ok := domain.ParseDirection(params.TradeType)
	if !ok {
		return nil, &ports.ValidationError{Msg: fmt.Sprintf(msgInvalidTradeType, params.TradeType)}
	}

	quote, err := s.SymbolInfoTick(ctx, params.Symbol)
	if err != nil {
		return nil, fmt.Errorf("quoting %s: %w", params.Symbol, err)
	}
	if quote == nil {
		return nil, &ports.ValidationError{Msg: fmt.Sprintf(msgInvalidSymbol, params.Symbol)}
	}

	req := domain.NewMarketOrder(
		params.Symbol,
		dir,
		params.Volume,
		dir.QuotePrice(quote.Bid, quote.Ask),
		params.StopLoss,
		params.TakeProfit,
	)

	g.logger.Info(ctx, "Submitting market order", map[string]interface{}{
		"symbol":    req.Symbol,
		"direction": string(req.Direction),
		"volume":    req.Volume,
		"price":     req.Price,
	})

	result, err := s.OrderSend(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sending order for %s: %w", req.Symbol, err)
	}
	return &domain.OrderSubmission{Order: req, Result: result}, nil
}

// journalOrder appends a submission to the order journal when one is configured.
func (g *Gateway) journalOrder(ctx context.Context, cmd Command, sub *domain.OrderSubmission) {
	if g.journal == nil {
		return
	}
	entry := &ports.JournalEntry{
		InvocationID: cmd.InvocationID,
		Login:        cmd.Credentials.Login,
		Server:       cmd.Credentials.Server,
		Request:      sub.Order,
		Result:       sub.Result,
		SubmittedAt:  g.now(),
	}
	if _, err := g.journal.Record(ctx, entry); err != nil {
		g.logger.Error(ctx, err, "Failed to journal order", map[string]interface{}{"symbol": sub.Order.Symbol})
	}
}
