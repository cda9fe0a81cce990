package app

import (
	"context"
	"fmt"

	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
)

// FetchOpenPositions returns open positions, all of them when symbol is empty.
func (g *Gateway) FetchOpenPositions(ctx context.Context, s ports.Session, symbol string) ([]domain.Position, error) {
	raw, err := s.Positions(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetching open positions: %w", err)
	}

	positions := make([]domain.Position, 0, len(raw))
	for _, p := range raw {
		positions = append(positions, domain.Position{
			Ticket:     p.Ticket,
			Symbol:     p.Symbol,
			Type:       p.Type,
			Volume:     p.Volume,
			OpenPrice:  p.PriceOpen,
			StopLoss:   p.SL,
			TakeProfit: p.TP,
			Profit:     p.Profit,
			OpenTime:   domain.FromEpoch(p.Time, g.location),
		})
	}
	return positions, nil
}
