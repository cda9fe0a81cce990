package app

import (
	"context"
	"fmt"

	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
)

// FetchCandles returns the count most recent bars of symbol, oldest first.
// No data yields an empty slice.
func (g *Gateway) FetchCandles(ctx context.Context, s ports.Session, symbol string, tf domain.Timeframe, count int) ([]domain.Candle, error) {
	rates, err := s.CopyRatesFromPos(ctx, symbol, tf, 0, count)
	if err != nil {
		return nil, fmt.Errorf("fetching candles for %s %s: %w", symbol, tf, err)
	}

	candles := make([]domain.Candle, 0, len(rates))
	for _, r := range rates {
		candles = append(candles, domain.Candle{
			Symbol:    symbol,
			Timestamp: domain.FromEpoch(r.Time, g.location),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.TickVolume,
		})
	}
	g.logger.Debug(ctx, "Candles fetched", map[string]interface{}{"symbol": symbol, "timeframe": tf.String(), "requested": count, "count": len(candles)})
	return candles, nil
}

// FetchTick returns the latest quote of symbol, or nil if the terminal has none.
func (g *Gateway) FetchTick(ctx context.Context, s ports.Session, symbol string) (*domain.Tick, error) {
	raw, err := s.SymbolInfoTick(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetching tick for %s: %w", symbol, err)
	}
	if raw == nil {
		return nil, nil
	}
	return &domain.Tick{
		Symbol:    symbol,
		Timestamp: domain.FromEpoch(raw.Time, g.location),
		Bid:       raw.Bid,
		Ask:       raw.Ask,
		Last:      raw.Last,
		Volume:    raw.Volume,
	}, nil
}
