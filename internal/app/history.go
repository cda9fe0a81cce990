package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
)

// DefaultHistoryLookback is how far back the history window reaches when no start is given.
const DefaultHistoryLookback = 30 * 24 * time.Hour

// Accepted ISO-8601 forms. Layouts without an offset are read as UTC.
var instantLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseInstant parses an ISO-8601 timestamp. Fractional seconds are accepted
// after the seconds field. The result is in UTC.
func parseInstant(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Window is the closed interval of a deal-history query.
type Window struct {
	From time.Time
	To   time.Time

	FromDefaulted bool // From was absent or unparseable
	ToDefaulted   bool // To was absent or unparseable
}

// ResolveWindow builds the history window from optional ISO-8601 bounds.
// An absent or unparseable from becomes now-30d and an absent or unparseable
// to becomes now. Bounds are returned in UTC.
func ResolveWindow(from, to string, now time.Time) Window {
	now = now.UTC()
	w := Window{}

	if t, ok := parseInstant(from); ok {
		w.From = t
	} else {
		w.From = now.Add(-DefaultHistoryLookback)
		w.FromDefaulted = true
	}

	if t, ok := parseInstant(to); ok {
		w.To = t
	} else {
		w.To = now
		w.ToDefaulted = true
	}
	return w
}

// FetchTradeHistory returns the closed deals in the resolved window.
func (g *Gateway) FetchTradeHistory(ctx context.Context, s ports.Session, from, to string) ([]domain.Deal, error) {
	w := ResolveWindow(from, to, g.now())
	if from != "" && w.FromDefaulted {
		g.logger.Debug(ctx, "Discarded unparseable history start", map[string]interface{}{"from": from})
	}
	if to != "" && w.ToDefaulted {
		g.logger.Debug(ctx, "Discarded unparseable history end", map[string]interface{}{"to": to})
	}

	raw, err := s.HistoryDeals(ctx, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("fetching trade history: %w", err)
	}

	deals := make([]domain.Deal, 0, len(raw))
	for _, d := range raw {
		deals = append(deals, domain.Deal{
			DealID:  d.Ticket,
			OrderID: d.Order,
			Symbol:  d.Symbol,
			Type:    d.Type,
			Volume:  d.Volume,
			Price:   d.Price,
			Profit:  d.Profit,
			Time:    domain.FromEpoch(d.Time, g.location),
		})
	}
	g.logger.Debug(ctx, "Trade history fetched", map[string]interface{}{
		"from":  w.From.Format(time.RFC3339),
		"to":    w.To.Format(time.RFC3339),
		"count": len(deals),
	})
	return deals, nil
}
