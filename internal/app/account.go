package app

import (
	"context"
	"fmt"

	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
)

// FetchAccount returns the account snapshot, or nil if the terminal has none.
func (g *Gateway) FetchAccount(ctx context.Context, s ports.Session) (*domain.AccountSnapshot, error) {
	acc, err := s.AccountInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching account info: %w", err)
	}
	if acc == nil {
		return nil, nil
	}
	return &domain.AccountSnapshot{
		Balance:     acc.Balance,
		Equity:      acc.Equity,
		Margin:      acc.Margin,
		FreeMargin:  acc.MarginFree,
		MarginLevel: acc.MarginLevel,
		Leverage:    acc.Leverage,
		Name:        acc.Name,
		Login:       acc.Login,
		Currency:    acc.Currency,
	}, nil
}
