package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
)

func TestNewGateway(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid configuration",
			cfg:  Config{Terminal: &mockTerminal{}, Logger: &mockLogger{}},
		},
		{
			name:    "missing terminal",
			cfg:     Config{Logger: &mockLogger{}},
			wantErr: true,
		},
		{
			name:    "missing logger",
			cfg:     Config{Terminal: &mockTerminal{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGateway(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.Local, g.location)
			assert.NotNil(t, g.now)
			assert.NotNil(t, g.Sessions())
		})
	}
}

func TestSessionManager_WithSession(t *testing.T) {
	ctx := context.Background()
	creds := ports.Credentials{Login: 1234, Password: "secret", Server: "Demo-Server"}

	t.Run("closes after success", func(t *testing.T) {
		sess := &mockSession{}
		term := &mockTerminal{session: sess}
		g, _ := newTestGateway(t, term, nil)

		called := false
		err := g.Sessions().WithSession(ctx, creds, func(s ports.Session) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, creds, term.lastCred)
		assert.Equal(t, 1, sess.shutdowns)
	})

	t.Run("closes after failure", func(t *testing.T) {
		sess := &mockSession{}
		g, _ := newTestGateway(t, &mockTerminal{session: sess}, nil)

		boom := errors.New("boom")
		err := g.Sessions().WithSession(ctx, creds, func(s ports.Session) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, sess.shutdowns)
	})

	t.Run("open failure skips fn", func(t *testing.T) {
		openErr := &ports.ConnectionError{LastError: ports.LastError{Code: -6, Message: "Terminal: Authorization failed"}}
		g, logger := newTestGateway(t, &mockTerminal{openErr: openErr}, nil)

		err := g.Sessions().WithSession(ctx, creds, func(s ports.Session) error {
			t.Fatal("fn must not run without a session")
			return nil
		})
		assert.ErrorIs(t, err, ports.ErrConnectionFailed)
		assert.Len(t, logger.warnMsgs, 1)
	})

	t.Run("shutdown error is logged", func(t *testing.T) {
		sess := &mockSession{shutdownErr: errors.New("pipe closed")}
		g, logger := newTestGateway(t, &mockTerminal{session: sess}, nil)

		err := g.Sessions().WithSession(ctx, creds, func(s ports.Session) error { return nil })
		require.NoError(t, err)
		assert.Contains(t, logger.errorMsgs, "Terminal shutdown failed")
	})

	t.Run("close ignores nil session", func(t *testing.T) {
		g, _ := newTestGateway(t, &mockTerminal{}, nil)
		assert.NotPanics(t, func() { g.Sessions().Close(ctx, nil) })
	})
}

func TestFetchCandles(t *testing.T) {
	ctx := context.Background()

	t.Run("maps bars in order", func(t *testing.T) {
		sess := &mockSession{rates: []ports.Rate{
			{Time: 1700000000, Open: 1.1, High: 1.2, Low: 1.0, Close: 1.15, TickVolume: 42, Spread: 3, RealVolume: 7},
			{Time: 1700003600, Open: 1.15, High: 1.25, Low: 1.1, Close: 1.2, TickVolume: 17},
		}}
		g, _ := newTestGateway(t, &mockTerminal{session: sess}, nil)

		candles, err := g.FetchCandles(ctx, sess, "EURUSD", domain.TimeframeH1, 2)
		require.NoError(t, err)
		require.Len(t, candles, 2)
		assert.Equal(t, []interface{}{"EURUSD", domain.TimeframeH1, 0, 2}, sess.ratesArgs)

		assert.Equal(t, "EURUSD", candles[0].Symbol)
		assert.Equal(t, "2023-11-14T22:13:20", candles[0].Timestamp.String())
		assert.Equal(t, 1.1, candles[0].Open)
		assert.Equal(t, 1.2, candles[0].High)
		assert.Equal(t, 1.0, candles[0].Low)
		assert.Equal(t, 1.15, candles[0].Close)
		assert.Equal(t, int64(42), candles[0].Volume)
		assert.Equal(t, "2023-11-14T23:13:20", candles[1].Timestamp.String())
	})

	t.Run("no data yields empty slice", func(t *testing.T) {
		sess := &mockSession{}
		g, _ := newTestGateway(t, &mockTerminal{session: sess}, nil)

		candles, err := g.FetchCandles(ctx, sess, "NOPE", domain.TimeframeM5, 10)
		require.NoError(t, err)
		assert.NotNil(t, candles)
		assert.Empty(t, candles)
	})

	t.Run("transport error", func(t *testing.T) {
		sess := &mockSession{ratesErr: ports.ErrConnectionFailed}
		g, _ := newTestGateway(t, &mockTerminal{session: sess}, nil)

		_, err := g.FetchCandles(ctx, sess, "EURUSD", domain.TimeframeH1, 10)
		assert.ErrorIs(t, err, ports.ErrConnectionFailed)
	})
}

func TestFetchTick(t *testing.T) {
	ctx := context.Background()
	sess := &mockSession{ticks: map[string]*ports.RawTick{
		"EURUSD": {Time: 1700000000, Bid: 1.0850, Ask: 1.0852, Last: 0, Volume: 5},
	}}
	g, _ := newTestGateway(t, &mockTerminal{session: sess}, nil)

	tick, err := g.FetchTick(ctx, sess, "EURUSD")
	require.NoError(t, err)
	require.NotNil(t, tick)
	assert.Equal(t, "EURUSD", tick.Symbol)
	assert.Equal(t, 1.0850, tick.Bid)
	assert.Equal(t, 1.0852, tick.Ask)
	assert.Equal(t, int64(5), tick.Volume)
	assert.Equal(t, "2023-11-14T22:13:20", tick.Timestamp.String())

	tick, err = g.FetchTick(ctx, sess, "UNKNOWN")
	require.NoError(t, err)
	assert.Nil(t, tick)
}

func TestFetchOpenPositions(t *testing.T) {
	ctx := context.Background()
	sess := &mockSession{positions: []ports.RawPosition{
		{Ticket: 55, Time: 1700000000, Type: 1, Volume: 0.2, PriceOpen: 1.09, SL: 1.1, TP: 1.05, Profit: -3.5, Symbol: "EURUSD"},
	}}
	g, _ := newTestGateway(t, &mockTerminal{session: sess}, nil)

	positions, err := g.FetchOpenPositions(ctx, sess, "EURUSD")
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", sess.posSymbol)
	require.Len(t, positions, 1)
	p := positions[0]
	assert.Equal(t, int64(55), p.Ticket)
	assert.Equal(t, 1, p.Type)
	assert.Equal(t, 1.09, p.OpenPrice)
	assert.Equal(t, 1.1, p.StopLoss)
	assert.Equal(t, 1.05, p.TakeProfit)
	assert.Equal(t, -3.5, p.Profit)
	assert.Equal(t, "2023-11-14T22:13:20", p.OpenTime.String())

	sess.positions = nil
	positions, err = g.FetchOpenPositions(ctx, sess, "")
	require.NoError(t, err)
	assert.Equal(t, "", sess.posSymbol)
	assert.NotNil(t, positions)
	assert.Empty(t, positions)
}

func TestFetchAccount(t *testing.T) {
	ctx := context.Background()
	sess := &mockSession{account: &ports.RawAccount{
		Login: 1234, Leverage: 100, Balance: 1000, Equity: 1010, Margin: 50,
		MarginFree: 960, MarginLevel: 2020, Name: "Demo", Currency: "USD",
	}}
	g, _ := newTestGateway(t, &mockTerminal{session: sess}, nil)

	acc, err := g.FetchAccount(ctx, sess)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, 960.0, acc.FreeMargin)
	assert.Equal(t, int64(100), acc.Leverage)
	assert.Equal(t, int64(1234), acc.Login)

	sess.account = nil
	acc, err = g.FetchAccount(ctx, sess)
	require.NoError(t, err)
	assert.Nil(t, acc)
}
