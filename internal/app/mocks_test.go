package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
)

// Mock implementations
type mockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.debugMsgs = append(m.debugMsgs, msg)
}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.warnMsgs = append(m.warnMsgs, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

func (m *mockLogger) With(fields map[string]interface{}) ports.Logger {
	return m
}

type mockTerminal struct {
	session  *mockSession
	openErr  error
	opened   int
	lastCred ports.Credentials
}

func (m *mockTerminal) Open(ctx context.Context, creds ports.Credentials) (ports.Session, error) {
	m.opened++
	m.lastCred = creds
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.session, nil
}

type mockSession struct {
	account    *ports.RawAccount
	accountErr error
	ticks      map[string]*ports.RawTick
	tickErr    error
	rates      []ports.Rate
	ratesErr   error
	deals      []ports.RawDeal
	dealsErr   error
	positions  []ports.RawPosition
	orderRes   *domain.OrderResult
	orderErr   error

	// Recorded calls
	ratesArgs   []interface{}
	historyFrom time.Time
	historyTo   time.Time
	posSymbol   string
	sentOrders  []domain.OrderRequest
	shutdowns   int
	shutdownErr error
}

func (m *mockSession) AccountInfo(ctx context.Context) (*ports.RawAccount, error) {
	return m.account, m.accountErr
}

func (m *mockSession) SymbolInfoTick(ctx context.Context, symbol string) (*ports.RawTick, error) {
	if m.tickErr != nil {
		return nil, m.tickErr
	}
	return m.ticks[symbol], nil
}

func (m *mockSession) CopyRatesFromPos(ctx context.Context, symbol string, tf domain.Timeframe, start, count int) ([]ports.Rate, error) {
	m.ratesArgs = []interface{}{symbol, tf, start, count}
	return m.rates, m.ratesErr
}

func (m *mockSession) HistoryDeals(ctx context.Context, from, to time.Time) ([]ports.RawDeal, error) {
	m.historyFrom, m.historyTo = from, to
	return m.deals, m.dealsErr
}

func (m *mockSession) Positions(ctx context.Context, symbol string) ([]ports.RawPosition, error) {
	m.posSymbol = symbol
	return m.positions, nil
}

func (m *mockSession) OrderSend(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	m.sentOrders = append(m.sentOrders, req)
	return m.orderRes, m.orderErr
}

func (m *mockSession) LastError(ctx context.Context) (ports.LastError, error) {
	return ports.LastError{Code: 1, Message: "Success"}, nil
}

func (m *mockSession) Shutdown(ctx context.Context) error {
	m.shutdowns++
	return m.shutdownErr
}

type mockJournal struct {
	entries []*ports.JournalEntry
	err     error
}

func (m *mockJournal) Record(ctx context.Context, entry *ports.JournalEntry) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.entries = append(m.entries, entry)
	return int64(len(m.entries)), nil
}

func (m *mockJournal) Close() error { return nil }

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// newTestGateway builds a gateway over a mock terminal with UTC display time.
func newTestGateway(t *testing.T, term *mockTerminal, journal ports.OrderJournal) (*Gateway, *mockLogger) {
	t.Helper()
	logger := &mockLogger{}
	g, err := NewGateway(Config{
		Terminal: term,
		Logger:   logger,
		Journal:  journal,
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return g, logger
}
