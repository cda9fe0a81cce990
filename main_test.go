package main

import (
	"bytes"
	"net"
	"net/rpc"
	"path/filepath"
	"testing"

	msgpackrpc "github.com/hashicorp/net-rpc-msgpackrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"mt5gateway/internal/adapters/mt5rpc"
	"mt5gateway/internal/ports"
)

// terminalStub is a minimal bridge that logs in and serves bars and quotes.
type terminalStub struct{}

func (terminalStub) Initialize(args *mt5rpc.InitializeArgs, reply *mt5rpc.InitializeReply) error {
	reply.OK = args.Password == "pw"
	return nil
}

func (terminalStub) LastError(args *mt5rpc.Empty, reply *mt5rpc.LastErrorReply) error {
	reply.Code = -6
	reply.Message = "Terminal: Authorization failed"
	return nil
}

func (terminalStub) CopyRatesFromPos(args *mt5rpc.RatesArgs, reply *mt5rpc.RatesReply) error {
	if args.Symbol != "EURUSD" {
		return nil
	}
	reply.Found = true
	reply.Rates = []ports.Rate{
		{Time: 1700000000, Open: 1.1, High: 1.2, Low: 1.0, Close: 1.15, TickVolume: 10},
		{Time: 1700003600, Open: 1.15, High: 1.25, Low: 1.1, Close: 1.2, TickVolume: 11},
	}
	return nil
}

func (terminalStub) SymbolInfoTick(args *mt5rpc.SymbolArgs, reply *mt5rpc.TickReply) error {
	if args.Symbol == "EURUSD" {
		reply.Found = true
		reply.Tick = ports.RawTick{Time: 1700000000, Bid: 1.085, Ask: 1.0852}
	}
	return nil
}

func (terminalStub) Shutdown(args *mt5rpc.Empty, reply *mt5rpc.Empty) error {
	return nil
}

// startBridge serves terminalStub on a loopback listener and returns its address.
func startBridge(t *testing.T) string {
	t.Helper()
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName(mt5rpc.ServiceName, terminalStub{}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.ServeCodec(msgpackrpc.NewServerCodec(conn))
		}
	}()
	return ln.Addr().String()
}

// unusedAddr returns a loopback address nothing listens on.
func unusedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func setupEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"MT5_ACCOUNT", "MT5_LOGIN", "MT5_PASSWORD", "MT5_SERVER", "MT5_BRIDGE_ADDR",
		"MT5_LOG_LEVEL", "MT5_LOG_FILE", "MT5_JOURNAL_PATH", "MT5_VALIDATE_OUTPUT",
	} {
		t.Setenv(name, "")
	}
	t.Setenv("MT5_TIMEZONE", "UTC")
}

func invoke(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	code := run(args, &out)
	return code, out.String()
}

func TestRun_UsageError(t *testing.T) {
	setupEnv(t)

	code, out := invoke(t, "--password", "pw", "--server", "Demo")
	assert.Equal(t, 2, code)
	assert.Contains(t, gjson.Get(out, "error").String(), "--account")
}

func TestRun_UnknownTypeNeedsNoTerminal(t *testing.T) {
	setupEnv(t)

	code, out := invoke(t, "--account", "1", "--password", "pw", "--server", "Demo",
		"--bridge", unusedAddr(t), "--type", "nonsense")
	assert.Equal(t, 0, code)
	assert.Equal(t, "{\"error\":\"Invalid type parameter\"}\n", out)
}

func TestRun_UnreachableBridge(t *testing.T) {
	setupEnv(t)
	addr := unusedAddr(t)

	code, out := invoke(t, "--account", "1", "--password", "pw", "--server", "Demo", "--bridge", addr, "--type", "connect")
	assert.Equal(t, 0, code)
	assert.False(t, gjson.Get(out, "success").Bool())
	assert.Contains(t, gjson.Get(out, "error").String(), "(-10003, 'IPC initialize failed")

	code, out = invoke(t, "--account", "1", "--password", "pw", "--server", "Demo", "--bridge", addr, "--symbol", "EURUSD")
	assert.Equal(t, 1, code)
	assert.Contains(t, gjson.Get(out, "error").String(), "Failed to initialize MT5: (-10003, ")
}

func TestRun_EndToEnd(t *testing.T) {
	setupEnv(t)
	addr := startBridge(t)
	t.Setenv("MT5_VALIDATE_OUTPUT", "true")
	t.Setenv("MT5_JOURNAL_PATH", filepath.Join(t.TempDir(), "journal.db"))

	t.Run("candles", func(t *testing.T) {
		code, out := invoke(t, "--account", "1", "--password", "pw", "--server", "Demo", "--bridge", addr,
			"--type", "candle", "--symbol", "EURUSD", "--timeframe", "M5", "--count", "2")
		assert.Equal(t, 0, code)
		bars := gjson.Parse(out).Array()
		require.Len(t, bars, 2)
		assert.Equal(t, "2023-11-14T22:13:20", bars[0].Get("timestamp").String())
		assert.Equal(t, 1.2, bars[1].Get("close").Float())
	})

	t.Run("tick", func(t *testing.T) {
		code, out := invoke(t, "--account", "1", "--password", "pw", "--server", "Demo", "--bridge", addr,
			"--type", "tick", "--symbol", "GBPUSD")
		assert.Equal(t, 0, code)
		assert.Equal(t, "null\n", out)
	})

	t.Run("failed login", func(t *testing.T) {
		code, out := invoke(t, "--account", "1", "--password", "wrong", "--server", "Demo", "--bridge", addr,
			"--type", "account")
		assert.Equal(t, 0, code)
		assert.Equal(t, "{\"success\":false,\"error\":\"(-6, 'Terminal: Authorization failed')\"}\n", out)
	})

	t.Run("trade validation", func(t *testing.T) {
		code, out := invoke(t, "--account", "1", "--password", "pw", "--server", "Demo", "--bridge", addr,
			"--type", "trade", "--symbol", "EURUSD", "--trade_type", "BUY")
		assert.Equal(t, 1, code)
		assert.Equal(t, "{\"error\":\"Missing trade params\"}\n", out)
	})
}
