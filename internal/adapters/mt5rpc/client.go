package mt5rpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/rpc"

	msgpackrpc "github.com/hashicorp/net-rpc-msgpackrpc"

	"mt5gateway/internal/ports"
)

// DefaultAddr is where the terminal bridge listens unless configured otherwise.
const DefaultAddr = "127.0.0.1:18812"

// DialFunc opens the transport connection to the terminal bridge.
type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

// Client implements the ports.Terminal interface over msgpack-encoded net/rpc.
type Client struct {
	addr   string
	dial   DialFunc
	logger ports.Logger
}

// Config holds configuration specific to the terminal bridge adapter.
type Config struct {
	Addr   string       // host:port of the terminal bridge
	Logger ports.Logger // Required
	Dial   DialFunc     // Optional, TCP by default
}

// New creates a new terminal bridge adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for terminal client")
	}
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	dial := cfg.Dial
	if dial == nil {
		dial = func(ctx context.Context, addr string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "tcp", addr)
		}
	}
	return &Client{addr: addr, dial: dial, logger: cfg.Logger}, nil
}

// Open connects to the bridge, initializes the terminal and logs in.
func (c *Client) Open(ctx context.Context, creds ports.Credentials) (ports.Session, error) {
	fields := map[string]interface{}{"addr": c.addr, "login": creds.Login, "server": creds.Server}

	conn, err := c.dial(ctx, c.addr)
	if err != nil {
		c.logger.Error(ctx, err, "Terminal bridge unreachable", fields)
		return nil, ipcFailure(err)
	}

	s := &session{
		client: rpc.NewClientWithCodec(msgpackrpc.NewClientCodec(conn)),
		logger: c.logger,
	}

	var reply InitializeReply
	args := InitializeArgs{Login: creds.Login, Password: creds.Password, Server: creds.Server}
	if err := s.call(ctx, "Initialize", args, &reply); err != nil {
		c.logger.Error(ctx, err, "Initialize call failed", fields)
		s.closeTransport()
		return nil, ipcFailure(err)
	}

	if !reply.OK {
		lastErr, err := s.LastError(ctx)
		if err != nil {
			lastErr = ports.LastError{Code: ports.CodeIPCInitFailed, Message: err.Error()}
		}
		if err := s.Shutdown(ctx); err != nil {
			c.logger.Warn(ctx, "Shutdown after failed initialize returned error", map[string]interface{}{"error": err.Error()})
		}
		fields["code"] = lastErr.Code
		c.logger.Warn(ctx, "Terminal initialize/login failed", fields)
		return nil, &ports.ConnectionError{LastError: lastErr}
	}

	c.logger.Debug(ctx, "Terminal session initialized", fields)
	return s, nil
}

func ipcFailure(err error) *ports.ConnectionError {
	return &ports.ConnectionError{LastError: ports.LastError{
		Code:    ports.CodeIPCInitFailed,
		Message: "IPC initialize failed, " + err.Error(),
	}}
}

// handleError translates transport and bridge errors into standardized ports errors.
func handleError(ctx context.Context, logger ports.Logger, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var mappedErr error
	var srvErr rpc.ServerError
	var netErr net.Error
	switch {
	case errors.As(err, &srvErr):
		mappedErr = ports.ErrTerminal
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		mappedErr = ports.ErrContextCanceled
	case errors.Is(err, ports.ErrSessionClosed):
		mappedErr = ports.ErrSessionClosed
	case errors.Is(err, rpc.ErrShutdown),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.As(err, &netErr):
		mappedErr = ports.ErrConnectionFailed
	default:
		mappedErr = ports.ErrUnknown
	}

	logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
}
