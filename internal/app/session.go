package app

import (
	"context"

	"mt5gateway/internal/ports"
)

// SessionManager owns the terminal session of one invocation.
type SessionManager struct {
	terminal ports.Terminal
	logger   ports.Logger
}

// NewSessionManager creates a session manager for terminal.
func NewSessionManager(terminal ports.Terminal, logger ports.Logger) *SessionManager {
	return &SessionManager{terminal: terminal, logger: logger}
}

// Open initializes the terminal and logs in. Failures are *ports.ConnectionError.
func (m *SessionManager) Open(ctx context.Context, creds ports.Credentials) (ports.Session, error) {
	s, err := m.terminal.Open(ctx, creds)
	if err != nil {
		m.logger.Warn(ctx, "Terminal session could not be opened", map[string]interface{}{
			"login":  creds.Login,
			"server": creds.Server,
			"error":  err.Error(),
		})
		return nil, err
	}
	m.logger.Info(ctx, "Terminal session opened", map[string]interface{}{"login": creds.Login, "server": creds.Server})
	return s, nil
}

// Close shuts the session down. A nil session is ignored; shutdown errors are
// logged because there is nothing left to do about them.
func (m *SessionManager) Close(ctx context.Context, s ports.Session) {
	if s == nil {
		return
	}
	if err := s.Shutdown(ctx); err != nil {
		m.logger.Error(ctx, err, "Terminal shutdown failed")
		return
	}
	m.logger.Debug(ctx, "Terminal session closed")
}

// WithSession opens a session, runs fn with it and closes it on every path.
func (m *SessionManager) WithSession(ctx context.Context, creds ports.Credentials, fn func(ports.Session) error) error {
	s, err := m.Open(ctx, creds)
	if err != nil {
		return err
	}
	defer m.Close(ctx, s)
	return fn(s)
}
