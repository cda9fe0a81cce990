package app

import (
	"fmt"
	"time"

	"mt5gateway/internal/ports"
	"mt5gateway/internal/schema"
)

// Config holds the collaborators of a Gateway.
type Config struct {
	Terminal  ports.Terminal     // Required
	Logger    ports.Logger       // Required
	Journal   ports.OrderJournal // Optional order audit trail
	Validator *schema.Validator  // Optional output schema check
	Location  *time.Location     // Display location of timestamps, time.Local if nil
	Now       func() time.Time   // Clock, time.Now if nil
}

// Gateway serves one command against one terminal session.
type Gateway struct {
	sessions *SessionManager
	logger   ports.Logger
	journal  ports.OrderJournal
	output   *Serializer
	location *time.Location
	now      func() time.Time
}

// NewGateway creates a new gateway instance.
func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.Terminal == nil || cfg.Logger == nil {
		return nil, fmt.Errorf("missing required dependencies for Gateway")
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Gateway{
		sessions: NewSessionManager(cfg.Terminal, cfg.Logger),
		logger:   cfg.Logger,
		journal:  cfg.Journal,
		output:   NewSerializer(cfg.Validator, cfg.Logger),
		location: loc,
		now:      now,
	}, nil
}

// Sessions exposes the session manager for tools that drive fetchers directly.
func (g *Gateway) Sessions() *SessionManager {
	return g.sessions
}
