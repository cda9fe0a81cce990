package ports

import (
	"errors"
	"fmt"
)

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Terminal Specific Errors
	ErrConnectionFailed = errors.New("failed to connect to the terminal bridge")
	ErrTerminal         = errors.New("terminal call failed")
	ErrSessionClosed    = errors.New("terminal session is closed")

	// Journal Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)

// CodeIPCInitFailed is the last-error code reported when the terminal bridge cannot be reached.
const CodeIPCInitFailed = -10003

// ConnectionError reports a terminal init or login failure.
type ConnectionError struct {
	LastError LastError
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Failed to initialize MT5: %s", e.LastError)
}

// Unwrap lets errors.Is match ErrConnectionFailed.
func (e *ConnectionError) Unwrap() error { return ErrConnectionFailed }

// ValidationError reports missing or invalid trade parameters.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Unwrap lets errors.Is match ErrInvalidRequest.
func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }
