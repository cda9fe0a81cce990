package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastError_String(t *testing.T) {
	tests := []struct {
		name string
		err  LastError
		want string
	}{
		{"plain message", LastError{Code: -6, Message: "Terminal: Authorization failed"}, "(-6, 'Terminal: Authorization failed')"},
		{"empty message", LastError{Code: 1}, "(1, '')"},
		{"apostrophe switches to double quotes", LastError{Code: -2, Message: "symbol isn't selected"}, `(-2, "symbol isn't selected")`},
		{"double quotes kept in single quotes", LastError{Code: -2, Message: `invalid "volume"`}, `(-2, 'invalid "volume"')`},
		{"both quote kinds", LastError{Code: -2, Message: `can't parse "x"`}, `(-2, 'can\'t parse "x"')`},
		{"backslash and newline escaped", LastError{Code: -1, Message: "C:\\MT5\nfailed"}, `(-1, 'C:\\MT5\nfailed')`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.String())
		})
	}
}

func TestConnectionError(t *testing.T) {
	err := &ConnectionError{LastError: LastError{Code: CodeIPCInitFailed, Message: "IPC initialize failed, MetaTrader 5 x64 not found"}}

	assert.Equal(t, "Failed to initialize MT5: (-10003, 'IPC initialize failed, MetaTrader 5 x64 not found')", err.Error())
	assert.True(t, errors.Is(err, ErrConnectionFailed))
}
