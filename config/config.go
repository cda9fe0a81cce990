package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mt5gateway/internal/adapters/logger" // Import the logger package for LogLevel
)

// ErrUsage marks an invalid command line or environment.
var ErrUsage = errors.New("invalid usage")

// Defaults
const (
	DefaultType       = "candle"
	DefaultTimeframe  = "H1"
	DefaultCount      = 100
	DefaultBridgeAddr = "127.0.0.1:18812"
	DefaultLogLevel   = "OFF"
)

// Config holds the settings of one gateway invocation.
type Config struct {
	// Account
	Login    int64  `mapstructure:"account"`
	Password string `mapstructure:"password"`
	Server   string `mapstructure:"server"`

	// Command
	Type       string  `mapstructure:"type"`
	Symbol     string  `mapstructure:"symbol"`
	Timeframe  string  `mapstructure:"timeframe"` // Resolved to H1 when unknown
	Count      int     `mapstructure:"count"`
	From       string  `mapstructure:"from"` // ISO-8601
	To         string  `mapstructure:"to"`   // ISO-8601
	TradeType  string  `mapstructure:"trade_type"`
	Volume     float64 `mapstructure:"volume"`
	StopLoss   float64 `mapstructure:"sl"`
	TakeProfit float64 `mapstructure:"tp"`

	// Terminal bridge
	BridgeAddr string `mapstructure:"bridge"`

	// Logging
	LogLevelName string          `mapstructure:"log_level"`
	LogLevel     logger.LogLevel `mapstructure:"-"`
	LogFile      string          `mapstructure:"log_file"` // Empty logs to stderr

	// Order journal, disabled when empty
	JournalPath string `mapstructure:"journal_path"`

	// Display location of timestamps, process local time when empty
	Timezone string         `mapstructure:"timezone"`
	Location *time.Location `mapstructure:"-"`

	ValidateOutput bool `mapstructure:"validate_output"`
}

// env bindings; the first variable that is set wins.
var envKeys = map[string][]string{
	"account":         {"MT5_ACCOUNT", "MT5_LOGIN"},
	"password":        {"MT5_PASSWORD"},
	"server":          {"MT5_SERVER"},
	"bridge":          {"MT5_BRIDGE_ADDR"},
	"log_level":       {"MT5_LOG_LEVEL"},
	"log_file":        {"MT5_LOG_FILE"},
	"journal_path":    {"MT5_JOURNAL_PATH"},
	"timezone":        {"MT5_TIMEZONE"},
	"validate_output": {"MT5_VALIDATE_OUTPUT"},
}

// Load parses args (without the program name) and the environment. A .env
// file in the working directory is read first when present; variables that
// are already set take precedence over it, and flags take precedence over both.
// Every failure wraps ErrUsage. Tools built on the gateway may register
// additional flags through extra; they are parsed together with the common ones.
func Load(args []string, extra ...func(*pflag.FlagSet)) (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	fs := newFlagSet()
	for _, register := range extra {
		register(fs)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, fmt.Errorf("%w: %s", ErrUsage, strings.TrimSpace(fs.FlagUsages()))
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("%w: binding flags: %v", ErrUsage, err)
	}
	for key, names := range envKeys {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("%w: binding %s: %v", ErrUsage, key, err)
		}
	}
	v.SetDefault("log_level", DefaultLogLevel)

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("%w: parsing configuration failed: %v", ErrUsage, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("mt5gateway", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.Int64("account", 0, "trading account number (env MT5_ACCOUNT)")
	fs.String("password", "", "trading account password (env MT5_PASSWORD)")
	fs.String("server", "", "broker trade server (env MT5_SERVER)")
	fs.String("symbol", "", "instrument symbol, e.g. EURUSD")
	fs.String("timeframe", DefaultTimeframe, "bar timeframe: M1 M5 M15 M30 H1 H4 D1 W1 MN1")
	fs.Int("count", DefaultCount, "number of bars to fetch")
	fs.String("type", DefaultType, "command: candle, tick, connect, account, trade_history, trade, open_trades")
	fs.String("from", "", "history start, ISO-8601")
	fs.String("to", "", "history end, ISO-8601")
	fs.String("trade_type", "", "order direction: BUY or SELL")
	fs.Float64("volume", 0, "order volume in lots")
	fs.Float64("sl", 0, "stop loss price")
	fs.Float64("tp", 0, "take profit price")
	fs.String("bridge", DefaultBridgeAddr, "terminal bridge address (env MT5_BRIDGE_ADDR)")
	return fs
}

func (c *Config) validate() error {
	var errs []string // Collect validation errors

	if c.Login == 0 {
		errs = append(errs, "--account (or MT5_ACCOUNT) must be set")
	} else if c.Login < 0 {
		errs = append(errs, "--account must be positive")
	}
	if c.Password == "" {
		errs = append(errs, "--password (or MT5_PASSWORD) must be set")
	}
	if c.Server == "" {
		errs = append(errs, "--server (or MT5_SERVER) must be set")
	}
	if c.BridgeAddr == "" {
		errs = append(errs, "--bridge must not be empty")
	}

	c.LogLevel = logger.ParseLevel(c.LogLevelName)

	c.Location = time.Local
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid MT5_TIMEZONE: %v", err))
		} else {
			c.Location = loc
		}
	}

	// Combine validation errors
	if len(errs) > 0 {
		return fmt.Errorf("%w: configuration validation failed: %s", ErrUsage, strings.Join(errs, "; "))
	}
	return nil
}
