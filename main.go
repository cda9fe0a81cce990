package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/google/uuid"

	"mt5gateway/config"
	"mt5gateway/internal/adapters/logger"
	"mt5gateway/internal/adapters/mt5rpc"
	"mt5gateway/internal/adapters/sqlite"
	"mt5gateway/internal/app"
	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
	"mt5gateway/internal/schema"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one gateway invocation and returns the process exit code.
// stdout receives exactly one JSON document.
func run(args []string, stdout io.Writer) int {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.Load(args)
	if err != nil {
		code := app.ExitFailure
		if errors.Is(err, config.ErrUsage) {
			code = app.ExitUsage
		}
		_ = app.WriteError(stdout, err.Error())
		return code
	}

	// 2. Initialize Logger
	baseLogger, logCloser, err := logger.Open(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		_ = app.WriteError(stdout, err.Error())
		return app.ExitFailure
	}
	defer logCloser.Close()

	invocationID := uuid.NewString()
	appLogger := baseLogger.With(map[string]interface{}{
		"invocation_id": invocationID,
		"command":       cfg.Type,
	})
	appLogger.Debug(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Order Journal (optional)
	var journal ports.OrderJournal
	if cfg.JournalPath != "" {
		j, err := sqlite.NewJournal(sqlite.Config{
			DBPath: cfg.JournalPath,
			Logger: appLogger,
		})
		if err != nil {
			appLogger.Error(ctx, err, "Order journal unavailable, continuing without it")
		} else {
			journal = j
			defer func() {
				if err := j.Close(); err != nil {
					appLogger.Error(ctx, err, "Error closing order journal")
				}
			}()
		}
	}

	// 4. Initialize Terminal Client (bridge adapter)
	terminal, err := mt5rpc.New(mt5rpc.Config{
		Addr:   cfg.BridgeAddr,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize terminal client")
		_ = app.WriteError(stdout, err.Error())
		return app.ExitFailure
	}

	// 5. Initialize Output Validator (optional)
	var validator *schema.Validator
	if cfg.ValidateOutput {
		validator, err = schema.NewValidator()
		if err != nil {
			appLogger.Error(ctx, err, "Output schemas unavailable, validation disabled")
		}
	}

	// 6. Initialize Gateway
	gateway, err := app.NewGateway(app.Config{
		Terminal:  terminal,
		Logger:    appLogger,
		Journal:   journal,
		Validator: validator,
		Location:  cfg.Location,
	})
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize gateway")
		_ = app.WriteError(stdout, err.Error())
		return app.ExitFailure
	}

	// 7. Run the Command
	creds := ports.Credentials{
		Login:    cfg.Login,
		Password: cfg.Password,
		Server:   cfg.Server,
	}
	return gateway.Run(ctx, app.Command{
		Type:         cfg.Type,
		Credentials:  creds,
		Symbol:       cfg.Symbol,
		Timeframe:    domain.ParseTimeframe(cfg.Timeframe),
		Count:        cfg.Count,
		From:         cfg.From,
		To:           cfg.To,
		TradeType:    cfg.TradeType,
		Volume:       cfg.Volume,
		StopLoss:     cfg.StopLoss,
		TakeProfit:   cfg.TakeProfit,
		InvocationID: invocationID,
	}, stdout)
}
