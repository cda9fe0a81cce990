package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"

	"mt5gateway/config"
	"mt5gateway/internal/adapters/logger"
	"mt5gateway/internal/adapters/mt5rpc"
	"mt5gateway/internal/app"
	"mt5gateway/internal/domain"
	"mt5gateway/internal/ports"
	"mt5gateway/internal/utils"
)

func main() {
	ctx := context.Background()

	// 1. Load Configuration
	var out string
	cfg, err := config.Load(os.Args[1:], func(fs *pflag.FlagSet) {
		fs.StringVar(&out, "out", "", "CSV file to write, data/<symbol>_<timeframe>_<date>.csv by default")
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}
	if cfg.Symbol == "" {
		log.Fatalf("FATAL: --symbol is required")
	}

	// 2. Initialize Logger
	appLogger, logCloser, err := logger.Open(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer logCloser.Close()

	// 3. Initialize Terminal Client (bridge adapter)
	terminal, err := mt5rpc.New(mt5rpc.Config{
		Addr:   cfg.BridgeAddr,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize terminal client: %v", err)
	}

	gateway, err := app.NewGateway(app.Config{
		Terminal: terminal,
		Logger:   appLogger,
		Location: cfg.Location,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize gateway: %v", err)
	}

	creds := ports.Credentials{Login: cfg.Login, Password: cfg.Password, Server: cfg.Server}
	tf := domain.ParseTimeframe(cfg.Timeframe)

	fmt.Printf("Fetching %d %s candles for %s...\n", cfg.Count, tf, cfg.Symbol)
	var candles []domain.Candle
	err = gateway.Sessions().WithSession(ctx, creds, func(s ports.Session) error {
		var err error
		candles, err = gateway.FetchCandles(ctx, s, cfg.Symbol, tf, cfg.Count)
		return err
	})
	if err != nil {
		log.Fatalf("Error fetching candles: %v", err)
	}
	appLogger.Info(ctx, "Fetched candles", map[string]interface{}{"count": len(candles)})

	filename := out
	if filename == "" {
		filename = fmt.Sprintf("data/%s_%s_%s.csv", cfg.Symbol, tf, time.Now().Format("20060102"))
	}
	if err := utils.WriteCandlesToCSV(candles, tf, filename); err != nil {
		log.Fatalf("Error writing CSV: %v", err)
	}
	fmt.Printf("Saved %d candles to %s\n", len(candles), filename)
}
