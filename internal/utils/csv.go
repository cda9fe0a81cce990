package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"mt5gateway/internal/domain"
)

// CandleCSVHeader is the header row written by WriteCandlesToCSV.
var CandleCSVHeader = []string{"timestamp", "symbol", "timeframe", "open", "high", "low", "close", "volume"}

// WriteCandlesToCSV writes candles to filename, creating parent directories as needed.
func WriteCandlesToCSV(candles []domain.Candle, timeframe domain.Timeframe, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", filename, err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// Write header
	if err := writer.Write(CandleCSVHeader); err != nil {
		return err
	}

	tf := timeframe.String()
	for _, c := range candles {
		err := writer.Write([]string{
			c.Timestamp.String(),
			c.Symbol,
			tf,
			decimal.NewFromFloat(c.Open).String(),
			decimal.NewFromFloat(c.High).String(),
			decimal.NewFromFloat(c.Low).String(),
			decimal.NewFromFloat(c.Close).String(),
			strconv.FormatInt(c.Volume, 10),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}
