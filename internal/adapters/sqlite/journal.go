package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"mt5gateway/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Journal implements the ports.OrderJournal interface using SQLite.
type Journal struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite order journal.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewJournal opens (creating if needed) the journal database.
func NewJournal(cfg Config) (*Journal, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite journal")
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("journal path is required: %w", ports.ErrConfigurationError)
	}
	dbPath := cfg.DBPath

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory '%s': %w", filepath.Dir(dbPath), err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
	}

	// One invocation, one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	j := &Journal{db: db, logger: cfg.Logger}
	if err := j.initializeSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	cfg.Logger.Debug(context.Background(), "Order journal opened", map[string]interface{}{"path": dbPath})
	return j, nil
}

func (j *Journal) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS order_journal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		invocation_id TEXT NOT NULL,
		login INTEGER NOT NULL,
		server TEXT NOT NULL,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		volume TEXT NOT NULL,
		price TEXT NOT NULL,
		stop_loss TEXT NULL,
		take_profit TEXT NULL,
		retcode INTEGER NULL,
		result_order INTEGER NULL,
		result_deal INTEGER NULL,
		result_price TEXT NULL,
		result_comment TEXT NULL,
		request_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		submitted_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_order_journal_symbol_time ON order_journal (symbol, submitted_at);
	`
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record appends a submitted order and its result.
func (j *Journal) Record(ctx context.Context, e *ports.JournalEntry) (int64, error) {
	const query = `
	INSERT INTO order_journal (
		invocation_id, login, server, symbol, direction, volume, price, stop_loss, take_profit,
		retcode, result_order, result_deal, result_price, result_comment,
		request_json, result_json, submitted_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	reqJSON, err := json.Marshal(e.Request)
	if err != nil {
		return 0, fmt.Errorf("failed to encode order request: %w", err)
	}
	resJSON, err := json.Marshal(e.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to encode order result: %w", err)
	}

	var (
		retcode, resOrder, resDeal sql.NullInt64
		resPrice, resComment       sql.NullString
	)
	if res := e.Result; res != nil {
		retcode = sql.NullInt64{Int64: res.Retcode, Valid: true}
		resOrder = sql.NullInt64{Int64: res.Order, Valid: true}
		resDeal = sql.NullInt64{Int64: res.Deal, Valid: true}
		resPrice = sql.NullString{String: decimalText(res.Price), Valid: true}
		resComment = sql.NullString{String: res.Comment, Valid: true}
	}

	submitted := e.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}

	req := e.Request
	result, err := j.db.ExecContext(ctx, query,
		e.InvocationID, e.Login, e.Server, req.Symbol, string(req.Direction),
		decimalText(req.Volume), decimalText(req.Price), optionalDecimal(req.StopLoss), optionalDecimal(req.TakeProfit),
		retcode, resOrder, resDeal, resPrice, resComment,
		string(reqJSON), string(resJSON), submitted.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert journal entry for %s: %w: %w", req.Symbol, ports.ErrQueryFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for journal entry: %w", err)
	}
	j.logger.Debug(ctx, "Order journaled", map[string]interface{}{"journalID": id, "symbol": req.Symbol})
	return id, nil
}

// decimalText renders a float as its shortest exact decimal string.
func decimalText(f float64) string {
	return decimal.NewFromFloat(f).String()
}

func optionalDecimal(f *float64) sql.NullString {
	if f == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: decimalText(*f), Valid: true}
}
