package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradejournal/internal/id"
	"tradejournal/internal/model"
)

const (
	DefaultSQLitePath = "./data/journal.db"

	sqliteColumns = `id, symbol, direction, entry_price, exit_price, quantity,
	entry_date, exit_date, status, strategy, COALESCE(tags, ''), execution_rate, notes,
	pnl, screenshot, stop_loss, take_profit, created_at, updated_at`
)

// SQLiteRepository stores trades in a local SQLite file.
type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteRepository opens (and creates when missing) the database file at path.
func NewSQLiteRepository(path string, logger *slog.Logger) (*SQLiteRepository, error) {
	if path == "" {
		path = DefaultSQLitePath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database at '%s': %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database at '%s': %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	logger.Info("SQLite database opened", "path", path)
	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, sqliteSchema)
	return err
}

func (r *SQLiteRepository) CreateTrade(ctx context.Context, trade model.Trade) (model.Trade, error) {
	now := time.Now().UTC()
	trade.ID = id.New()
	trade.CreatedAt = now
	trade.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trades
		(id, symbol, direction, entry_price, exit_price, quantity, entry_date, exit_date, status,
		 strategy, tags, execution_rate, notes, pnl, screenshot, stop_loss, take_profit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tradeArgs(trade)...,
	)
	if err != nil {
		return model.Trade{}, fmt.Errorf("insert trade: %w", err)
	}

	r.logger.Debug("Trade inserted", "id", trade.ID, "symbol", trade.Symbol)
	return r.GetTrade(ctx, trade.ID)
}

func (r *SQLiteRepository) ListTrades(ctx context.Context) ([]model.Trade, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM trades ORDER BY entry_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	trades := []model.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *SQLiteRepository) GetTrade(ctx context.Context, tradeID string) (model.Trade, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM trades WHERE id = ?`, tradeID)
	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Trade{}, fmt.Errorf("trade %q: %w", tradeID, model.ErrNotFound)
	}
	if err != nil {
		return model.Trade{}, err
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTrade(ctx context.Context, trade model.Trade, from model.Status) (model.Trade, error) {
	trade.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE trades SET
			symbol = ?2, direction = ?3, entry_price = ?4, exit_price = ?5, quantity = ?6,
			entry_date = ?7, exit_date = ?8, status = ?9, strategy = ?10, tags = ?11,
			execution_rate = ?12, notes = ?13, pnl = ?14, screenshot = ?15, stop_loss = ?16,
			take_profit = ?17, updated_at = ?18
		WHERE id = ?1 AND status = ?19`,
		append(updateArgs(trade), string(from))...,
	)
	if err != nil {
		return model.Trade{}, fmt.Errorf("update trade: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Trade{}, staleUpdate(ctx, r, trade.ID)
	}
	return r.GetTrade(ctx, trade.ID)
}

func (r *SQLiteRepository) DeleteTrade(ctx context.Context, tradeID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("trade %q: %w", tradeID, model.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
