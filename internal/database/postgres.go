package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradejournal/internal/id"
	"tradejournal/internal/model"
)

const postgresColumns = `id, symbol, direction, entry_price::text, exit_price::text, quantity::text,
	entry_date, exit_date, status, strategy, COALESCE(tags, ''), execution_rate, notes,
	pnl::text, screenshot, stop_loss::text, take_profit::text, created_at, updated_at`

// PostgresRepository stores trades in PostgreSQL through a pgx pool.
type PostgresRepository struct {
	Pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresRepository connects and pings the database.
func NewPostgresRepository(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	logger.Info("Connected to PostgreSQL")
	return &PostgresRepository{Pool: pool, logger: logger}, nil
}

func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.Pool.Exec(ctx, postgresSchema)
	return err
}

func (r *PostgresRepository) CreateTrade(ctx context.Context, trade model.Trade) (model.Trade, error) {
	now := time.Now().UTC()
	trade.ID = id.New()
	trade.CreatedAt = now
	trade.UpdatedAt = now

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO trades
		(id, symbol, direction, entry_price, exit_price, quantity, entry_date, exit_date, status,
		 strategy, tags, execution_rate, notes, pnl, screenshot, stop_loss, take_profit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		tradeArgs(trade)...,
	)
	if err != nil {
		return model.Trade{}, fmt.Errorf("insert trade: %w", err)
	}

	r.logger.Debug("Trade inserted", "id", trade.ID, "symbol", trade.Symbol)
	return r.GetTrade(ctx, trade.ID)
}

func (r *PostgresRepository) ListTrades(ctx context.Context) ([]model.Trade, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+postgresColumns+` FROM trades ORDER BY entry_date DESC, id DESC`)
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

func (r *PostgresRepository) GetTrade(ctx context.Context, tradeID string) (model.Trade, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+postgresColumns+` FROM trades WHERE id = $1`, tradeID)
	t, err := scanTrade(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Trade{}, fmt.Errorf("trade %q: %w", tradeID, model.ErrNotFound)
	}
	if err != nil {
		return model.Trade{}, err
	}
	return t, nil
}

func (r *PostgresRepository) UpdateTrade(ctx context.Context, trade model.Trade, from model.Status) (model.Trade, error) {
	trade.UpdatedAt = time.Now().UTC()

	tag, err := r.Pool.Exec(ctx, `
		UPDATE trades SET
			symbol = $2, direction = $3, entry_price = $4, exit_price = $5, quantity = $6,
			entry_date = $7, exit_date = $8, status = $9, strategy = $10, tags = $11,
			execution_rate = $12, notes = $13, pnl = $14, screenshot = $15, stop_loss = $16,
			take_profit = $17, updated_at = $18
		WHERE id = $1 AND status = $19`,
		append(updateArgs(trade), string(from))...,
	)
	if err != nil {
		return model.Trade{}, fmt.Errorf("update trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Trade{}, staleUpdate(ctx, r, trade.ID)
	}
	return r.GetTrade(ctx, trade.ID)
}

func (r *PostgresRepository) DeleteTrade(ctx context.Context, tradeID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM trades WHERE id = $1`, tradeID)
	if err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trade %q: %w", tradeID, model.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	r.Pool.Close()
	return nil
}
