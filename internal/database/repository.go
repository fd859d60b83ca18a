package database

import (
	"context"
	"fmt"
	"log/slog"

	"tradejournal/internal/config"
	"tradejournal/internal/model"
)

// Repository is the trade store. Absent identifiers yield model.ErrNotFound.
// UpdateTrade only writes when the stored status still equals from; a row
// that moved on since it was read yields model.ErrTradeClosed.
type Repository interface {
	Migrate(ctx context.Context) error
	CreateTrade(ctx context.Context, trade model.Trade) (model.Trade, error)
	ListTrades(ctx context.Context) ([]model.Trade, error)
	GetTrade(ctx context.Context, id string) (model.Trade, error)
	UpdateTrade(ctx context.Context, trade model.Trade, from model.Status) (model.Trade, error)
	DeleteTrade(ctx context.Context, id string) error
	Close() error
}

// Open connects to the configured backend and ensures the schema exists.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (Repository, error) {
	var (
		repo Repository
		err  error
	)
	switch cfg.Driver {
	case "", "sqlite", "sqlite3":
		repo, err = NewSQLiteRepository(cfg.Path, logger)
	case "postgres", "postgresql":
		repo, err = NewPostgresRepository(ctx, cfg.DSN(), logger)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Migrate(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return repo, nil
}
