package database

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"tradejournal/internal/config"
	"tradejournal/internal/model"
)

var (
	pool   *pgxpool.Pool
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpassword",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Printf("postgres container unavailable, postgres tests will be skipped: %s", err)
		os.Exit(m.Run())
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		log.Fatalf("could not get container host: %s", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("could not get mapped port: %s", err)
	}

	connStr := "postgres://testuser:testpassword@" + host + ":" + port.Port() + "/testdb"

	pool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("could not connect to database: %s", err)
	}

	code := m.Run()

	pool.Close()
	if err := pgContainer.Terminate(ctx); err != nil {
		log.Printf("could not stop postgres container: %s", err)
	}
	os.Exit(code)
}

func newSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "journal.db"), logger)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(context.Background()))
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newPostgres(t *testing.T) *PostgresRepository {
	t.Helper()
	if pool == nil {
		t.Skip("postgres not available")
	}
	ctx := context.Background()
	repo := &PostgresRepository{Pool: pool, logger: logger}
	require.NoError(t, repo.Migrate(ctx))
	_, err := pool.Exec(ctx, "TRUNCATE trades")
	require.NoError(t, err)
	return repo
}

func backends(t *testing.T) map[string]func(*testing.T) Repository {
	return map[string]func(*testing.T) Repository{
		"sqlite":   func(t *testing.T) Repository { return newSQLite(t) },
		"postgres": func(t *testing.T) Repository { return newPostgres(t) },
	}
}

func strPtr(s string) *string { return &s }

func openTrade(symbol string, entryDate time.Time) model.Trade {
	return model.Trade{
		Symbol:        symbol,
		Direction:     model.Long,
		EntryPrice:    decimal.RequireFromString("100.25"),
		Quantity:      decimal.NewFromInt(10),
		EntryDate:     entryDate,
		Status:        model.StatusOpen,
		Strategy:      strPtr("Breakout"),
		Tags:          model.NewTagSet("gap", "earnings"),
		ExecutionRate: 7,
		PnL:           decimal.Zero,
		StopLoss:      decimal.NewNullDecimal(decimal.NewFromInt(95)),
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)
			entry := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)

			created, err := repo.CreateTrade(ctx, openTrade("AAPL", entry))
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.False(t, created.CreatedAt.IsZero())

			got, err := repo.GetTrade(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "AAPL", got.Symbol)
			assert.Equal(t, model.Long, got.Direction)
			assert.True(t, got.EntryPrice.Equal(decimal.RequireFromString("100.25")))
			assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))
			assert.True(t, got.EntryDate.Equal(entry))
			assert.Equal(t, model.StatusOpen, got.Status)
			assert.False(t, got.ExitPrice.Valid)
			assert.Nil(t, got.ExitDate)
			assert.True(t, got.PnL.IsZero())
			require.NotNil(t, got.Strategy)
			assert.Equal(t, "Breakout", *got.Strategy)
			assert.Equal(t, model.TagSet{"gap", "earnings"}, got.Tags)
			assert.Equal(t, 7, got.ExecutionRate)
			assert.Nil(t, got.Notes)
			assert.Nil(t, got.Screenshot)
			assert.True(t, got.StopLoss.Valid)
			assert.True(t, got.StopLoss.Decimal.Equal(decimal.NewFromInt(95)))
			assert.False(t, got.TakeProfit.Valid)
		})
	}
}

func TestRepository_ListOrdersByEntryDateDesc(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)
			base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

			for i, sym := range []string{"MSFT", "TSLA", "NVDA"} {
				_, err := repo.CreateTrade(ctx, openTrade(sym, base.Add(time.Duration(i)*time.Hour)))
				require.NoError(t, err)
			}

			trades, err := repo.ListTrades(ctx)
			require.NoError(t, err)
			require.Len(t, trades, 3)
			assert.Equal(t, "NVDA", trades[0].Symbol)
			assert.Equal(t, "TSLA", trades[1].Symbol)
			assert.Equal(t, "MSFT", trades[2].Symbol)
		})
	}
}

func TestRepository_UpdateClosedTrade(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)
			entry := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)

			created, err := repo.CreateTrade(ctx, openTrade("ES", entry))
			require.NoError(t, err)

			exit := entry.Add(2 * time.Hour)
			created.ExitPrice = decimal.NewNullDecimal(decimal.RequireFromString("110.75"))
			created.ExitDate = &exit
			created.PnL = decimal.RequireFromString("105")
			created.Status = model.StatusClosed
			created.Notes = strPtr("followed the plan")
			created.Tags = nil

			updated, err := repo.UpdateTrade(ctx, created, model.StatusOpen)
			require.NoError(t, err)
			assert.Equal(t, model.StatusClosed, updated.Status)
			assert.True(t, updated.ExitPrice.Decimal.Equal(decimal.RequireFromString("110.75")))
			require.NotNil(t, updated.ExitDate)
			assert.True(t, updated.ExitDate.Equal(exit))
			assert.True(t, updated.PnL.Equal(decimal.NewFromInt(105)))
			require.NotNil(t, updated.Notes)
			assert.Equal(t, "followed the plan", *updated.Notes)
			assert.Nil(t, updated.Tags)
			assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
		})
	}
}

func TestRepository_UpdateFromStaleStatus(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)
			entry := time.Date(2025, 3, 4, 14, 30, 0, 0, time.UTC)

			read, err := repo.CreateTrade(ctx, openTrade("CL", entry))
			require.NoError(t, err)

			closeAt := func(price string) model.Trade {
				exit := entry.Add(time.Hour)
				closed := read
				closed.ExitPrice = decimal.NewNullDecimal(decimal.RequireFromString(price))
				closed.ExitDate = &exit
				closed.PnL = decimal.RequireFromString(price).Sub(read.EntryPrice).Mul(read.Quantity)
				closed.Status = model.StatusClosed
				return closed
			}

			first, err := repo.UpdateTrade(ctx, closeAt("110"), model.StatusOpen)
			require.NoError(t, err)

			_, err = repo.UpdateTrade(ctx, closeAt("90"), model.StatusOpen)
			assert.ErrorIs(t, err, model.ErrTradeClosed)

			stored, err := repo.GetTrade(ctx, read.ID)
			require.NoError(t, err)
			assert.True(t, stored.ExitPrice.Decimal.Equal(decimal.NewFromInt(110)))
			assert.True(t, stored.PnL.Equal(first.PnL))

			notes := "annotated after close"
			stored.Notes = &notes
			annotated, err := repo.UpdateTrade(ctx, stored, model.StatusClosed)
			require.NoError(t, err)
			require.NotNil(t, annotated.Notes)
			assert.Equal(t, notes, *annotated.Notes)
		})
	}
}

func TestRepository_NotFound(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			_, err := repo.GetTrade(ctx, "missing")
			assert.ErrorIs(t, err, model.ErrNotFound)

			_, err = repo.UpdateTrade(ctx, model.Trade{ID: "missing", Direction: model.Long, Status: model.StatusOpen}, model.StatusOpen)
			assert.ErrorIs(t, err, model.ErrNotFound)

			assert.ErrorIs(t, repo.DeleteTrade(ctx, "missing"), model.ErrNotFound)
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			created, err := repo.CreateTrade(ctx, openTrade("BTCUSDT", time.Now().UTC()))
			require.NoError(t, err)

			require.NoError(t, repo.DeleteTrade(ctx, created.ID))
			assert.ErrorIs(t, repo.DeleteTrade(ctx, created.ID), model.ErrNotFound)

			trades, err := repo.ListTrades(ctx)
			require.NoError(t, err)
			assert.Empty(t, trades)
		})
	}
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "nested", "journal.db")}

	repo, err := Open(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer repo.Close()

	trades, err := repo.ListTrades(context.Background())
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"}, logger)
	assert.Error(t, err)
}
