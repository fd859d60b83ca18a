package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/model"
)

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTrade reads the column order shared by both backends. Decimal columns
// arrive as text.
func scanTrade(row rowScanner) (model.Trade, error) {
	var (
		t                          model.Trade
		direction, status, tags    string
		entry, quantity, pnl       string
		exit, stopLoss, takeProfit *string
	)
	err := row.Scan(
		&t.ID, &t.Symbol, &direction, &entry, &exit, &quantity,
		&t.EntryDate, &t.ExitDate, &status, &t.Strategy, &tags,
		&t.ExecutionRate, &t.Notes, &pnl, &t.Screenshot, &stopLoss, &takeProfit,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Trade{}, err
	}

	t.Direction = model.Direction(direction)
	t.Status = model.Status(status)
	t.Tags = model.ParseTags(tags)

	if t.EntryPrice, err = decimal.NewFromString(entry); err != nil {
		return model.Trade{}, fmt.Errorf("trade %s entry_price: %w", t.ID, err)
	}
	if t.Quantity, err = decimal.NewFromString(quantity); err != nil {
		return model.Trade{}, fmt.Errorf("trade %s quantity: %w", t.ID, err)
	}
	if t.PnL, err = decimal.NewFromString(pnl); err != nil {
		return model.Trade{}, fmt.Errorf("trade %s pnl: %w", t.ID, err)
	}
	if t.ExitPrice, err = nullDecimal(exit); err != nil {
		return model.Trade{}, fmt.Errorf("trade %s exit_price: %w", t.ID, err)
	}
	if t.StopLoss, err = nullDecimal(stopLoss); err != nil {
		return model.Trade{}, fmt.Errorf("trade %s stop_loss: %w", t.ID, err)
	}
	if t.TakeProfit, err = nullDecimal(takeProfit); err != nil {
		return model.Trade{}, fmt.Errorf("trade %s take_profit: %w", t.ID, err)
	}

	t.EntryDate = t.EntryDate.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if t.ExitDate != nil {
		exitDate := t.ExitDate.UTC()
		t.ExitDate = &exitDate
	}
	return t, nil
}

// tradeArgs is the write order used by both INSERT statements: every column,
// id first and timestamps last.
func tradeArgs(t model.Trade) []any {
	return []any{
		t.ID,
		t.Symbol,
		string(t.Direction),
		t.EntryPrice.String(),
		decimalArg(t.ExitPrice),
		t.Quantity.String(),
		t.EntryDate.UTC(),
		timeArg(t.ExitDate),
		string(t.Status),
		t.Strategy,
		tagsArg(t.Tags),
		t.ExecutionRate,
		t.Notes,
		t.PnL.String(),
		t.Screenshot,
		decimalArg(t.StopLoss),
		decimalArg(t.TakeProfit),
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	}
}

// staleUpdate explains a guarded UPDATE that touched no row: either the trade
// is gone or its status changed after the caller read it.
func staleUpdate(ctx context.Context, r interface {
	GetTrade(context.Context, string) (model.Trade, error)
}, tradeID string) error {
	if _, err := r.GetTrade(ctx, tradeID); err != nil {
		return err
	}
	return fmt.Errorf("trade %q: %w", tradeID, model.ErrTradeClosed)
}

// updateArgs is tradeArgs without created_at, so updated_at is the 18th argument.
func updateArgs(t model.Trade) []any {
	args := tradeArgs(t)
	return append(args[:17:17], args[18])
}

func nullDecimal(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func decimalArg(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

func timeArg(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func tagsArg(tags model.TagSet) *string {
	if len(tags) == 0 {
		return nil
	}
	s := tags.String()
	return &s
}
