package journal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/model"
)

// NormalizeNewTrade validates a "log trade" payload and turns it into an open
// trade. The first invalid field is reported; nothing is returned on failure.
func NormalizeNewTrade(in model.NewTrade, now time.Time) (model.Trade, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return model.Trade{}, invalid("symbol", "is required")
	}

	direction, err := model.ParseDirection(in.Direction)
	if err != nil {
		return model.Trade{}, invalid("direction", "must be long or short")
	}

	if !in.EntryPrice.Valid {
		return model.Trade{}, invalid("entryPrice", "is required")
	}
	if !in.EntryPrice.Decimal.IsPositive() {
		return model.Trade{}, invalid("entryPrice", "must be greater than zero")
	}

	if !in.Quantity.Valid {
		return model.Trade{}, invalid("quantity", "is required")
	}
	if !in.Quantity.Decimal.IsPositive() {
		return model.Trade{}, invalid("quantity", "must be greater than zero")
	}

	rate := in.ExecutionRate
	if rate == 0 {
		rate = model.DefaultExecutionRate
	}
	if err := checkRate(rate); err != nil {
		return model.Trade{}, err
	}

	if in.StopLoss.Valid && !in.StopLoss.Decimal.IsPositive() {
		return model.Trade{}, invalid("stopLoss", "must be greater than zero")
	}
	if in.TakeProfit.Valid && !in.TakeProfit.Decimal.IsPositive() {
		return model.Trade{}, invalid("takeProfit", "must be greater than zero")
	}

	entryDate := now
	if in.EntryDate != nil && !in.EntryDate.IsZero() {
		entryDate = *in.EntryDate
	}

	return model.Trade{
		Symbol:        symbol,
		Direction:     direction,
		EntryPrice:    in.EntryPrice.Decimal,
		Quantity:      in.Quantity.Decimal,
		EntryDate:     entryDate.UTC(),
		Status:        model.StatusOpen,
		Strategy:      optional(in.Strategy),
		Tags:          model.NewTagSet(in.Tags...),
		ExecutionRate: rate,
		Notes:         optional(in.Notes),
		PnL:           decimal.Zero,
		Screenshot:    optional(in.Screenshot),
		StopLoss:      in.StopLoss,
		TakeProfit:    in.TakeProfit,
	}, nil
}

// ClosePnL is the realized profit or loss of closing at exit. No rounding is applied.
func ClosePnL(direction model.Direction, entry, exit, quantity decimal.Decimal) decimal.Decimal {
	return sideOf(direction).pnl(entry, exit, quantity)
}

// CloseTrade performs the open to closed transition. A trade is closed at most once.
func CloseTrade(t model.Trade, exit decimal.Decimal, at time.Time) (model.Trade, error) {
	if t.IsClosed() {
		return model.Trade{}, model.ErrTradeClosed
	}
	if !exit.IsPositive() {
		return model.Trade{}, invalid("exitPrice", "must be greater than zero")
	}
	if at.Before(t.EntryDate) {
		return model.Trade{}, invalid("exitDate", "must not be before entryDate")
	}

	at = at.UTC()
	t.ExitPrice = decimal.NewNullDecimal(exit)
	t.ExitDate = &at
	t.PnL = ClosePnL(t.Direction, t.EntryPrice, exit, t.Quantity)
	t.Status = model.StatusClosed
	return t, nil
}

// ApplyPatch merges a generic edit into t. Closed trades only accept
// annotation changes. Supplying an exit price on an open trade closes it.
// An execution rating of 0 means not supplied, as on create.
func ApplyPatch(t model.Trade, p model.TradePatch, now time.Time) (model.Trade, error) {
	if t.IsClosed() && p.TouchesLifecycle() {
		return model.Trade{}, model.ErrTradeClosed
	}

	if p.Symbol != nil {
		symbol := strings.ToUpper(strings.TrimSpace(*p.Symbol))
		if symbol == "" {
			return model.Trade{}, invalid("symbol", "is required")
		}
		t.Symbol = symbol
	}
	if p.Direction != nil {
		direction, err := model.ParseDirection(*p.Direction)
		if err != nil {
			return model.Trade{}, invalid("direction", "must be long or short")
		}
		t.Direction = direction
	}
	if p.EntryPrice != nil {
		if !p.EntryPrice.IsPositive() {
			return model.Trade{}, invalid("entryPrice", "must be greater than zero")
		}
		t.EntryPrice = *p.EntryPrice
	}
	if p.Quantity != nil {
		if !p.Quantity.IsPositive() {
			return model.Trade{}, invalid("quantity", "must be greater than zero")
		}
		t.Quantity = *p.Quantity
	}
	if p.EntryDate != nil && !p.EntryDate.IsZero() {
		t.EntryDate = p.EntryDate.UTC()
	}
	if p.ExecutionRate != nil && *p.ExecutionRate != 0 {
		if err := checkRate(*p.ExecutionRate); err != nil {
			return model.Trade{}, err
		}
		t.ExecutionRate = *p.ExecutionRate
	}
	if p.StopLoss != nil {
		if !p.StopLoss.IsPositive() {
			return model.Trade{}, invalid("stopLoss", "must be greater than zero")
		}
		t.StopLoss = decimal.NewNullDecimal(*p.StopLoss)
	}
	if p.TakeProfit != nil {
		if !p.TakeProfit.IsPositive() {
			return model.Trade{}, invalid("takeProfit", "must be greater than zero")
		}
		t.TakeProfit = decimal.NewNullDecimal(*p.TakeProfit)
	}
	if p.Strategy != nil {
		t.Strategy = optional(p.Strategy)
	}
	if p.Notes != nil {
		t.Notes = optional(p.Notes)
	}
	if p.Screenshot != nil {
		t.Screenshot = optional(p.Screenshot)
	}
	if p.Tags != nil {
		t.Tags = model.NewTagSet(*p.Tags...)
	}

	if p.ExitPrice == nil {
		if p.ExitDate != nil {
			return model.Trade{}, invalid("exitPrice", "is required to close a trade")
		}
		return t, nil
	}

	return closeAt(t, *p.ExitPrice, p.ExitDate, now)
}

// closeAt closes t at the supplied time, or at now when none was given. A
// defaulted close before the entry blames entryDate, the only date the
// caller sent.
func closeAt(t model.Trade, exit decimal.Decimal, at *time.Time, now time.Time) (model.Trade, error) {
	if at != nil && !at.IsZero() {
		return CloseTrade(t, exit, *at)
	}
	if !t.IsClosed() && exit.IsPositive() && now.Before(t.EntryDate) {
		return model.Trade{}, invalid("entryDate", "is in the future; supply exitDate to close")
	}
	return CloseTrade(t, exit, now)
}

func checkRate(rate int) error {
	if rate < 1 || rate > 10 {
		return invalid("executionRate", "must be between 1 and 10")
	}
	return nil
}

func invalid(field, reason string) error {
	return &model.ValidationError{Field: field, Reason: reason}
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
