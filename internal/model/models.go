package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of a trade.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// ParseDirection normalizes a user supplied direction. An empty value means long.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Long):
		return Long, nil
	case string(Short):
		return Short, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// Status is the lifecycle state of a trade.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// DefaultExecutionRate is used when a trade is logged without a rating.
const DefaultExecutionRate = 5

// KnownStrategies is the vocabulary offered by the journal UI. Free text is accepted as well.
var KnownStrategies = []string{
	"Breakout",
	"Pullback",
	"Reversal",
	"Trend Following",
	"Range",
	"Scalp",
	"Swing",
	"News",
}

// Trade is a single journal entry.
type Trade struct {
	ID            string              `json:"id"`
	Symbol        string              `json:"symbol"`
	Direction     Direction           `json:"direction"`
	EntryPrice    decimal.Decimal     `json:"entryPrice"`
	ExitPrice     decimal.NullDecimal `json:"exitPrice"`
	Quantity      decimal.Decimal     `json:"quantity"`
	EntryDate     time.Time           `json:"entryDate"`
	ExitDate      *time.Time          `json:"exitDate"`
	Status        Status              `json:"status"`
	Strategy      *string             `json:"strategy"`
	Tags          TagSet              `json:"tags"`
	ExecutionRate int                 `json:"executionRate"`
	Notes         *string             `json:"notes"`
	PnL           decimal.Decimal     `json:"pnl"`
	Screenshot    *string             `json:"screenshot"`
	StopLoss      decimal.NullDecimal `json:"stopLoss"`
	TakeProfit    decimal.NullDecimal `json:"takeProfit"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// IsClosed reports whether the trade has been closed.
func (t Trade) IsClosed() bool {
	return t.Status == StatusClosed
}

// NewTrade is the payload for logging a trade. Lifecycle fields such as
// status, pnl and the exit values are not part of it.
type NewTrade struct {
	Symbol        string              `json:"symbol"`
	Direction     string              `json:"direction"`
	EntryPrice    decimal.NullDecimal `json:"entryPrice"`
	Quantity      decimal.NullDecimal `json:"quantity"`
	EntryDate     *time.Time          `json:"entryDate"`
	Strategy      *string             `json:"strategy"`
	Tags          TagSet              `json:"tags"`
	ExecutionRate int                 `json:"executionRate"`
	Notes         *string             `json:"notes"`
	Screenshot    *string             `json:"screenshot"`
	StopLoss      decimal.NullDecimal `json:"stopLoss"`
	TakeProfit    decimal.NullDecimal `json:"takeProfit"`
}

// TradePatch carries a partial update. Nil fields are left untouched.
type TradePatch struct {
	Symbol        *string          `json:"symbol"`
	Direction     *string          `json:"direction"`
	EntryPrice    *decimal.Decimal `json:"entryPrice"`
	ExitPrice     *decimal.Decimal `json:"exitPrice"`
	Quantity      *decimal.Decimal `json:"quantity"`
	EntryDate     *time.Time       `json:"entryDate"`
	ExitDate      *time.Time       `json:"exitDate"`
	Strategy      *string          `json:"strategy"`
	Tags          *TagSet          `json:"tags"`
	ExecutionRate *int             `json:"executionRate"`
	Notes         *string          `json:"notes"`
	Screenshot    *string          `json:"screenshot"`
	StopLoss      *decimal.Decimal `json:"stopLoss"`
	TakeProfit    *decimal.Decimal `json:"takeProfit"`
}

// TouchesLifecycle reports whether the patch changes anything other than annotations.
func (p TradePatch) TouchesLifecycle() bool {
	return p.Symbol != nil || p.Direction != nil || p.EntryPrice != nil ||
		p.ExitPrice != nil || p.Quantity != nil || p.EntryDate != nil ||
		p.ExitDate != nil || p.StopLoss != nil || p.TakeProfit != nil
}
