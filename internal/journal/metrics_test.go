package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/model"
)

func tradeAt(id string, day int, pnl string, rate int, strategy *string) model.Trade {
	status := model.StatusClosed
	if dec(pnl).IsZero() {
		status = model.StatusOpen
	}
	return model.Trade{
		ID:            id,
		EntryDate:     time.Date(2025, 4, day, 10, 0, 0, 0, time.UTC),
		PnL:           dec(pnl),
		ExecutionRate: rate,
		Strategy:      strategy,
		Status:        status,
	}
}

func TestSummarize_Empty(t *testing.T) {
	m := Summarize(nil)

	assert.Equal(t, 0, m.TotalTrades)
	assert.Equal(t, 0, m.WinRate)
	assert.True(t, m.TotalPnL.IsZero())
	assert.Nil(t, m.AverageExecutionRate)
	assert.False(t, m.BestTrade.Valid)
	assert.Empty(t, m.CumulativePnL)
	assert.Empty(t, m.StrategyDistribution)
}

func TestSummarize_Scenario(t *testing.T) {
	trades := []model.Trade{
		tradeAt("c", 3, "30", 6, strPtr("Breakout")),
		tradeAt("a", 1, "50", 8, strPtr("Breakout")),
		tradeAt("b", 2, "-20", 4, nil),
	}

	m := Summarize(trades)

	assert.Equal(t, 3, m.TotalTrades)
	assert.True(t, m.TotalPnL.Equal(dec("60")))
	assert.Equal(t, 67, m.WinRate)
	assert.Equal(t, 2, m.WinningTrades)
	assert.Equal(t, 1, m.LosingTrades)
	assert.Equal(t, 3, m.ClosedTrades)
	require.NotNil(t, m.AverageExecutionRate)
	assert.InDelta(t, 6.0, *m.AverageExecutionRate, 1e-9)
	assert.True(t, m.BestTrade.Decimal.Equal(dec("50")))
	assert.True(t, m.WorstTrade.Decimal.Equal(dec("-20")))

	require.Len(t, m.CumulativePnL, 3)
	assert.Equal(t, "a", m.CumulativePnL[0].TradeID)
	assert.True(t, m.CumulativePnL[0].Cumulative.Equal(dec("50")))
	assert.Equal(t, "b", m.CumulativePnL[1].TradeID)
	assert.True(t, m.CumulativePnL[1].Cumulative.Equal(dec("30")))
	assert.Equal(t, "c", m.CumulativePnL[2].TradeID)
	assert.True(t, m.CumulativePnL[2].Cumulative.Equal(dec("60")))
	assert.Equal(t, trades[0].EntryDate, m.CumulativePnL[2].Date)

	assert.Equal(t, []StrategyCount{
		{Strategy: "Breakout", Count: 2},
		{Strategy: NoStrategy, Count: 1},
	}, m.StrategyDistribution)

	// input order is preserved
	assert.Equal(t, "c", trades[0].ID)
}

func TestSummarize_CumulativeIsPrefixSum(t *testing.T) {
	pnls := []string{"12.5", "-3.25", "0", "40", "-7.75", "1"}
	var trades []model.Trade
	for i := len(pnls) - 1; i >= 0; i-- {
		trades = append(trades, tradeAt(string(rune('a'+i)), i+1, pnls[i], 5, nil))
	}

	m := Summarize(trades)
	require.Len(t, m.CumulativePnL, len(pnls))

	prev := decimal.Zero
	for i, p := range m.CumulativePnL {
		assert.True(t, p.Cumulative.Equal(prev.Add(dec(pnls[i]))), "point %d", i)
		if i > 0 {
			assert.False(t, p.Date.Before(m.CumulativePnL[i-1].Date))
		}
		prev = p.Cumulative
	}
	assert.True(t, m.TotalPnL.Equal(prev))
}

func TestSummarize_SameEntryDateOrderedByID(t *testing.T) {
	// store order: newest id first
	trades := []model.Trade{
		tradeAt("01J0000000000000000000000C", 5, "-5", 5, nil),
		tradeAt("01J0000000000000000000000B", 5, "20", 5, nil),
		tradeAt("01J0000000000000000000000A", 5, "10", 5, nil),
		tradeAt("01J00000000000000000000000", 4, "1", 5, nil),
	}

	m := Summarize(trades)
	require.Len(t, m.CumulativePnL, 4)

	var ids []string
	for _, p := range m.CumulativePnL {
		ids = append(ids, p.TradeID)
	}
	assert.Equal(t, []string{
		"01J00000000000000000000000",
		"01J0000000000000000000000A",
		"01J0000000000000000000000B",
		"01J0000000000000000000000C",
	}, ids)
	assert.True(t, m.CumulativePnL[1].Cumulative.Equal(dec("11")))
	assert.True(t, m.CumulativePnL[3].Cumulative.Equal(dec("26")))
}

func TestSummarize_OpenTradesCountAsNonWinners(t *testing.T) {
	trades := []model.Trade{
		tradeAt("a", 1, "10", 5, nil),
		tradeAt("b", 2, "0", 5, nil),
		tradeAt("c", 3, "0", 5, strPtr("")),
	}

	m := Summarize(trades)
	assert.Equal(t, 33, m.WinRate)
	assert.Equal(t, 2, m.OpenTrades)
	assert.Equal(t, 1, m.ClosedTrades)
	assert.Equal(t, []StrategyCount{{Strategy: NoStrategy, Count: 3}}, m.StrategyDistribution)
}

func TestSummarize_StrategyOrdering(t *testing.T) {
	trades := []model.Trade{
		tradeAt("a", 1, "1", 5, strPtr("Swing")),
		tradeAt("b", 2, "1", 5, strPtr("Range")),
		tradeAt("c", 3, "1", 5, strPtr("Swing")),
		tradeAt("d", 4, "1", 5, strPtr("Breakout")),
	}

	m := Summarize(trades)
	assert.Equal(t, []StrategyCount{
		{Strategy: "Swing", Count: 2},
		{Strategy: "Breakout", Count: 1},
		{Strategy: "Range", Count: 1},
	}, m.StrategyDistribution)
	assert.Equal(t, 100, m.WinRate)
}
