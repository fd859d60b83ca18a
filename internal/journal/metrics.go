package journal

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/model"
)

// NoStrategy is the distribution bucket for trades without a strategy.
const NoStrategy = "None"

// EquityPoint is one step of the cumulative P&L series.
type EquityPoint struct {
	TradeID    string          `json:"tradeId"`
	Date       time.Time       `json:"date"`
	PnL        decimal.Decimal `json:"pnl"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

type StrategyCount struct {
	Strategy string `json:"strategy"`
	Count    int    `json:"count"`
}

// Metrics aggregates a trade collection. Open trades count with a pnl of zero.
type Metrics struct {
	TotalTrades          int                 `json:"totalTrades"`
	OpenTrades           int                 `json:"openTrades"`
	ClosedTrades         int                 `json:"closedTrades"`
	WinningTrades        int                 `json:"winningTrades"`
	LosingTrades         int                 `json:"losingTrades"`
	TotalPnL             decimal.Decimal     `json:"totalPnl"`
	WinRate              int                 `json:"winRate"`
	AverageExecutionRate *float64            `json:"avgExecutionRate"`
	BestTrade            decimal.NullDecimal `json:"bestTrade"`
	WorstTrade           decimal.NullDecimal `json:"worstTrade"`
	CumulativePnL        []EquityPoint       `json:"cumulativePnl"`
	StrategyDistribution []StrategyCount     `json:"strategyDistribution"`
}

// Summarize derives the dashboard metrics. The input slice is not reordered.
func Summarize(trades []model.Trade) Metrics {
	m := Metrics{
		TotalTrades:          len(trades),
		TotalPnL:             decimal.Zero,
		CumulativePnL:        []EquityPoint{},
		StrategyDistribution: []StrategyCount{},
	}
	if len(trades) == 0 {
		return m
	}

	ordered := make([]model.Trade, len(trades))
	copy(ordered, trades)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		return a.ID < b.ID
	})

	ratingSum := 0
	buckets := make(map[string]int)
	running := decimal.Zero
	for _, t := range ordered {
		if t.IsClosed() {
			m.ClosedTrades++
		} else {
			m.OpenTrades++
		}

		switch t.PnL.Sign() {
		case 1:
			m.WinningTrades++
		case -1:
			m.LosingTrades++
		}

		if !m.BestTrade.Valid || t.PnL.GreaterThan(m.BestTrade.Decimal) {
			m.BestTrade = decimal.NewNullDecimal(t.PnL)
		}
		if !m.WorstTrade.Valid || t.PnL.LessThan(m.WorstTrade.Decimal) {
			m.WorstTrade = decimal.NewNullDecimal(t.PnL)
		}

		running = running.Add(t.PnL)
		m.CumulativePnL = append(m.CumulativePnL, EquityPoint{
			TradeID:    t.ID,
			Date:       t.EntryDate,
			PnL:        t.PnL,
			Cumulative: running,
		})

		ratingSum += t.ExecutionRate

		label := NoStrategy
		if t.Strategy != nil && *t.Strategy != "" {
			label = *t.Strategy
		}
		buckets[label]++
	}

	m.TotalPnL = running
	m.WinRate = int(math.Round(100 * float64(m.WinningTrades) / float64(len(trades))))
	avg := float64(ratingSum) / float64(len(trades))
	m.AverageExecutionRate = &avg

	for label, count := range buckets {
		m.StrategyDistribution = append(m.StrategyDistribution, StrategyCount{Strategy: label, Count: count})
	}
	sort.Slice(m.StrategyDistribution, func(i, j int) bool {
		a, b := m.StrategyDistribution[i], m.StrategyDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Strategy < b.Strategy
	})
	return m
}
