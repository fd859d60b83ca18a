package coach

import (
	"fmt"
	"strings"

	"tradejournal/internal/journal"
	"tradejournal/internal/model"
)

const systemPrompt = "You are a trading coach. Review the trader's journal and give concise, " +
	"specific feedback on risk management, discipline and recurring patterns. " +
	"Use short paragraphs and finish with three actionable suggestions."

// BuildPrompt renders the journal as plain text for the model. Trades are
// listed in the order given.
func BuildPrompt(trades []model.Trade, m journal.Metrics) string {
	var b strings.Builder

	b.WriteString("Performance summary:\n")
	fmt.Fprintf(&b, "- total trades: %d (%d open, %d closed)\n", m.TotalTrades, m.OpenTrades, m.ClosedTrades)
	fmt.Fprintf(&b, "- total P&L: %s\n", m.TotalPnL.StringFixed(2))
	fmt.Fprintf(&b, "- win rate: %d%%\n", m.WinRate)
	if m.AverageExecutionRate != nil {
		fmt.Fprintf(&b, "- average execution rating: %.1f/10\n", *m.AverageExecutionRate)
	}
	if m.BestTrade.Valid {
		fmt.Fprintf(&b, "- best trade: %s, worst trade: %s\n",
			m.BestTrade.Decimal.StringFixed(2), m.WorstTrade.Decimal.StringFixed(2))
	}
	if len(m.StrategyDistribution) > 0 {
		parts := make([]string, 0, len(m.StrategyDistribution))
		for _, s := range m.StrategyDistribution {
			parts = append(parts, fmt.Sprintf("%s %d", s.Strategy, s.Count))
		}
		fmt.Fprintf(&b, "- strategies: %s\n", strings.Join(parts, ", "))
	}

	if len(trades) == 0 {
		b.WriteString("\nThe journal has no trades yet.\n")
		return b.String()
	}

	b.WriteString("\nTrades:\n")
	for i, t := range trades {
		fmt.Fprintf(&b, "%d. %s %s %s @ %s, entered %s",
			i+1, t.Symbol, t.Direction, t.Quantity.String(), t.EntryPrice.String(), t.EntryDate.Format("2006-01-02"))
		if t.IsClosed() {
			fmt.Fprintf(&b, ", exited @ %s, P&L %s", t.ExitPrice.Decimal.String(), t.PnL.StringFixed(2))
		} else {
			b.WriteString(", still open")
		}
		if t.Strategy != nil && *t.Strategy != "" {
			fmt.Fprintf(&b, ", strategy %s", *t.Strategy)
		}
		if len(t.Tags) > 0 {
			fmt.Fprintf(&b, ", tags %s", t.Tags.String())
		}
		fmt.Fprintf(&b, ", execution %d/10", t.ExecutionRate)
		if t.StopLoss.Valid {
			fmt.Fprintf(&b, ", stop %s", t.StopLoss.Decimal.String())
		}
		if t.TakeProfit.Valid {
			fmt.Fprintf(&b, ", target %s", t.TakeProfit.Decimal.String())
		}
		if t.Notes != nil && strings.TrimSpace(*t.Notes) != "" {
			fmt.Fprintf(&b, ". Notes: %s", strings.TrimSpace(*t.Notes))
		}
		b.WriteString("\n")
	}
	return b.String()
}
