package market

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StaticProvider serves a fixed snapshot. It backs the fallback path and
// offline development.
type StaticProvider struct {
	tickers []Mover
	now     func() time.Time
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{tickers: staticTickers(), now: time.Now}
}

func (s *StaticProvider) Name() string {
	return "static"
}

func (s *StaticProvider) Movers(_ context.Context, limit int) (Movers, error) {
	gainers, losers := Rank(s.tickers, DefaultQuoteAsset, limit)
	return Movers{
		Source:  s.Name(),
		AsOf:    s.now().UTC(),
		Gainers: gainers,
		Losers:  losers,
	}, nil
}

func staticTickers() []Mover {
	row := func(symbol, last, change, volume string) Mover {
		return Mover{
			Symbol:        symbol,
			LastPrice:     decimal.RequireFromString(last),
			ChangePercent: decimal.RequireFromString(change),
			QuoteVolume:   decimal.RequireFromString(volume),
		}
	}
	return []Mover{
		row("BTCUSDT", "67250.10", "2.41", "1843201233.55"),
		row("ETHUSDT", "3485.72", "3.87", "912044512.10"),
		row("SOLUSDT", "152.36", "6.12", "402118776.42"),
		row("BNBUSDT", "592.40", "-0.84", "120554310.09"),
		row("XRPUSDT", "0.5213", "-2.95", "98312004.77"),
		row("ADAUSDT", "0.4471", "-4.18", "45120988.31"),
		row("DOGEUSDT", "0.1592", "8.33", "310774502.68"),
		row("AVAXUSDT", "35.18", "-5.62", "60233871.20"),
		row("LINKUSDT", "17.05", "1.27", "52119034.93"),
		row("DOTUSDT", "7.21", "-1.63", "21440987.15"),
		row("LTCUSDT", "84.90", "0.56", "33870124.44"),
		row("MATICUSDT", "0.7126", "-3.31", "40126655.02"),
	}
}
