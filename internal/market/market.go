package market

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultQuoteAsset is the quote currency movers are ranked in.
const DefaultQuoteAsset = "USDT"

// Mover is a 24h ticker snapshot of one symbol.
type Mover struct {
	Symbol        string          `json:"symbol"`
	LastPrice     decimal.Decimal `json:"lastPrice"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	QuoteVolume   decimal.Decimal `json:"quoteVolume"`
}

// Movers is the top of the 24h change table in both directions.
type Movers struct {
	Source  string    `json:"source"`
	AsOf    time.Time `json:"asOf"`
	Gainers []Mover   `json:"gainers"`
	Losers  []Mover   `json:"losers"`
}

// Provider returns the current top movers. limit is the size of each side.
type Provider interface {
	Name() string
	Movers(ctx context.Context, limit int) (Movers, error)
}

// Rank keeps tickers quoted in quote and returns the limit biggest gainers and
// losers. Symbols without a positive change are never gainers and vice versa.
func Rank(tickers []Mover, quote string, limit int) (gainers, losers []Mover) {
	quote = strings.ToUpper(quote)
	filtered := make([]Mover, 0, len(tickers))
	for _, t := range tickers {
		if quote != "" && !strings.HasSuffix(strings.ToUpper(t.Symbol), quote) {
			continue
		}
		filtered = append(filtered, t)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ChangePercent.GreaterThan(filtered[j].ChangePercent)
	})

	gainers = []Mover{}
	for _, t := range filtered {
		if len(gainers) == limit || !t.ChangePercent.IsPositive() {
			break
		}
		gainers = append(gainers, t)
	}

	losers = []Mover{}
	for i := len(filtered) - 1; i >= 0; i-- {
		t := filtered[i]
		if len(losers) == limit || !t.ChangePercent.IsNegative() {
			break
		}
		losers = append(losers, t)
	}
	return gainers, losers
}

type fallbackProvider struct {
	logger   *slog.Logger
	primary  Provider
	fallback Provider
}

// WithFallback serves the static data set whenever primary fails. The source
// of a degraded answer is "fallback".
func WithFallback(logger *slog.Logger, primary Provider) Provider {
	return &fallbackProvider{logger: logger, primary: primary, fallback: NewStaticProvider()}
}

func (f *fallbackProvider) Name() string {
	return f.primary.Name()
}

func (f *fallbackProvider) Movers(ctx context.Context, limit int) (Movers, error) {
	movers, err := f.primary.Movers(ctx, limit)
	if err == nil {
		return movers, nil
	}

	f.logger.Warn("Market provider failed, serving fallback movers", "provider", f.primary.Name(), "error", err)
	movers, err = f.fallback.Movers(ctx, limit)
	if err != nil {
		return Movers{}, err
	}
	movers.Source = "fallback"
	return movers, nil
}
