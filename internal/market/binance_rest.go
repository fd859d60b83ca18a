package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"

	"tradejournal/internal/model"
)

// BinanceRESTProvider ranks the public 24h ticker statistics of the Binance spot API.
type BinanceRESTProvider struct {
	client *binance.Client
	logger *slog.Logger
	quote  string
}

// NewBinanceRESTProvider creates a provider against baseURL. Only public
// endpoints are used so no credentials are needed.
func NewBinanceRESTProvider(logger *slog.Logger, baseURL, quote string, timeout time.Duration) *BinanceRESTProvider {
	client := binance.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	client.HTTPClient = &http.Client{Timeout: timeout}
	return &BinanceRESTProvider{client: client, logger: logger, quote: quote}
}

func (b *BinanceRESTProvider) Name() string {
	return "binance"
}

func (b *BinanceRESTProvider) Movers(ctx context.Context, limit int) (Movers, error) {
	stats, err := b.client.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) {
			b.logger.Error("Binance rejected ticker request", "code", apiErr.Code, "message", apiErr.Message)
		}
		return Movers{}, &model.TransportError{Op: "binance ticker", Err: err}
	}

	tickers := make([]Mover, 0, len(stats))
	for _, s := range stats {
		m, err := parseTicker(s.Symbol, s.LastPrice, s.PriceChangePercent, s.QuoteVolume)
		if err != nil {
			b.logger.Debug("Skipping malformed ticker", "symbol", s.Symbol, "error", err)
			continue
		}
		tickers = append(tickers, m)
	}

	gainers, losers := Rank(tickers, b.quote, limit)
	return Movers{
		Source:  b.Name(),
		AsOf:    time.Now().UTC(),
		Gainers: gainers,
		Losers:  losers,
	}, nil
}

func parseTicker(symbol, last, change, volume string) (Mover, error) {
	lastPrice, err := decimal.NewFromString(last)
	if err != nil {
		return Mover{}, fmt.Errorf("last price: %w", err)
	}
	changePercent, err := decimal.NewFromString(change)
	if err != nil {
		return Mover{}, fmt.Errorf("change percent: %w", err)
	}
	quoteVolume, err := decimal.NewFromString(volume)
	if err != nil {
		return Mover{}, fmt.Errorf("quote volume: %w", err)
	}
	return Mover{
		Symbol:        symbol,
		LastPrice:     lastPrice,
		ChangePercent: changePercent,
		QuoteVolume:   quoteVolume,
	}, nil
}
