package market

import (
	"fmt"
	"log/slog"

	"tradejournal/internal/config"
)

// NewProvider creates the configured movers provider, wrapped with the static fallback.
func NewProvider(logger *slog.Logger, cfg config.MarketConfig) (Provider, error) {
	var primary Provider
	switch cfg.Source {
	case "", "rest":
		primary = NewBinanceRESTProvider(logger, cfg.BaseURL, cfg.QuoteAsset, cfg.Timeout)
	case "stream":
		primary = NewBinanceStreamProvider(logger, cfg.StreamURL, cfg.QuoteAsset)
	case "static":
		return NewStaticProvider(), nil
	default:
		return nil, fmt.Errorf("unknown market source: %s", cfg.Source)
	}
	return WithFallback(logger, primary), nil
}
