package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"tradejournal/internal/model"
)

const maxStreamAttempts = 3

// BinanceStreamProvider takes one snapshot of the all-market ticker stream.
type BinanceStreamProvider struct {
	logger  *slog.Logger
	url     string
	quote   string
	backoff time.Duration
}

// NewBinanceStreamProvider creates a provider reading the !ticker@arr stream at url.
func NewBinanceStreamProvider(logger *slog.Logger, url, quote string) *BinanceStreamProvider {
	return &BinanceStreamProvider{logger: logger, url: url, quote: quote, backoff: time.Second}
}

func (b *BinanceStreamProvider) Name() string {
	return "binance-stream"
}

// streamTicker is the subset of the 24hrTicker payload the ranking needs.
type streamTicker struct {
	Symbol        string `json:"s"`
	ChangePercent string `json:"P"`
	LastPrice     string `json:"c"`
	QuoteVolume   string `json:"q"`
}

// Movers connects, reads the first ticker array and disconnects. Failed dials
// are retried with a doubling backoff.
func (b *BinanceStreamProvider) Movers(ctx context.Context, limit int) (Movers, error) {
	backoff := b.backoff
	var lastErr error
	for attempt := 1; attempt <= maxStreamAttempts; attempt++ {
		b.logger.Debug("BinanceStreamProvider: connecting to WebSocket", "url", b.url, "attempt", attempt)
		tickers, err := b.snapshot(ctx)
		if err == nil {
			gainers, losers := Rank(tickers, b.quote, limit)
			return Movers{
				Source:  b.Name(),
				AsOf:    time.Now().UTC(),
				Gainers: gainers,
				Losers:  losers,
			}, nil
		}

		lastErr = err
		b.logger.Warn("BinanceStreamProvider: snapshot failed", "attempt", attempt, "error", err)
		if attempt == maxStreamAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return Movers{}, &model.TransportError{Op: "binance stream", Err: ctx.Err()}
		case <-time.After(backoff):
			backoff *= 2
			if backoff > 16*time.Second {
				backoff = 16 * time.Second
			}
		}
	}
	return Movers{}, &model.TransportError{Op: "binance stream", Err: lastErr}
}

func (b *BinanceStreamProvider) snapshot(ctx context.Context) ([]Mover, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer c.Close()

	if deadline, ok := ctx.Deadline(); ok {
		c.SetReadDeadline(deadline)
	}
	_, message, err := c.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var raw []streamTicker
	if err := json.Unmarshal(message, &raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	tickers := make([]Mover, 0, len(raw))
	for _, t := range raw {
		m, err := parseTicker(t.Symbol, t.LastPrice, t.ChangePercent, t.QuoteVolume)
		if err != nil {
			b.logger.Debug("BinanceStreamProvider: skipping malformed ticker", "symbol", t.Symbol, "error", err)
			continue
		}
		tickers = append(tickers, m)
	}
	return tickers, nil
}
