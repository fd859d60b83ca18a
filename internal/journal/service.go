package journal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/database"
	"tradejournal/internal/events"
	"tradejournal/internal/model"
)

// Service sequences lifecycle rules and the trade store.
type Service struct {
	logger *slog.Logger
	repo   database.Repository
	events events.Publisher
	now    func() time.Time
}

// NewService creates a new instance of the Service. A nil publisher disables events.
func NewService(logger *slog.Logger, repo database.Repository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		logger: logger,
		repo:   repo,
		events: publisher,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ListTrades returns every trade, most recent entry first.
func (s *Service) ListTrades(ctx context.Context) ([]model.Trade, error) {
	trades, err := s.repo.ListTrades(ctx)
	if err != nil {
		return nil, s.storeError("list trades", err)
	}
	return trades, nil
}

// ListTradesWithTag returns the trades labelled tag, keeping the ListTrades order.
func (s *Service) ListTradesWithTag(ctx context.Context, tag string) ([]model.Trade, error) {
	trades, err := s.ListTrades(ctx)
	if err != nil {
		return nil, err
	}
	tagged := make([]model.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Tags.Contains(tag) {
			tagged = append(tagged, t)
		}
	}
	return tagged, nil
}

func (s *Service) GetTrade(ctx context.Context, tradeID string) (model.Trade, error) {
	t, err := s.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return model.Trade{}, s.storeError("get trade", err)
	}
	return t, nil
}

// CreateTrade logs a new open trade. Invalid input never reaches the store.
func (s *Service) CreateTrade(ctx context.Context, in model.NewTrade) (model.Trade, error) {
	trade, err := NormalizeNewTrade(in, s.now())
	if err != nil {
		s.logger.Warn("Rejected trade", "error", err)
		return model.Trade{}, err
	}

	created, err := s.repo.CreateTrade(ctx, trade)
	if err != nil {
		return model.Trade{}, s.storeError("create trade", err)
	}

	s.logger.Info("Trade logged",
		"id", created.ID,
		"symbol", created.Symbol,
		"direction", created.Direction,
		"entryPrice", created.EntryPrice.String(),
		"quantity", created.Quantity.String(),
	)
	s.publish(ctx, events.Created, created)
	return created, nil
}

// UpdateTrade applies a generic edit. An exit price on an open trade closes it.
func (s *Service) UpdateTrade(ctx context.Context, tradeID string, patch model.TradePatch) (model.Trade, error) {
	current, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return model.Trade{}, err
	}

	next, err := ApplyPatch(current, patch, s.now())
	if err != nil {
		s.logger.Warn("Rejected trade update", "id", tradeID, "error", err)
		return model.Trade{}, err
	}

	return s.save(ctx, current, next)
}

// CloseTrade closes an open trade at exit. at defaults to now.
func (s *Service) CloseTrade(ctx context.Context, tradeID string, exit decimal.Decimal, at *time.Time) (model.Trade, error) {
	current, err := s.GetTrade(ctx, tradeID)
	if err != nil {
		return model.Trade{}, err
	}

	next, err := closeAt(current, exit, at, s.now())
	if err != nil {
		s.logger.Warn("Rejected trade close", "id", tradeID, "error", err)
		return model.Trade{}, err
	}

	return s.save(ctx, current, next)
}

// DeleteTrade removes a trade. Deleting an absent trade is an error.
func (s *Service) DeleteTrade(ctx context.Context, tradeID string) error {
	if err := s.repo.DeleteTrade(ctx, tradeID); err != nil {
		return s.storeError("delete trade", err)
	}
	s.logger.Info("Trade deleted", "id", tradeID)
	s.publish(ctx, events.Deleted, model.Trade{ID: tradeID})
	return nil
}

// Stats summarizes every stored trade.
func (s *Service) Stats(ctx context.Context) (Metrics, error) {
	trades, err := s.ListTrades(ctx)
	if err != nil {
		return Metrics{}, err
	}
	return Summarize(trades), nil
}

func (s *Service) save(ctx context.Context, before, after model.Trade) (model.Trade, error) {
	saved, err := s.repo.UpdateTrade(ctx, after, before.Status)
	if err != nil {
		return model.Trade{}, s.storeError("update trade", err)
	}

	action := events.Updated
	if !before.IsClosed() && saved.IsClosed() {
		action = events.Closed
		s.logger.Info("Trade closed",
			"id", saved.ID,
			"symbol", saved.Symbol,
			"exitPrice", saved.ExitPrice.Decimal.String(),
			"pnl", saved.PnL.String(),
		)
	} else {
		s.logger.Info("Trade updated", "id", saved.ID)
	}
	s.publish(ctx, action, saved)
	return saved, nil
}

func (s *Service) publish(ctx context.Context, action events.Action, t model.Trade) {
	if err := s.events.Publish(ctx, events.NewEvent(action, t, s.now())); err != nil {
		s.logger.Warn("Failed to publish trade event", "action", action, "id", t.ID, "error", err)
	}
}

func (s *Service) storeError(op string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	if errors.Is(err, model.ErrTradeClosed) {
		s.logger.Warn("Trade changed since it was read", "op", op, "error", err)
		return err
	}
	s.logger.Error("Trade store call failed", "op", op, "error", err)
	return &model.TransportError{Op: op, Err: err}
}
