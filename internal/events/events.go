package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tradejournal/internal/model"
)

// Action names a trade lifecycle change.
type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Closed  Action = "closed"
	Deleted Action = "deleted"
)

// Event is published after a write has been persisted.
type Event struct {
	ID         string       `json:"id"`
	Action     Action       `json:"action"`
	TradeID    string       `json:"tradeId"`
	Trade      *model.Trade `json:"trade,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// NewEvent stamps an event for trade. Deleted events carry no trade body.
func NewEvent(action Action, trade model.Trade, at time.Time) Event {
	e := Event{
		ID:         uuid.NewString(),
		Action:     action,
		TradeID:    trade.ID,
		OccurredAt: at.UTC(),
	}
	if action != Deleted {
		e.Trade = &trade
	}
	return e
}

// RoutingKey is the topic the event is published under, e.g. trade.closed.
func (e Event) RoutingKey() string {
	return "trade." + string(e.Action)
}

// Publisher delivers lifecycle events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
