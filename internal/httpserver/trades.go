package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"tradejournal/internal/id"
	"tradejournal/internal/model"
)

const banner = "Trade Journal backend is running!"

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(banner))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, model.KnownStrategies)
}

// tradeID reads the path identifier. Anything that is not a ULID cannot exist in the store.
func tradeID(r *http.Request) (string, error) {
	tid := chi.URLParam(r, "id")
	if !id.Valid(tid) {
		return "", model.ErrNotFound
	}
	return tid, nil
}

// handleListTrades serves every trade, or only those carrying ?tag=.
func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	var (
		trades []model.Trade
		err    error
	)
	if tag := strings.TrimSpace(r.URL.Query().Get("tag")); tag != "" {
		trades, err = s.trades.ListTradesWithTag(r.Context(), tag)
	} else {
		trades, err = s.trades.ListTrades(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if trades == nil {
		trades = []model.Trade{}
	}
	s.writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	tid, err := tradeID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	trade, err := s.trades.GetTrade(r.Context(), tid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trade)
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var in model.NewTrade
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	trade, err := s.trades.CreateTrade(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, trade)
}

func (s *Server) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	tid, err := tradeID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var patch model.TradePatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	trade, err := s.trades.UpdateTrade(r.Context(), tid, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trade)
}

type closeRequest struct {
	ExitPrice decimal.NullDecimal `json:"exitPrice"`
	ExitDate  *time.Time          `json:"exitDate"`
}

func (s *Server) handleCloseTrade(w http.ResponseWriter, r *http.Request) {
	tid, err := tradeID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req closeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.ExitPrice.Valid {
		s.writeError(w, r, &model.ValidationError{Field: "exitPrice", Reason: "is required"})
		return
	}

	trade, err := s.trades.CloseTrade(r.Context(), tid, req.ExitPrice.Decimal, req.ExitDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trade)
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	tid, err := tradeID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.trades.DeleteTrade(r.Context(), tid); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.trades.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, metrics)
}
