package httpserver

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"tradejournal/internal/journal"
	"tradejournal/internal/model"
)

type riskRequest struct {
	Direction  string          `json:"direction"`
	EntryPrice decimal.Decimal `json:"entryPrice"`
	Quantity   decimal.Decimal `json:"quantity"`
	StopLoss   decimal.Decimal `json:"stopLoss"`
	TakeProfit decimal.Decimal `json:"takeProfit"`
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	var req riskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	direction, err := model.ParseDirection(req.Direction)
	if err != nil {
		s.writeError(w, r, &model.ValidationError{Field: "direction", Reason: err.Error()})
		return
	}
	in := journal.RiskInput{
		Direction:  direction,
		EntryPrice: req.EntryPrice,
		Quantity:   req.Quantity,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
	}
	if err := in.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, journal.RiskReward(in))
}

func (s *Server) handleMovers(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.Market.Limit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxMoversLimit {
			s.writeError(w, r, &model.ValidationError{Field: "limit", Reason: "must be between 1 and 50"})
			return
		}
		limit = n
	}

	movers, err := s.movers.Movers(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, movers)
}

func (s *Server) handleUploadScreenshot(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.Screenshot.MaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<10)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, &model.ValidationError{Field: "image", Reason: "is too large"})
			return
		}
		s.writeError(w, r, &model.ValidationError{Field: "image", Reason: "expected a multipart form"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, r, &model.ValidationError{Field: "image", Reason: "is required"})
		return
	}
	defer file.Close()

	url, err := s.uploader.Upload(r.Context(), filepath.Base(header.Filename), file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	trades, err := s.trades.ListTrades(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.reviewer.Review(r.Context(), trades, journal.Summarize(trades)))
}
