package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"

	"tradejournal/internal/coach"
	"tradejournal/internal/config"
	"tradejournal/internal/journal"
	"tradejournal/internal/market"
	"tradejournal/internal/model"
	"tradejournal/internal/screenshot"
)

const maxMoversLimit = 50

func init() {
	// Prices and quantities go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Reviewer produces coaching commentary for the journal.
type Reviewer interface {
	Review(ctx context.Context, trades []model.Trade, m journal.Metrics) coach.Advice
}

// Server is the HTTP surface of the journal.
type Server struct {
	logger   *slog.Logger
	cfg      *config.Config
	trades   *journal.Service
	movers   market.Provider
	uploader screenshot.Uploader
	reviewer Reviewer
}

// NewServer creates a new instance of the Server.
func NewServer(logger *slog.Logger, cfg *config.Config, trades *journal.Service, movers market.Provider, uploader screenshot.Uploader, reviewer Reviewer) *Server {
	return &Server{
		logger:   logger,
		cfg:      cfg,
		trades:   trades,
		movers:   movers,
		uploader: uploader,
		reviewer: reviewer,
	}
}

// Routes builds the router with all middleware applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	if s.cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	r.Get("/", s.handleBanner)
	r.Get("/health", s.handleHealth)
	r.Get("/strategies", s.handleStrategies)

	r.Route("/trades", func(r chi.Router) {
		r.Get("/", s.handleListTrades)
		r.Post("/", s.handleCreateTrade)
		r.Get("/stats", s.handleStats)
		r.Get("/{id}", s.handleGetTrade)
		r.Patch("/{id}", s.handleUpdateTrade)
		r.Delete("/{id}", s.handleDeleteTrade)
		r.Post("/{id}/close", s.handleCloseTrade)
	})

	r.Post("/risk", s.handleRisk)
	r.Get("/market/movers", s.handleMovers)
	r.Post("/screenshots", s.handleUploadScreenshot)
	r.Post("/coach", s.handleCoach)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"requestId", middleware.GetReqID(r.Context()),
		)
	})
}
