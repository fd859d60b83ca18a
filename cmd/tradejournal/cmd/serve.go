package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tradejournal/internal/coach"
	"tradejournal/internal/database"
	"tradejournal/internal/events"
	"tradejournal/internal/httpserver"
	"tradejournal/internal/journal"
	"tradejournal/internal/market"
	"tradejournal/internal/screenshot"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the journal HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open trade store: %w", err)
	}
	defer repo.Close()
	logger.Info("Trade store ready", "driver", cfg.Database.Driver)

	var publisher events.Publisher = events.Noop{}
	if cfg.Events.AMQPURL != "" {
		amqpPublisher, err := events.DialAMQP(cfg.Events.AMQPURL, cfg.Events.Exchange, logger)
		if err != nil {
			return fmt.Errorf("connect event broker: %w", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	movers, err := market.NewProvider(logger, cfg.Market)
	if err != nil {
		return err
	}

	srv := httpserver.NewServer(
		logger,
		&cfg,
		journal.NewService(logger, repo, publisher),
		movers,
		screenshot.NewImgBBUploader(logger, cfg.Screenshot),
		coach.New(logger, cfg.Coach),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}
