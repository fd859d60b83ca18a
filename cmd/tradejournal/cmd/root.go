package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"tradejournal/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "Personal trading journal backend",
	Long: `tradejournal records trades, closes them with realized P&L and derives
performance metrics for the journal UI.

Configuration is read from config.yaml in the --config directory, from a .env
file and from TRADEJOURNAL_* environment variables.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yaml")
}

// loadConfig reads the configuration and installs the configured logger as default.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("cannot load config: %w", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
