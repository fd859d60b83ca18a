package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tradejournal/internal/database"
	"tradejournal/internal/journal"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print performance metrics for every stored trade",
	Long: `Stats reads the whole journal and prints total P&L, win rate, execution
rating, the cumulative P&L series and the strategy distribution.

Example:
  tradejournal stats --format yaml`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "json", "output format (json, yaml)")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsFormat != "json" && statsFormat != "yaml" {
		return fmt.Errorf("unknown format %q", statsFormat)
	}

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	repo, err := database.Open(cmd.Context(), cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("open trade store: %w", err)
	}
	defer repo.Close()

	metrics, err := journal.NewService(logger, repo, nil).Stats(cmd.Context())
	if err != nil {
		return err
	}
	return writeMetrics(cmd.OutOrStdout(), metrics, statsFormat)
}

func writeMetrics(w io.Writer, m journal.Metrics, format string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if format == "json" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	// JSON is valid YAML. Going through a node keeps the field order.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
