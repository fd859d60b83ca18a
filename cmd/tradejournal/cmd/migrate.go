package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradejournal/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the trade store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		repo, err := database.Open(cmd.Context(), cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		defer repo.Close()

		logger.Info("Schema is up to date", "driver", cfg.Database.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
