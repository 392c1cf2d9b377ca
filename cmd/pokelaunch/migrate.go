package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded PostgreSQL and ClickHouse migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		cfg.Storage.UseMemory = false
		if err := cfg.Validate(); err != nil {
			return err
		}

		_, cleanup, err := createStores(ctx, cfg, true, logger.Named("migrate"))
		if err != nil {
			return err
		}
		defer cleanup()

		logger.Info("migrations applied")
		return nil
	},
}
