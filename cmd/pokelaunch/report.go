package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pokelaunch/internal/reporting"
)

var (
	reportOutputDir string
	reportTopN      int
	reportStdout    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the creator leaderboard as Markdown and CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		if err := cfg.Validate(); err != nil {
			return err
		}
		stores, cleanup, err := createStores(ctx, cfg, false, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		if cfg.Storage.UseMemory {
			if _, err := loadSeed(ctx, stores); err != nil {
				return err
			}
		}

		return writeReport(ctx, stores)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutputDir, "output-dir", "o", "output", "Output directory for reports")
	reportCmd.Flags().IntVar(&reportTopN, "top", reporting.DefaultTopN, "Rows in the top token table")
	reportCmd.Flags().BoolVar(&reportStdout, "stdout", false, "Print the Markdown report instead of writing files")
}

func writeReport(ctx context.Context, stores *allStores) error {
	start := time.Now()
	r, err := reporting.NewGenerator(stores.tokens).WithTopN(reportTopN).Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	if reportStdout {
		fmt.Print(reporting.RenderMarkdown(r))
		return nil
	}

	paths, err := reporting.WriteFiles(reportOutputDir, r)
	if err != nil {
		return err
	}
	logger.Info("report written",
		zap.Strings("files", paths),
		zap.Int("creators", r.Summary.Creators),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
