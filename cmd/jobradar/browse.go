package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jobradar/internal/store"
	"jobradar/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the ranked feed interactively",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	feedStore := store.NewFeedStore(cfg.Output.FeedPath, logger)
	feed, err := feedStore.Load()
	if err != nil {
		logger.Error("failed to load feed", "error", err)
		os.Exit(1)
	}

	picked, err := tui.Browse(feed.Jobs)
	if err != nil {
		logger.Error("feed browser failed", "error", err)
		os.Exit(1)
	}

	// Picking a job inside the browser flows into the apply path.
	if picked != nil {
		rec := picked.Clone()
		rec.Applied = true
		rec.AppliedAt = time.Now().Format(time.RFC3339)
		rec.Status = "Applied"

		ledger := store.NewLedgerStore(cfg.Output.LedgerPath, logger)
		if err := ledger.Append(rec); err != nil {
			logger.Error("failed to update ledger", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Applied: %s at %s\n", picked.Title, picked.Company)
	}
	return nil
}
