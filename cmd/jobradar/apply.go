package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"jobradar/internal/model"
	"jobradar/internal/store"
	"jobradar/internal/tui"
)

var applyCmd = &cobra.Command{
	Use:   "apply [job-id-or-url]",
	Short: "Mark a job from the feed as applied",
	Long: `Record a job in the applied ledger so future runs pin it to the top
of the feed. With no argument, opens the feed browser to pick one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
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
	if len(feed.Jobs) == 0 {
		fmt.Println("Feed is empty; run `jobradar run` first.")
		return nil
	}

	var job *model.JobListing
	if len(args) == 1 {
		job = findJob(feed.Jobs, args[0])
		if job == nil {
			logger.Error("no job in feed matches", "query", args[0])
			os.Exit(1)
		}
	} else {
		job, err = tui.Browse(feed.Jobs)
		if err != nil {
			logger.Error("feed browser failed", "error", err)
			os.Exit(1)
		}
		if job == nil {
			return nil // user quit without picking
		}
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Mark %q at %s as applied", job.Title, job.Company),
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		fmt.Println("Cancelled.")
		return nil
	}

	rec := job.Clone()
	rec.Applied = true
	rec.AppliedAt = time.Now().Format(time.RFC3339)
	rec.Status = "Applied"

	ledger := store.NewLedgerStore(cfg.Output.LedgerPath, logger)
	if err := ledger.Append(rec); err != nil {
		logger.Error("failed to update ledger", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Applied: %s at %s\n", job.Title, job.Company)
	return nil
}

// findJob matches by exact canonical id first, then by URL.
func findJob(jobs []model.JobListing, query string) *model.JobListing {
	for i := range jobs {
		if jobs[i].ID == query {
			return &jobs[i]
		}
	}
	for i := range jobs {
		if strings.TrimRight(jobs[i].URL, "/") == strings.TrimRight(query, "/") {
			return &jobs[i]
		}
	}
	return nil
}
