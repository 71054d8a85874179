package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"jobradar/internal/config"
	"jobradar/internal/fetch"
	"jobradar/internal/filter"
	"jobradar/internal/model"
	"jobradar/internal/notify"
	"jobradar/internal/pipeline"
	"jobradar/internal/process"
	"jobradar/internal/ratelimit"
	"jobradar/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobradar",
	Short: "Job radar — rank engineering roles across company boards",
	Long:  "JobRadar aggregates postings from Greenhouse, Lever and Ashby boards, scores them against your preferences, and keeps a ranked feed on disk.",
	// Default to `start` so that `jobradar` with no args runs the daemon.
	// This preserves compatibility with systemd unit files that invoke the binary directly.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBRADAR_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBRADAR_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBRADAR_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notify.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notify.NewLogNotifier(logger)
	}
}

// buildPipeline wires one fully assembled pipeline from config. The returned
// cleanup closes the seen store and must be called when the run is over.
func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, func(), error) {
	httpClient := &http.Client{Timeout: cfg.System.RequestTimeout}

	eligibility := filter.NewEligibility(cfg.Locations, cfg.Keywords)
	limiter := ratelimit.NewATSLimiter(cfg.System.RatePerSecond, cfg.System.RateBurst)

	tasks := fetch.BuildTasks(cfg, httpClient, eligibility, limiter, logger)
	orchestrator := fetch.NewOrchestrator(tasks, cfg.System.ConcurrencyLimit, logger)

	processor := process.New(cfg.Keywords, cfg.Filtering, eligibility, logger)

	feed := store.NewFeedStore(cfg.Output.FeedPath, logger)
	ledger := store.NewLedgerStore(cfg.Output.LedgerPath, logger)

	// The seen store only gates notifications; if it cannot be opened, run
	// without it rather than failing the whole cycle.
	seen, err := store.NewSeenStore(cfg.Output.SeenDBPath)
	if err != nil {
		logger.Warn("failed to open seen store, new-job alerts disabled", "error", err)
		seen = nil
	}

	notifier := setupNotifier(cfg, httpClient, logger)

	p := pipeline.New(orchestrator, processor, feed, ledger, seen, notifier, logger)
	cleanup := func() {
		if seen != nil {
			seen.Close()
		}
	}
	return p, cleanup, nil
}
