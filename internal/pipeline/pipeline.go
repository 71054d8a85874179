package pipeline

import (
	"context"
	"log/slog"
	"time"

	"jobradar/internal/fetch"
	"jobradar/internal/model"
	"jobradar/internal/process"
	"jobradar/internal/store"
)

// Seen-job entries older than this are pruned after each run.
const seenRetention = 60 * 24 * time.Hour

// Pipeline owns one full aggregation run: fetch all sources, process and
// rank, persist the feed, and announce postings never seen before.
type Pipeline struct {
	orchestrator *fetch.Orchestrator
	processor    *process.Processor
	feed         *store.FeedStore
	ledger       *store.LedgerStore
	seen         *store.SeenStore // nil disables new-job tracking
	notifier     model.Notifier
	logger       *slog.Logger
}

// New creates a pipeline wired with all its dependencies.
func New(
	orchestrator *fetch.Orchestrator,
	processor *process.Processor,
	feed *store.FeedStore,
	ledger *store.LedgerStore,
	seen *store.SeenStore,
	notifier model.Notifier,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		orchestrator: orchestrator,
		processor:    processor,
		feed:         feed,
		ledger:       ledger,
		seen:         seen,
		notifier:     notifier,
		logger:       logger,
	}
}

// Run executes one aggregation cycle. A run that fetches zero jobs exits
// cleanly without touching the persisted feed, so a transient all-sources
// outage can never erase it. Only persistence failures are fatal.
func (p *Pipeline) Run(ctx context.Context) error {
	raw := p.orchestrator.FetchAll(ctx)
	if len(raw) == 0 {
		p.logger.Warn("no jobs fetched; leaving existing feed untouched")
		return nil
	}

	ledger, err := p.ledger.Load()
	if err != nil {
		// A broken ledger should not kill the run; applied jobs just won't
		// merge until it is repaired.
		p.logger.Error("failed to load applied ledger", "error", err)
		ledger = nil
	}

	processed := p.processor.Process(raw, ledger)
	if len(processed) == 0 {
		p.logger.Warn("no jobs after processing; leaving existing feed untouched")
		return nil
	}

	if err := p.feed.Save(processed); err != nil {
		return err
	}

	p.announceNew(processed)

	p.logger.Info("run complete",
		"fetched", len(raw),
		"processed", len(processed),
		"top_score", processed[0].Score,
	)
	return nil
}

// announceNew records every processed job in the seen store and notifies the
// ones observed for the first time. Applied entries are excluded; the user
// already knows about those.
func (p *Pipeline) announceNew(processed []model.JobListing) {
	if p.seen == nil {
		return
	}

	var fresh []model.JobListing
	for _, j := range processed {
		isNew, err := p.seen.RecordSeen(j)
		if err != nil {
			p.logger.Warn("failed to record seen job", "id", j.ID, "error", err)
			continue
		}
		if isNew && !j.Applied {
			fresh = append(fresh, j)
		}
	}

	if len(fresh) > 0 {
		if err := p.notifier.Notify(fresh); err != nil {
			p.logger.Error("notification failed", "error", err)
		}
	}

	if err := p.seen.Cleanup(seenRetention); err != nil {
		p.logger.Warn("seen-store cleanup failed", "error", err)
	}

	p.logger.Info("seen store updated", "new", len(fresh))
}
