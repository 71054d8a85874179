package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"jobradar/internal/adapter"
	"jobradar/internal/config"
	"jobradar/internal/filter"
	"jobradar/internal/model"
	"jobradar/internal/ratelimit"
	"jobradar/internal/retry"
)

// Task pairs a company name with its fully decorated fetcher.
type Task struct {
	Company string
	ATS     string
	Fetcher model.JobFetcher
}

// Orchestrator runs every company fetch concurrently under a shared
// admission cap and pools the results. It owns the transient unmerged job
// pool for the duration of one run.
type Orchestrator struct {
	tasks  []Task
	limit  int
	logger *slog.Logger
}

// NewOrchestrator creates an orchestrator over the given tasks. limit bounds
// the number of in-flight fetches regardless of how many companies are
// configured.
func NewOrchestrator(tasks []Task, limit int, logger *slog.Logger) *Orchestrator {
	if limit < 1 {
		limit = 1
	}
	return &Orchestrator{
		tasks:  tasks,
		limit:  limit,
		logger: logger,
	}
}

// BuildTasks wires one decorated fetcher per enabled company: ATS adapter,
// wrapped with retry, wrapped with the shared per-ATS rate limiter.
func BuildTasks(cfg *config.Config, httpClient *http.Client, eligibility *filter.Eligibility, limiter *ratelimit.ATSLimiter, logger *slog.Logger) []Task {
	var tasks []Task
	for _, company := range cfg.Companies {
		if !company.Enabled {
			continue
		}

		var fetcher model.JobFetcher
		ats := strings.ToLower(company.ATS)
		switch ats {
		case model.SourceGreenhouse:
			fetcher = adapter.NewGreenhouseClient(company.BoardToken, company.Name, httpClient, eligibility, cfg.System.UserAgent, logger)
		case model.SourceLever:
			fetcher = adapter.NewLeverClient(company.BoardToken, company.Name, httpClient, eligibility, cfg.System.UserAgent, logger)
		case model.SourceAshby:
			fetcher = adapter.NewAshbyClient(company.BoardToken, company.Name, httpClient, eligibility, cfg.System.UserAgent, logger)
		default:
			logger.Warn("unsupported ATS, skipping", "company", company.Name, "ats", company.ATS)
			continue
		}

		fetcher = retry.NewFetcher(fetcher, cfg.System.MaxRetries, cfg.System.RetryBaseDelay, logger)
		fetcher = ratelimit.NewLimitedFetcher(fetcher, limiter, ats)

		tasks = append(tasks, Task{Company: company.Name, ATS: ats, Fetcher: fetcher})
		logger.Info("registered company", "name", company.Name, "ats", ats)
	}
	return tasks
}

// FetchAll runs every task concurrently, at most limit in flight, and
// flattens the results into one pool. A failing (or panicking) task degrades
// to an empty contribution for that company; the batch always completes with
// whatever succeeded. Only within-company ordering is meaningful in the
// returned slice.
func (o *Orchestrator) FetchAll(ctx context.Context) []model.JobListing {
	o.logger.Info("starting fetch", "companies", len(o.tasks), "concurrency", o.limit)

	var (
		mu   sync.Mutex
		pool []model.JobListing
	)

	var g errgroup.Group
	g.SetLimit(o.limit)

	for _, t := range o.tasks {
		t := t
		g.Go(func() error {
			jobs, err := o.runTask(ctx, t)
			if err != nil {
				o.logger.Error("company fetch failed", "company", t.Company, "ats", t.ATS, "error", err)
				return nil // best-effort: don't cancel siblings
			}
			mu.Lock()
			pool = append(pool, jobs...)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	o.logger.Info("fetch complete", "total_jobs", len(pool))
	return pool
}

// runTask executes one company fetch, converting a panic into an error so a
// misbehaving adapter cannot abort the batch.
func (o *Orchestrator) runTask(ctx context.Context, t Task) (jobs []model.JobListing, err error) {
	defer func() {
		if r := recover(); r != nil {
			jobs = nil
			err = fmt.Errorf("fetch panic for %s: %v", t.Company, r)
		}
	}()
	return t.Fetcher.FetchJobs(ctx)
}
