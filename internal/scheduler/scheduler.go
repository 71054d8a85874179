package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Runner is one unit of scheduled work; in practice the pipeline.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler owns the daemon loop: run once immediately, then tick on the
// configured interval until the context is cancelled.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

// New creates a scheduler running the given runner at the given interval.
func New(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It returns nil when ctx is cancelled (graceful
// shutdown). Run errors are logged, not fatal; the next tick tries again.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.runner.Run(ctx); err != nil {
		s.logger.Error("run failed", "error", err)
	}
}
