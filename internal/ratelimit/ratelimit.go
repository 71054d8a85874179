package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"jobradar/internal/model"
)

// ATSLimiter rate-limits outbound requests per ATS backend so that many
// companies on the same provider don't hammer one API.
type ATSLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter // key: ATS name
	r        rate.Limit
	burst    int
}

// NewATSLimiter creates a limiter allowing reqPerSec requests (with the given
// burst) to each ATS provider.
func NewATSLimiter(reqPerSec float64, burst int) *ATSLimiter {
	return &ATSLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Limit(reqPerSec),
		burst:    burst,
	}
}

func (l *ATSLimiter) limiterFor(ats string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[ats]; ok {
		return lim
	}
	lim := rate.NewLimiter(l.r, l.burst)
	l.limiters[ats] = lim
	return lim
}

// Wait blocks until the limiter admits a request to the given ATS, or the
// context is cancelled.
func (l *ATSLimiter) Wait(ctx context.Context, ats string) error {
	if err := l.limiterFor(ats).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", ats, err)
	}
	return nil
}

// LimitedFetcher is a decorator that enforces ATS-level rate limiting before
// delegating to the wrapped JobFetcher. All fetchers targeting the same ATS
// should share the same limiter instance.
type LimitedFetcher struct {
	inner   model.JobFetcher
	limiter *ATSLimiter
	ats     string
}

// NewLimitedFetcher wraps a JobFetcher with ATS-level rate limiting.
func NewLimitedFetcher(inner model.JobFetcher, limiter *ATSLimiter, ats string) *LimitedFetcher {
	return &LimitedFetcher{
		inner:   inner,
		limiter: limiter,
		ats:     ats,
	}
}

// FetchJobs waits for the rate limiter to admit a request, then delegates to
// the wrapped fetcher.
func (f *LimitedFetcher) FetchJobs(ctx context.Context) ([]model.JobListing, error) {
	if err := f.limiter.Wait(ctx, f.ats); err != nil {
		return nil, err
	}
	return f.inner.FetchJobs(ctx)
}
