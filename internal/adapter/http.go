package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"jobradar/internal/model"
)

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// getJSON issues one GET and returns the response body. Non-200 statuses
// become *model.HTTPError so the retry layer can classify them.
func getJSON(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url),
		}
	}

	return io.ReadAll(resp.Body)
}

// finishListings runs the shared tail of every adapter: sanitize, validate
// (dropping invalid records loudly), and sort score-descending.
func finishListings(jobs []model.JobListing, warn func(job model.JobListing, missing []string)) []model.JobListing {
	out := jobs[:0]
	for _, j := range jobs {
		j.Sanitize()
		if missing := j.MissingFields(); len(missing) > 0 {
			warn(j, missing)
			continue
		}
		out = append(out, j)
	}
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].Score > out[k].Score
	})
	return out
}
