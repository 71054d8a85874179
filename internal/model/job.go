package model

import (
	"context"
	"encoding/json"
	"time"
)

// ATS source names used in canonical job IDs.
const (
	SourceGreenhouse = "greenhouse"
	SourceLever      = "lever"
	SourceAshby      = "ashby"
)

// JobListing is the unified representation of a job posting from any ATS.
// The JSON tags are the contract with the dashboard and must stay stable.
type JobListing struct {
	ID          string          `json:"id"` // {source}_{board}_{jobID}, unique across ATSes
	Title       string          `json:"title"`
	Company     string          `json:"company"`
	URL         string          `json:"url"`
	Location    string          `json:"location"` // "Remote" when the source gives nothing
	Description string          `json:"description,omitempty"`
	DatePosted  string          `json:"date_posted,omitempty"` // source-native timestamp string
	Source      string          `json:"source"`
	Score       int             `json:"score"`
	MatchReason string          `json:"match_reason,omitempty"`
	RawData     json.RawMessage `json:"raw_data,omitempty"` // opaque source payload for audit
	Applied     bool            `json:"is_applied,omitempty"`
	AppliedAt   string          `json:"applied_at,omitempty"`
	Status      string          `json:"status,omitempty"` // "Applied (Closed)" for ghosts
}

// Clone returns a copy whose RawData owns an independent backing array.
// Two listings must never share raw bytes: mutating one record's audit
// payload would silently corrupt the other.
func (j JobListing) Clone() JobListing {
	c := j
	if j.RawData != nil {
		c.RawData = append(json.RawMessage(nil), j.RawData...)
	}
	return c
}

// AppliedRecord is a ledger entry: a snapshot of a listing at the moment the
// user marked it applied, with AppliedAt set. The ledger is append-only;
// entries are never rewritten, only flagged when the posting closes.
type AppliedRecord = JobListing

// RankedFeed is the persisted artifact consumed by the dashboard. It is
// regenerated wholesale on every run and replaced atomically.
type RankedFeed struct {
	GeneratedAt string       `json:"generated_at"`
	TotalJobs   int          `json:"total_jobs"`
	Jobs        []JobListing `json:"jobs"`
}

// JobFetcher fetches eligible job listings for a single company board.
type JobFetcher interface {
	FetchJobs(ctx context.Context) ([]JobListing, error)
}

// Notifier announces newly seen postings after a pipeline run.
type Notifier interface {
	Notify(jobs []JobListing) error
}

// Now is the clock type injected into components that compare against
// wall-clock time, so tests can pin it.
type Now func() time.Time
