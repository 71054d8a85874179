package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"jobradar/internal/model"
)

// FeedStore persists the ranked job feed. It is a pure I/O boundary: no
// filtering or scoring happens here beyond a final schema re-validation.
type FeedStore struct {
	path   string
	now    model.Now
	logger *slog.Logger
}

// NewFeedStore creates a store writing the feed at path.
func NewFeedStore(path string, logger *slog.Logger) *FeedStore {
	return &FeedStore{path: path, now: time.Now, logger: logger}
}

// Save atomically replaces the feed file with the given ranked jobs. Every
// job is re-validated immediately before the write; malformed entries are
// dropped with a warning rather than corrupting the persisted file. A crash
// mid-write never leaves a truncated feed visible: the data lands in a temp
// file in the same directory and is renamed over the destination.
func (s *FeedStore) Save(jobs []model.JobListing) error {
	validated := make([]model.JobListing, 0, len(jobs))
	for _, j := range jobs {
		j.Sanitize()
		if missing := j.MissingFields(); len(missing) > 0 {
			s.logger.Warn("dropping malformed job before save",
				"id", j.ID, "title", j.Title, "missing", missing)
			continue
		}
		validated = append(validated, j)
	}

	feed := model.RankedFeed{
		GeneratedAt: s.now().Format(time.RFC3339),
		TotalJobs:   len(validated),
		Jobs:        validated,
	}

	if err := writeAtomic(s.path, feed); err != nil {
		return fmt.Errorf("save feed: %w", err)
	}

	s.logger.Info("saved ranked feed", "path", s.path, "jobs", len(validated))
	return nil
}

// Load reads the persisted feed. A missing file yields an empty feed.
func (s *FeedStore) Load() (*model.RankedFeed, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.RankedFeed{}, nil
		}
		return nil, fmt.Errorf("load feed: %w", err)
	}

	var feed model.RankedFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return &feed, nil
}

// writeAtomic marshals v as indented JSON into a temp file in the target's
// directory, fsyncs it, and renames it over the destination. The temp file is
// removed on any failure and the error propagates; a failed save must never
// be silently swallowed.
func writeAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		cleanup()
		return err
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
