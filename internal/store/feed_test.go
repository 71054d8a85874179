package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobradar/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validJob(id string) model.JobListing {
	return model.JobListing{
		ID:       id,
		Title:    "Software Engineer",
		Company:  "Acme",
		URL:      "https://acme.dev/" + id,
		Location: "Remote",
	}
}

func TestFeedStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "jobs_feed.json")
	s := NewFeedStore(path, discardLogger())

	jobs := []model.JobListing{validJob("a"), validJob("b")}
	if err := s.Save(jobs); err != nil {
		t.Fatalf("Save: %v", err)
	}

	feed, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if feed.TotalJobs != 2 || len(feed.Jobs) != 2 {
		t.Fatalf("TotalJobs = %d, Jobs = %d, want 2/2", feed.TotalJobs, len(feed.Jobs))
	}
	if feed.GeneratedAt == "" {
		t.Error("expected GeneratedAt to be set")
	}
	if feed.Jobs[0].ID != "a" || feed.Jobs[1].ID != "b" {
		t.Errorf("job order not preserved: %v", feed.Jobs)
	}
}

func TestFeedStore_SaveDropsMalformedJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	s := NewFeedStore(path, discardLogger())

	jobs := []model.JobListing{
		validJob("a"),
		{Title: "No ID or URL", Company: "Acme"},
	}
	if err := s.Save(jobs); err != nil {
		t.Fatalf("Save: %v", err)
	}

	feed, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if feed.TotalJobs != 1 {
		t.Fatalf("TotalJobs = %d, want 1 (malformed job dropped)", feed.TotalJobs)
	}
}

func TestFeedStore_LoadMissingFileIsEmptyFeed(t *testing.T) {
	s := NewFeedStore(filepath.Join(t.TempDir(), "nonexistent.json"), discardLogger())

	feed, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if feed.TotalJobs != 0 || len(feed.Jobs) != 0 {
		t.Fatalf("expected empty feed, got %+v", feed)
	}
}

func TestFeedStore_SaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feed.json")
	s := NewFeedStore(path, discardLogger())

	if err := s.Save([]model.JobListing{validJob("a")}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := s.Save([]model.JobListing{validJob("b"), validJob("c")}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	feed, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if feed.TotalJobs != 2 {
		t.Fatalf("TotalJobs = %d, want the second save's contents", feed.TotalJobs)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestFeedStore_SaveFailureLeavesOriginalIntact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feed.json")
	s := NewFeedStore(path, discardLogger())

	if err := s.Save([]model.JobListing{validJob("a")}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Make the directory read-only so the temp file cannot be created.
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o755)

	if err := s.Save([]model.JobListing{validJob("b")}); err == nil {
		t.Fatal("expected Save to fail in a read-only directory")
	}

	os.Chmod(dir, 0o755)
	feed, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if feed.TotalJobs != 1 || feed.Jobs[0].ID != "a" {
		t.Fatalf("original feed was disturbed: %+v", feed)
	}
}
