package process

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"jobradar/internal/config"
	"jobradar/internal/filter"
	"jobradar/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProcessor(keywords config.KeywordConfig, filtering config.FilteringConfig) *Processor {
	eligibility := filter.NewEligibility(
		config.LocationConfig{Exclude: []string{"Canada"}},
		keywords,
	)
	p := New(keywords, filtering, eligibility, discardLogger())
	// Pin the clock so freshness is deterministic.
	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	return p.WithClock(func() time.Time { return fixed })
}

func rawJob(id, title string) model.JobListing {
	return model.JobListing{
		ID:      id,
		Title:   title,
		Company: "Acme",
		URL:     "https://acme.dev/" + id,
	}
}

func TestProcess_ScoresAndSorts(t *testing.T) {
	p := testProcessor(config.KeywordConfig{
		HighPriority:    []string{"New Grad"},
		PreferredSkills: []string{"Go"},
	}, config.FilteringConfig{})

	raw := []model.JobListing{
		rawJob("greenhouse_acme_1", "Product Manager"),
		rawJob("greenhouse_acme_2", "Software Engineer, New Grad"),
	}
	raw[1].Description = "You will write Go services."

	got := p.Process(raw, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got))
	}

	// New Grad (+20) + engineer word (+5) + Go skill (+5) = 30, ranked first.
	if got[0].ID != "greenhouse_acme_2" {
		t.Fatalf("expected the scored job first, got %s", got[0].ID)
	}
	if got[0].Score != 30 {
		t.Errorf("Score = %d, want 30", got[0].Score)
	}
	if !strings.Contains(got[0].MatchReason, "Priority: New Grad") ||
		!strings.Contains(got[0].MatchReason, "Skill: Go") {
		t.Errorf("MatchReason = %q", got[0].MatchReason)
	}
	if got[1].Score != 0 {
		t.Errorf("unscored job Score = %d, want 0", got[1].Score)
	}
}

func TestProcess_PenaltySkills(t *testing.T) {
	p := testProcessor(config.KeywordConfig{
		PenaltySkills: []string{"PHP", "Wordpress"},
	}, config.FilteringConfig{})

	j := rawJob("lever_acme_1", "Software Engineer")
	j.Description = "Maintain PHP and Wordpress sites."

	got := p.Process([]model.JobListing{j}, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 job, got %d", len(got))
	}
	// engineer word (+5) minus two penalties (-6).
	if got[0].Score != -1 {
		t.Errorf("Score = %d, want -1", got[0].Score)
	}
}

func TestProcess_FreshBoost(t *testing.T) {
	p := testProcessor(config.KeywordConfig{}, config.FilteringConfig{})

	fresh := rawJob("greenhouse_acme_1", "Software Engineer")
	fresh.DatePosted = "2026-08-28T10:00:00Z" // 2h before the pinned clock

	stale := rawJob("greenhouse_acme_2", "Software Engineer")
	stale.DatePosted = "2026-08-20T10:00:00Z"

	got := p.Process([]model.JobListing{fresh, stale}, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got))
	}

	if got[0].ID != "greenhouse_acme_1" {
		t.Fatalf("expected the fresh job ranked first, got %s", got[0].ID)
	}
	if got[0].Score != 55 { // +5 engineer word, +50 fresh
		t.Errorf("fresh Score = %d, want 55", got[0].Score)
	}
	if !strings.HasPrefix(got[0].Title, "🔥 ") {
		t.Errorf("fresh Title = %q, want 🔥 prefix", got[0].Title)
	}
	// Display timestamps are rendered in Eastern time.
	if got[0].DatePosted != "2026-08-28 06:00 AM" {
		t.Errorf("fresh DatePosted = %q, want 2026-08-28 06:00 AM", got[0].DatePosted)
	}

	if got[1].Score != 5 {
		t.Errorf("stale Score = %d, want 5", got[1].Score)
	}
	if strings.HasPrefix(got[1].Title, "🔥 ") {
		t.Errorf("stale Title = %q, should not carry the fresh marker", got[1].Title)
	}
}

func TestProcess_UnparsableDateGetsNoBoost(t *testing.T) {
	p := testProcessor(config.KeywordConfig{}, config.FilteringConfig{})

	j := rawJob("greenhouse_acme_1", "Software Engineer")
	j.DatePosted = "soonish"

	got := p.Process([]model.JobListing{j}, nil)
	if got[0].Score != 5 {
		t.Errorf("Score = %d, want 5 (no freshness boost)", got[0].Score)
	}
	if got[0].DatePosted != "soonish" {
		t.Errorf("DatePosted = %q, want the original string carried through", got[0].DatePosted)
	}
}

func TestProcess_ExcludeAndBlocklist(t *testing.T) {
	p := testProcessor(config.KeywordConfig{
		Exclude:        []string{"Staff"},
		TitleBlocklist: []string{"PhD"},
	}, config.FilteringConfig{})

	raw := []model.JobListing{
		rawJob("a", "Staff Software Engineer"),
		rawJob("b", "Research Engineer, PhD required"),
		rawJob("c", "Software Engineer"),
	}

	got := p.Process(raw, nil)
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("expected only the plain engineer role, got %v", got)
	}
}

func TestProcess_LocationFilter(t *testing.T) {
	p := testProcessor(config.KeywordConfig{}, config.FilteringConfig{})

	j := rawJob("a", "Software Engineer")
	j.Location = "Toronto, Canada"

	got := p.Process([]model.JobListing{j}, nil)
	if len(got) != 0 {
		t.Fatalf("expected the excluded location to be dropped, got %v", got)
	}
}

func TestProcess_ExperienceCeiling(t *testing.T) {
	p := testProcessor(config.KeywordConfig{}, config.FilteringConfig{
		Enabled:            true,
		MaxYearsExperience: 5,
	})

	senior := rawJob("a", "Software Engineer")
	senior.Description = "Requires 8+ years of experience."

	junior := rawJob("b", "Software Engineer")
	junior.Description = "2+ years of experience preferred."

	got := p.Process([]model.JobListing{senior, junior}, nil)
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only the junior role to survive, got %v", got)
	}
}

func TestProcess_ExperienceFilterDisabled(t *testing.T) {
	p := testProcessor(config.KeywordConfig{}, config.FilteringConfig{Enabled: false})

	senior := rawJob("a", "Software Engineer")
	senior.Description = "Requires 10+ years of experience."

	got := p.Process([]model.JobListing{senior}, nil)
	if len(got) != 1 {
		t.Fatalf("expected the senior role to survive with filtering disabled, got %v", got)
	}
}

func TestProcess_DedupFirstWins(t *testing.T) {
	p := testProcessor(config.KeywordConfig{}, config.FilteringConfig{})

	first := rawJob("greenhouse_acme_1", "Software Engineer")
	first.Location = "New York"
	dup := rawJob("greenhouse_acme_1", "Software Engineer")
	dup.Location = "San Francisco"

	got := p.Process([]model.JobListing{first, dup}, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 job after dedup, got %d", len(got))
	}
	if got[0].Location != "New York" {
		t.Errorf("Location = %q, want the first occurrence to win", got[0].Location)
	}
}

func TestProcess_AppliedJobIsPinned(t *testing.T) {
	p := testProcessor(config.KeywordConfig{}, config.FilteringConfig{})

	applied := rawJob("greenhouse_acme_1", "Software Engineer")
	other := rawJob("greenhouse_acme_2", "Software Engineer, New Grad")

	ledger := []model.AppliedRecord{{
		ID:        "greenhouse_acme_1",
		Title:     "Software Engineer",
		Company:   "Acme",
		URL:       "https://acme.dev/greenhouse_acme_1",
		AppliedAt: "2026-08-01T09:00:00Z",
	}}

	got := p.Process([]model.JobListing{applied, other}, ledger)
	if len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got))
	}

	top := got[0]
	if top.ID != "greenhouse_acme_1" {
		t.Fatalf("expected the applied job pinned first, got %s", top.ID)
	}
	if !strings.HasPrefix(top.Title, "✅ ") {
		t.Errorf("Title = %q, want ✅ prefix", top.Title)
	}
	if top.Score < 1000 {
		t.Errorf("Score = %d, want pin boost applied", top.Score)
	}
	if !top.Applied {
		t.Error("expected Applied = true")
	}
	if top.AppliedAt != "2026-08-01T09:00:00Z" {
		t.Errorf("AppliedAt = %q, want the ledger timestamp", top.AppliedAt)
	}
	if top.Status == "Applied (Closed)" {
		t.Error("a live applied job must not be marked closed")
	}
}

func TestProcess_AppliedJobBypassesFilters(t *testing.T) {
	p := testProcessor(config.KeywordConfig{
		Exclude: []string{"Staff"},
	}, config.FilteringConfig{Enabled: true, MaxYearsExperience: 3})

	// Would fail both the exclude keyword and the experience ceiling.
	j := rawJob("greenhouse_acme_1", "Staff Software Engineer")
	j.Description = "Requires 10+ years of experience."

	ledger := []model.AppliedRecord{{
		ID: "greenhouse_acme_1", Title: "Staff Software Engineer",
		Company: "Acme", URL: "https://acme.dev/1", AppliedAt: "2026-08-01T09:00:00Z",
	}}

	got := p.Process([]model.JobListing{j}, ledger)
	if len(got) != 1 {
		t.Fatalf("expected the applied job to survive every filter, got %d jobs", len(got))
	}
}

func TestProcess_ResurrectsGhosts(t *testing.T) {
	p := testProcessor(config.KeywordConfig{}, config.FilteringConfig{})

	live := rawJob("greenhouse_acme_1", "Software Engineer")

	ledger := []model.AppliedRecord{
		{
			ID: "greenhouse_acme_1", Title: "Software Engineer",
			Company: "Acme", URL: "https://acme.dev/1", AppliedAt: "2026-08-01T09:00:00Z",
		},
		{
			ID: "lever_other_9", Title: "Backend Engineer", Score: 25,
			Company: "Other", URL: "https://other.dev/9", AppliedAt: "2026-07-15T09:00:00Z",
		},
	}

	got := p.Process([]model.JobListing{live}, ledger)
	if len(got) != 2 {
		t.Fatalf("expected live + ghost, got %d jobs", len(got))
	}

	var ghost *model.JobListing
	for i := range got {
		if got[i].ID == "lever_other_9" {
			ghost = &got[i]
		}
	}
	if ghost == nil {
		t.Fatal("expected the vanished applied job to be resurrected")
	}
	if !strings.HasPrefix(ghost.Title, "✅ ") || !strings.HasSuffix(ghost.Title, " (Post Closed?)") {
		t.Errorf("ghost Title = %q", ghost.Title)
	}
	if ghost.Status != "Applied (Closed)" {
		t.Errorf("ghost Status = %q, want Applied (Closed)", ghost.Status)
	}
	if ghost.Score != 1025 {
		t.Errorf("ghost Score = %d, want 1025 (snapshot score + pin)", ghost.Score)
	}
	if !ghost.Applied {
		t.Error("expected ghost Applied = true")
	}
}

func TestProcess_AppliedMarkerReplacesFreshMarker(t *testing.T) {
	p := testProcessor(config.KeywordConfig{}, config.FilteringConfig{})

	j := rawJob("greenhouse_acme_1", "Software Engineer")
	j.DatePosted = "2026-08-28T11:00:00Z" // fresh relative to the pinned clock

	ledger := []model.AppliedRecord{{
		ID: "greenhouse_acme_1", Title: "Software Engineer",
		Company: "Acme", URL: "https://acme.dev/1", AppliedAt: "2026-08-28T11:30:00Z",
	}}

	got := p.Process([]model.JobListing{j}, ledger)
	if len(got) != 1 {
		t.Fatalf("expected 1 job, got %d", len(got))
	}
	title := got[0].Title
	if !strings.HasPrefix(title, "✅ ") {
		t.Errorf("Title = %q, want ✅ prefix", title)
	}
	if strings.Contains(title, "🔥") {
		t.Errorf("Title = %q, applied marker must replace the fresh marker", title)
	}
	// Fresh boost still counts toward the score underneath the pin.
	if got[0].Score != 1055 {
		t.Errorf("Score = %d, want 1055", got[0].Score)
	}
}

func TestProcess_Deterministic(t *testing.T) {
	p := testProcessor(config.KeywordConfig{
		HighPriority:    []string{"New Grad"},
		PreferredSkills: []string{"Go"},
	}, config.FilteringConfig{})

	raw := []model.JobListing{
		rawJob("greenhouse_acme_1", "Software Engineer, New Grad"),
		rawJob("lever_acme_2", "Data Engineer"),
		rawJob("ashby_acme_3", "Software Engineer"),
	}
	ledger := []model.AppliedRecord{{
		ID: "lever_other_9", Title: "Backend Engineer",
		Company: "Other", URL: "https://other.dev/9", AppliedAt: "2026-07-15T09:00:00Z",
	}}

	first := p.Process(raw, ledger)
	second := p.Process(raw, ledger)

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Score != second[i].Score || first[i].Title != second[i].Title {
			t.Errorf("rank %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestProcess_EmptyLocationDefaultsToRemote(t *testing.T) {
	p := testProcessor(config.KeywordConfig{}, config.FilteringConfig{})

	j := rawJob("a", "Software Engineer")
	j.Location = ""

	got := p.Process([]model.JobListing{j}, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 job, got %d", len(got))
	}
	if got[0].Location != "Remote" {
		t.Errorf("Location = %q, want Remote", got[0].Location)
	}
}
