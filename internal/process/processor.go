package process

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"jobradar/internal/config"
	"jobradar/internal/filter"
	"jobradar/internal/model"
)

// Feed display markers. Applied overrides fresh: both stacking would read as
// "✅ 🔥 title", so the fresh marker is stripped before pinning.
const (
	appliedMarker = "✅ "
	freshMarker   = "🔥 "
	ghostSuffix   = " (Post Closed?)"
	statusClosed  = "Applied (Closed)"
	pinBoost      = 1000
	freshWindow   = 24 * time.Hour
)

// Processor runs the second-pass filter, the relevance scorer, and the merge
// against the applied ledger. It is the sole producer of the ranked feed and
// executes single-threaded after all fetches complete.
type Processor struct {
	keywords    config.KeywordConfig
	filtering   config.FilteringConfig
	eligibility *filter.Eligibility
	now         model.Now
	ref         *time.Location
	logger      *slog.Logger
}

// New creates a processor. The eligibility filter contributes only its
// location rules here; title scoring in this pass uses the full keyword
// config including the description-aware lists the ingestion filter never
// sees.
func New(keywords config.KeywordConfig, filtering config.FilteringConfig, eligibility *filter.Eligibility, logger *slog.Logger) *Processor {
	ref, err := time.LoadLocation("America/New_York")
	if err != nil {
		ref = time.FixedZone("EST", -5*60*60)
	}
	return &Processor{
		keywords:    keywords,
		filtering:   filtering,
		eligibility: eligibility,
		now:         time.Now,
		ref:         ref,
		logger:      logger,
	}
}

// WithClock pins the processor's clock; used by tests to make freshness
// deterministic.
func (p *Processor) WithClock(now model.Now) *Processor {
	p.now = now
	return p
}

// Process filters, scores, and ranks raw listings, merging them with the
// applied ledger. The output is a superset of "currently live eligible jobs"
// and "all jobs ever applied to": ledger entries missing from the scrape are
// resurrected as ghosts so an application is never lost from the feed.
func (p *Processor) Process(raw []model.JobListing, ledger []model.AppliedRecord) []model.JobListing {
	p.logger.Info("processing jobs", "raw", len(raw), "applied", len(ledger))

	appliedByID := make(map[string]model.AppliedRecord, len(ledger))
	for _, rec := range ledger {
		appliedByID[rec.ID] = rec
	}

	processed := make([]model.JobListing, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, job := range raw {
		// Same posting fetched twice in one batch: first occurrence wins.
		if seen[job.ID] {
			continue
		}
		seen[job.ID] = true

		rec, isApplied := appliedByID[job.ID]

		job = job.Clone()
		if job.Location == "" {
			job.Location = "Remote"
		}

		// An applied job bypasses every filter below: it must never vanish
		// from the feed because a rule changed after the application.
		if !isApplied && !p.passesFilters(job) {
			continue
		}

		score, reasons := p.score(job)

		fresh := false
		if posted, ok := parseDate(job.DatePosted, p.ref); ok {
			job.DatePosted = posted.Format("2006-01-02 03:04 PM")
			age := p.now().In(p.ref).Sub(posted)
			if age < freshWindow && age > -freshWindow {
				score += 50
				fresh = true
				reasons = append(reasons, "Fresh")
			}
		}

		if isApplied {
			job.Title = appliedMarker + strings.ReplaceAll(job.Title, freshMarker, "")
			score += pinBoost
			job.Applied = true
			job.AppliedAt = rec.AppliedAt
		} else if fresh {
			job.Title = freshMarker + job.Title
		}

		job.Score = score
		if len(reasons) > 0 {
			job.MatchReason = joinReasons(job.MatchReason, reasons)
		}
		processed = append(processed, job)
	}

	processed = p.resurrectGhosts(processed, ledger)

	sort.SliceStable(processed, func(i, j int) bool {
		return processed[i].Score > processed[j].Score
	})

	p.logger.Info("processing complete", "retained", len(processed))
	return processed
}

// passesFilters applies the second-pass rejection rules for non-applied jobs:
// location, soft exclude keywords, the hard title blocklist, and the
// experience ceiling.
func (p *Processor) passesFilters(job model.JobListing) bool {
	if !p.eligibility.ValidLocation(job.Location) {
		p.logger.Debug("skipping location", "id", job.ID, "location", job.Location)
		return false
	}

	titleLower := strings.ToLower(job.Title)
	for _, bad := range p.keywords.Exclude {
		if strings.Contains(titleLower, strings.ToLower(bad)) {
			p.logger.Debug("excluding by keyword", "id", job.ID, "title", job.Title, "keyword", bad)
			return false
		}
	}
	// The blocklist holds degree/domain terms that disqualify a title no
	// matter what other signals say; stricter than the soft exclude list.
	for _, bad := range p.keywords.TitleBlocklist {
		if strings.Contains(titleLower, strings.ToLower(bad)) {
			p.logger.Debug("excluding by blocklist", "id", job.ID, "title", job.Title, "term", bad)
			return false
		}
	}

	if p.filtering.Enabled {
		required := extractMinYears(job.Title + " " + job.Description)
		if required > p.filtering.MaxYearsExperience {
			p.logger.Info("skipping by experience",
				"title", job.Title, "required", required, "limit", p.filtering.MaxYearsExperience)
			return false
		}
	}

	return true
}

// score computes the relevance score and the matched-token trace for one job.
func (p *Processor) score(job model.JobListing) (int, []string) {
	titleLower := strings.ToLower(job.Title)
	descLower := strings.ToLower(job.Description)

	score := 0
	var reasons []string

	for _, good := range p.keywords.HighPriority {
		if strings.Contains(titleLower, strings.ToLower(good)) {
			score += 20
			reasons = append(reasons, "Priority: "+good)
			break
		}
	}

	if strings.Contains(titleLower, "software") ||
		strings.Contains(titleLower, "engineer") ||
		strings.Contains(titleLower, "developer") {
		score += 5
	}

	for _, skill := range p.keywords.PreferredSkills {
		s := strings.ToLower(skill)
		if strings.Contains(descLower, s) || strings.Contains(titleLower, s) {
			score += 5
			reasons = append(reasons, "Skill: "+skill)
		}
	}

	// Soft negative: a borderline match with an undesired stack still
	// surfaces, just ranked below clean matches.
	for _, skill := range p.keywords.PenaltySkills {
		if strings.Contains(descLower, strings.ToLower(skill)) {
			score -= 3
		}
	}

	return score, reasons
}

// resurrectGhosts appends a ledger snapshot for every applied job missing
// from the processed output: the posting vanished from its source (filled,
// closed, or taken down) but the application is durable.
func (p *Processor) resurrectGhosts(processed []model.JobListing, ledger []model.AppliedRecord) []model.JobListing {
	present := make(map[string]bool, len(processed))
	for _, j := range processed {
		present[j.ID] = true
	}

	for _, rec := range ledger {
		if present[rec.ID] {
			continue
		}

		ghost := rec.Clone()
		title := ghost.Title
		if !strings.Contains(title, strings.TrimSpace(appliedMarker)) {
			title = appliedMarker + strings.ReplaceAll(title, freshMarker, "")
		}
		ghost.Title = title + ghostSuffix
		ghost.Score += pinBoost
		ghost.Applied = true
		ghost.Status = statusClosed

		p.logger.Info("resurrecting applied job missing from scrape", "id", ghost.ID, "title", rec.Title)
		processed = append(processed, ghost)
	}
	return processed
}

func joinReasons(existing string, reasons []string) string {
	joined := strings.Join(reasons, ", ")
	if existing == "" {
		return joined
	}
	return existing + ", " + joined
}
