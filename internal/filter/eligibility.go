package filter

import (
	"fmt"
	"strings"

	"jobradar/internal/config"
)

// techIndicators is the fixed safeguard list: a title must contain at least
// one of these to count as a tech role at all.
var techIndicators = []string{
	"engineer", "developer", "data", "scientist", "analyst",
	"intern", "researcher", "technical", "software", "machine learning",
}

// Eligibility is the coarse per-source prune applied at ingestion time. It
// only sees the title and location; the processor applies a second, stricter
// pass that also sees the description and the applied-ledger override, so the
// two are deliberately separate.
type Eligibility struct {
	locationExclude []string
	locationInclude []string
	titleExclude    []string
	highPriority    []string
	preferredSkills []string
}

// NewEligibility builds the filter from explicit config; no global state.
func NewEligibility(locations config.LocationConfig, keywords config.KeywordConfig) *Eligibility {
	return &Eligibility{
		locationExclude: lowerAll(locations.Exclude),
		locationInclude: lowerAll(locations.Include),
		titleExclude:    keywords.Exclude,
		highPriority:    keywords.HighPriority,
		preferredSkills: keywords.PreferredSkills,
	}
}

// ValidLocation reports whether a location string is acceptable.
// Order matters: exclude beats include beats the generic remote check, so an
// explicit "Remote - UK" exclusion wins over the "remote" pass-through.
// Empty and unmatched locations are kept (permissive default).
func (e *Eligibility) ValidLocation(location string) bool {
	if location == "" {
		return true
	}
	loc := strings.ToLower(location)

	for _, term := range e.locationExclude {
		if strings.Contains(loc, term) {
			return false
		}
	}
	for _, term := range e.locationInclude {
		if strings.Contains(loc, term) {
			return true
		}
	}
	if strings.Contains(loc, "remote") {
		return true
	}
	return true
}

// CheckTitle analyzes a job title. It returns whether the title is eligible,
// a base relevance score, and a human-readable reason listing every matched
// token for auditability.
func (e *Eligibility) CheckTitle(title string) (bool, int, string) {
	if title == "" {
		return false, 0, "No Title"
	}
	titleLower := strings.ToLower(title)

	for _, bad := range e.titleExclude {
		if strings.Contains(titleLower, strings.ToLower(bad)) {
			return false, 0, fmt.Sprintf("Banned: %s", bad)
		}
	}

	tech := false
	for _, t := range techIndicators {
		if strings.Contains(titleLower, t) {
			tech = true
			break
		}
	}
	if !tech {
		return false, 0, "Not a tech role"
	}

	score := 0
	var reasons []string
	for _, word := range e.highPriority {
		if strings.Contains(titleLower, strings.ToLower(word)) {
			score += 10
			reasons = append(reasons, "Priority: "+word)
		}
	}
	for _, skill := range e.preferredSkills {
		if strings.Contains(titleLower, strings.ToLower(skill)) {
			score += 5
			reasons = append(reasons, "Skill: "+skill)
		}
	}

	return true, score, strings.Join(reasons, ", ")
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
