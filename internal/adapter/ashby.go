package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"jobradar/internal/filter"
	"jobradar/internal/model"
)

const ashbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"

// ashbyJob represents a single job in the Ashby job-board API response.
// Field naming drifted across API revisions, so several aliases are decoded
// and reconciled.
type ashbyJob struct {
	ID            string `json:"id"`
	JobID         string `json:"jobId"`
	Title         string `json:"title"`
	Location      string `json:"location"`
	LocationName  string `json:"locationName"`
	Address       struct {
		PlaceName string `json:"placeName"`
	} `json:"address"`
	JobURL          string `json:"jobUrl"`
	Description     string `json:"description"`
	DescriptionHTML string `json:"descriptionHtml"`
	PublishedDate   string `json:"publishedDate"`
	PublishedAt     string `json:"publishedAt"`
	IsListed        *bool  `json:"isListed"`
}

// ashbyResponse is the top-level Ashby job board API response.
type ashbyResponse struct {
	Jobs []json.RawMessage `json:"jobs"`
}

// AshbyClient fetches jobs from the Ashby public job board API.
type AshbyClient struct {
	boardSlug   string
	companyName string
	client      *http.Client
	eligibility *filter.Eligibility
	userAgent   string
	logger      *slog.Logger
}

// NewAshbyClient creates a client for one Ashby job board. The board may be
// given as a bare slug or a full ashbyhq.com board URL.
func NewAshbyClient(board, companyName string, client *http.Client, eligibility *filter.Eligibility, userAgent string, logger *slog.Logger) *AshbyClient {
	slug := board
	if strings.Contains(board, "ashbyhq.com") {
		trimmed := strings.TrimRight(board, "/")
		slug = trimmed[strings.LastIndex(trimmed, "/")+1:]
	}
	return &AshbyClient{
		boardSlug:   slug,
		companyName: companyName,
		client:      client,
		eligibility: eligibility,
		userAgent:   userAgent,
		logger:      logger,
	}
}

// FetchJobs retrieves all listed jobs from the board, prunes ineligible
// titles and locations, and returns validated listings sorted score-descending.
func (c *AshbyClient) FetchJobs(ctx context.Context) ([]model.JobListing, error) {
	url := fmt.Sprintf("%s/%s", ashbyBaseURL, c.boardSlug)

	body, err := getJSON(ctx, c.client, url, c.userAgent)
	if err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w", c.boardSlug, err)
	}

	var ashbyResp ashbyResponse
	if err := json.Unmarshal(body, &ashbyResp); err != nil {
		return nil, fmt.Errorf("ashby fetch for %s: %w: %v", c.boardSlug, model.ErrMalformedPayload, err)
	}

	jobs := make([]model.JobListing, 0, len(ashbyResp.Jobs))
	for _, raw := range ashbyResp.Jobs {
		var aj ashbyJob
		if err := json.Unmarshal(raw, &aj); err != nil {
			c.logger.Warn("skipping undecodable ashby job", "board", c.boardSlug, "error", err)
			continue
		}
		if aj.IsListed != nil && !*aj.IsListed {
			continue
		}

		location := aj.Location
		if location == "" {
			location = aj.LocationName
		}
		if location == "" {
			location = aj.Address.PlaceName
		}

		if !c.eligibility.ValidLocation(location) {
			continue
		}
		ok, score, reason := c.eligibility.CheckTitle(aj.Title)
		if !ok {
			continue
		}

		id := aj.ID
		if id == "" {
			id = aj.JobID
		}
		description := aj.Description
		if description == "" {
			description = aj.DescriptionHTML
		}
		datePosted := aj.PublishedDate
		if datePosted == "" {
			datePosted = aj.PublishedAt
		}

		jobs = append(jobs, model.JobListing{
			ID:          fmt.Sprintf("%s_%s_%s", model.SourceAshby, c.boardSlug, id),
			Title:       aj.Title,
			Company:     c.companyName,
			URL:         aj.JobURL,
			Location:    location,
			Description: description,
			DatePosted:  datePosted,
			Source:      model.SourceAshby,
			Score:       score,
			MatchReason: reason,
			RawData:     append(json.RawMessage(nil), raw...),
		})
	}

	jobs = finishListings(jobs, func(j model.JobListing, missing []string) {
		c.logger.Warn("dropping invalid ashby job",
			"board", c.boardSlug, "id", j.ID, "title", j.Title, "missing", missing)
	})

	c.logger.Info("fetched ashby jobs", "company", c.companyName, "count", len(jobs))
	return jobs, nil
}
