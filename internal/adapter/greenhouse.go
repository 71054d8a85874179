package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"jobradar/internal/filter"
	"jobradar/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	Content     string             `json:"content"`
	UpdatedAt   string             `json:"updated_at"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response. Jobs are
// kept raw so each listing carries its own untouched source payload.
type greenhouseResponse struct {
	Jobs []json.RawMessage `json:"jobs"`
}

// GreenhouseClient fetches jobs from the Greenhouse public boards API.
type GreenhouseClient struct {
	boardToken  string
	companyName string
	client      *http.Client
	eligibility *filter.Eligibility
	userAgent   string
	logger      *slog.Logger
}

// NewGreenhouseClient creates a client for one Greenhouse board.
func NewGreenhouseClient(boardToken, companyName string, client *http.Client, eligibility *filter.Eligibility, userAgent string, logger *slog.Logger) *GreenhouseClient {
	return &GreenhouseClient{
		boardToken:  boardToken,
		companyName: companyName,
		client:      client,
		eligibility: eligibility,
		userAgent:   userAgent,
		logger:      logger,
	}
}

// FetchJobs retrieves all jobs from the board, prunes ineligible titles and
// locations, and returns validated listings sorted score-descending.
func (c *GreenhouseClient) FetchJobs(ctx context.Context) ([]model.JobListing, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", greenhouseBaseURL, c.boardToken)

	body, err := getJSON(ctx, c.client, url, c.userAgent)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", c.boardToken, err)
	}

	var ghResp greenhouseResponse
	if err := json.Unmarshal(body, &ghResp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w: %v", c.boardToken, model.ErrMalformedPayload, err)
	}

	jobs := make([]model.JobListing, 0, len(ghResp.Jobs))
	for _, raw := range ghResp.Jobs {
		var gj greenhouseJob
		if err := json.Unmarshal(raw, &gj); err != nil {
			c.logger.Warn("skipping undecodable greenhouse job", "board", c.boardToken, "error", err)
			continue
		}

		if !c.eligibility.ValidLocation(gj.Location.Name) {
			continue
		}
		ok, score, reason := c.eligibility.CheckTitle(gj.Title)
		if !ok {
			continue
		}

		jobs = append(jobs, model.JobListing{
			ID:          fmt.Sprintf("%s_%s_%d", model.SourceGreenhouse, c.boardToken, gj.ID),
			Title:       gj.Title,
			Company:     c.companyName,
			URL:         gj.AbsoluteURL,
			Location:    gj.Location.Name,
			Description: gj.Content,
			DatePosted:  gj.UpdatedAt,
			Source:      model.SourceGreenhouse,
			Score:       score,
			MatchReason: reason,
			RawData:     append(json.RawMessage(nil), raw...),
		})
	}

	jobs = finishListings(jobs, func(j model.JobListing, missing []string) {
		c.logger.Warn("dropping invalid greenhouse job",
			"board", c.boardToken, "id", j.ID, "title", j.Title, "missing", missing)
	})

	c.logger.Info("fetched greenhouse jobs", "company", c.companyName, "count", len(jobs))
	return jobs, nil
}
