package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"jobradar/internal/filter"
	"jobradar/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverLocation tolerates the three shapes Lever serves for
// categories.location: a flat string, a tagged object, or a list mixing both.
type leverLocation struct {
	display string
}

func (l *leverLocation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.display = s
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Name != "" {
		l.display = obj.Name
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		var parts []string
		for _, item := range items {
			var part string
			if err := json.Unmarshal(item, &part); err != nil {
				var entry struct {
					Name string `json:"name"`
				}
				if err := json.Unmarshal(item, &entry); err != nil {
					continue
				}
				part = entry.Name
			}
			if part != "" {
				parts = append(parts, part)
			}
		}
		l.display = strings.Join(parts, ", ")
		return nil
	}

	// Unknown shape: leave empty rather than failing the whole posting.
	l.display = ""
	return nil
}

// leverCategories represents the categories object in a Lever posting.
type leverCategories struct {
	Team       string        `json:"team"`
	Department string        `json:"department"`
	Location   leverLocation `json:"location"`
	Commitment string        `json:"commitment"`
}

// leverJob represents a single posting in the Lever API response.
type leverJob struct {
	ID          string          `json:"id"`
	Text        string          `json:"text"`
	Description string          `json:"description"`
	Categories  leverCategories `json:"categories"`
	CreatedAt   int64           `json:"createdAt"` // unix milliseconds
	HostedURL   string          `json:"hostedUrl"`
}

// LeverClient fetches jobs from the Lever public postings API.
type LeverClient struct {
	boardToken  string
	companyName string
	client      *http.Client
	eligibility *filter.Eligibility
	userAgent   string
	logger      *slog.Logger
}

// NewLeverClient creates a client for one Lever board.
func NewLeverClient(boardToken, companyName string, client *http.Client, eligibility *filter.Eligibility, userAgent string, logger *slog.Logger) *LeverClient {
	return &LeverClient{
		boardToken:  boardToken,
		companyName: companyName,
		client:      client,
		eligibility: eligibility,
		userAgent:   userAgent,
		logger:      logger,
	}
}

// FetchJobs retrieves all postings from the board, prunes ineligible titles
// and locations, and returns validated listings sorted score-descending.
func (c *LeverClient) FetchJobs(ctx context.Context) ([]model.JobListing, error) {
	url := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, c.boardToken)

	body, err := getJSON(ctx, c.client, url, c.userAgent)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", c.boardToken, err)
	}

	var rawJobs []json.RawMessage
	if err := json.Unmarshal(body, &rawJobs); err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w: %v", c.boardToken, model.ErrMalformedPayload, err)
	}

	jobs := make([]model.JobListing, 0, len(rawJobs))
	for _, raw := range rawJobs {
		var lj leverJob
		if err := json.Unmarshal(raw, &lj); err != nil {
			c.logger.Warn("skipping undecodable lever posting", "board", c.boardToken, "error", err)
			continue
		}

		location := lj.Categories.Location.display
		if !c.eligibility.ValidLocation(location) {
			continue
		}
		ok, score, reason := c.eligibility.CheckTitle(lj.Text)
		if !ok {
			continue
		}

		var datePosted string
		if lj.CreatedAt > 0 {
			datePosted = time.UnixMilli(lj.CreatedAt).UTC().Format(time.RFC3339)
		}

		jobs = append(jobs, model.JobListing{
			ID:          fmt.Sprintf("%s_%s_%s", model.SourceLever, c.boardToken, lj.ID),
			Title:       lj.Text,
			Company:     c.companyName,
			URL:         lj.HostedURL,
			Location:    location,
			Description: lj.Description,
			DatePosted:  datePosted,
			Source:      model.SourceLever,
			Score:       score,
			MatchReason: reason,
			RawData:     append(json.RawMessage(nil), raw...),
		})
	}

	jobs = finishListings(jobs, func(j model.JobListing, missing []string) {
		c.logger.Warn("dropping invalid lever posting",
			"board", c.boardToken, "id", j.ID, "title", j.Title, "missing", missing)
	})

	c.logger.Info("fetched lever jobs", "company", c.companyName, "count", len(jobs))
	return jobs, nil
}
