package notify

import (
	"log/slog"

	"jobradar/internal/model"
)

var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier announces new postings on the structured log. It is the
// default when no webhook is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs one line per new posting.
func (n *LogNotifier) Notify(jobs []model.JobListing) error {
	for _, j := range jobs {
		n.logger.Info("new job posting",
			"company", j.Company,
			"title", j.Title,
			"location", j.Location,
			"score", j.Score,
			"url", j.URL,
		)
	}
	return nil
}
