package notify

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"jobradar/internal/model"
)

func TestLogNotifier_LogsEachJob(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	n := NewLogNotifier(logger)
	j1, j2 := sampleJob(), sampleJob()
	j2.ID = "greenhouse_acme_2"
	j2.Title = "Data Engineer"

	if err := n.Notify([]model.JobListing{j1, j2}); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Software Engineer") || !strings.Contains(out, "Data Engineer") {
		t.Errorf("log output missing job titles: %s", out)
	}
	if strings.Count(out, "new job posting") != 2 {
		t.Errorf("expected one line per job, got: %s", out)
	}
}

func TestLogNotifier_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := n.Notify(nil); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %s", buf.String())
	}
}
