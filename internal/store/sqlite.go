package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"jobradar/internal/model"
)

// SeenStore tracks when each job id was first observed across runs, in a
// SQLite database. It backs the "new since last run" notification set and is
// internal bookkeeping only — the dashboard never reads it.
type SeenStore struct {
	db *sql.DB
}

// NewSeenStore opens (or creates) a SQLite database at dbPath and ensures the
// seen_jobs table exists.
func NewSeenStore(dbPath string) (*SeenStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_jobs (
		job_id     TEXT PRIMARY KEY,
		title      TEXT,
		company    TEXT,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_jobs table: %w", err)
	}

	return &SeenStore{db: db}, nil
}

// RecordSeen records a job as observed. Returns true if this is the first
// time the id has been seen.
func (s *SeenStore) RecordSeen(job model.JobListing) (bool, error) {
	res, err := s.db.Exec(
		"INSERT OR IGNORE INTO seen_jobs (job_id, title, company) VALUES (?, ?, ?)",
		job.ID, job.Title, job.Company,
	)
	if err != nil {
		return false, fmt.Errorf("recording job %s as seen: %w", job.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("recording job %s as seen: %w", job.ID, err)
	}
	return n > 0, nil
}

// HasSeen returns true if the given job id has already been recorded.
func (s *SeenStore) HasSeen(jobID string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_jobs WHERE job_id = ?", jobID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", jobID, err)
	}
	return true, nil
}

// Cleanup deletes seen-job entries older than the given duration, so boards
// that recycle ids eventually look new again.
func (s *SeenStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := s.db.Exec("DELETE FROM seen_jobs WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up seen jobs older than %v: %w", olderThan, err)
	}
	return nil
}

// Count returns the number of recorded job ids.
func (s *SeenStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM seen_jobs").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting seen jobs: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SeenStore) Close() error {
	return s.db.Close()
}
