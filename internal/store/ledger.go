package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"jobradar/internal/model"
)

// ErrAlreadyApplied is returned when appending a job whose id is already in
// the ledger.
var ErrAlreadyApplied = errors.New("job already marked as applied")

// LedgerStore reads and appends the applied-jobs ledger: a flat JSON array of
// applied job snapshots.
type LedgerStore struct {
	path   string
	logger *slog.Logger
}

// NewLedgerStore creates a store over the ledger file at path.
func NewLedgerStore(path string, logger *slog.Logger) *LedgerStore {
	return &LedgerStore{path: path, logger: logger}
}

// Load reads the ledger. A missing file is an empty ledger, not an error.
func (s *LedgerStore) Load() ([]model.AppliedRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.AppliedRecord{}, nil
		}
		return nil, fmt.Errorf("load applied ledger: %w", err)
	}

	var records []model.AppliedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("load applied ledger: %w", err)
	}
	if records == nil {
		records = []model.AppliedRecord{}
	}
	return records, nil
}

// Append adds one applied snapshot to the ledger, rewriting the file
// atomically. Duplicate ids are rejected with ErrAlreadyApplied.
func (s *LedgerStore) Append(rec model.AppliedRecord) error {
	records, err := s.Load()
	if err != nil {
		return err
	}

	for _, existing := range records {
		if existing.ID == rec.ID {
			return fmt.Errorf("%w: %s", ErrAlreadyApplied, rec.ID)
		}
	}

	records = append(records, rec)
	if err := writeAtomic(s.path, records); err != nil {
		return fmt.Errorf("append applied ledger: %w", err)
	}

	s.logger.Info("marked job as applied", "id", rec.ID, "title", rec.Title, "company", rec.Company)
	return nil
}
