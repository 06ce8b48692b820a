package reportstore

import (
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/wonny/vquant/backend/internal/contracts"
)

const baseKey = "market-base"

// baseSnapshot is the stored full-market fundamentals base used to seed
// universe building. One document, overwritten per refresh.
type baseSnapshot struct {
	Key       string                    `badgerhold:"key"`
	Rows      []contracts.FundamentalsRow `json:"rows"`
	FetchedAt time.Time                 `json:"fetched_at"`
}

// PutBase stores the full-market fundamentals snapshot.
func (s *Store) PutBase(rows []contracts.FundamentalsRow, now time.Time) error {
	doc := baseSnapshot{Key: baseKey, Rows: rows, FetchedAt: now}
	if err := s.db.Upsert(baseKey, &doc); err != nil {
		return fmt.Errorf("reportstore: save base: %w", err)
	}
	return nil
}

// GetBase returns the stored fundamentals base and its fetch time.
func (s *Store) GetBase() ([]contracts.FundamentalsRow, time.Time, error) {
	var doc baseSnapshot
	if err := s.db.Get(baseKey, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, time.Time{}, contracts.ErrDataUnavailable
		}
		return nil, time.Time{}, fmt.Errorf("reportstore: get base: %w", err)
	}
	return doc.Rows, doc.FetchedAt, nil
}

// BaseValid reports whether the stored base postdates the most recent
// fiscal reporting deadline. A stale base forces a full refresh.
func (s *Store) BaseValid(now time.Time) bool {
	_, fetchedAt, err := s.GetBase()
	if err != nil {
		return false
	}
	return !Stale(fetchedAt, now)
}
