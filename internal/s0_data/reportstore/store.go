// Package reportstore persists fetched financial statements on disk so
// reruns within the same reporting season skip the network entirely.
package reportstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// storedBundle is the on-disk document: one ticker's three statements
// plus the fetch timestamp used for staleness checks.
type storedBundle struct {
	Ticker    string                   `badgerhold:"key"`
	Bundle    contracts.StatementBundle `json:"bundle"`
	FetchedAt time.Time                `json:"fetched_at"`
}

// Store wraps a badgerhold database holding statement bundles keyed by
// ticker.
type Store struct {
	db  *badgerhold.Store
	log *logger.Logger
}

// Open opens (or creates) the statement store under dir.
func Open(dir string, log *logger.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("reportstore: data directory is required")
	}
	path := filepath.Join(dir, "statements")
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("reportstore: create directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("reportstore: open database: %w", err)
	}

	log.WithField("path", path).Debug("statement store opened")
	return &Store{db: db, log: log}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put upserts a ticker's statement bundle, stamping it with now.
func (s *Store) Put(ticker string, bundle contracts.StatementBundle, now time.Time) error {
	if ticker == "" {
		return fmt.Errorf("reportstore: ticker is required")
	}
	doc := storedBundle{Ticker: ticker, Bundle: bundle, FetchedAt: now}
	if err := s.db.Upsert(ticker, &doc); err != nil {
		return fmt.Errorf("reportstore: save %s: %w", ticker, err)
	}
	return nil
}

// Get returns the stored bundle for a ticker together with its fetch
// time. A miss returns contracts.ErrDataUnavailable.
func (s *Store) Get(ticker string) (contracts.StatementBundle, time.Time, error) {
	var doc storedBundle
	if err := s.db.Get(ticker, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return contracts.StatementBundle{}, time.Time{}, contracts.ErrDataUnavailable
		}
		return contracts.StatementBundle{}, time.Time{}, fmt.Errorf("reportstore: get %s: %w", ticker, err)
	}
	return doc.Bundle, doc.FetchedAt, nil
}

// Fresh reports whether a stored bundle fetched at fetchedAt is still
// usable as of now: complete and not predating the latest passed fiscal
// deadline.
func (s *Store) Fresh(bundle contracts.StatementBundle, fetchedAt, now time.Time) bool {
	if !bundle.Complete() {
		return false
	}
	return !Stale(fetchedAt, now)
}

// Delete removes a ticker's bundle. Deleting a missing key is not an
// error.
func (s *Store) Delete(ticker string) error {
	if err := s.db.Delete(ticker, &storedBundle{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("reportstore: delete %s: %w", ticker, err)
	}
	return nil
}

// GetKind returns a single statement kind for a ticker.
func (s *Store) GetKind(ticker string, kind contracts.StatementKind) (*contracts.FinancialStatement, error) {
	bundle, _, err := s.Get(ticker)
	if err != nil {
		return nil, err
	}
	var stmt *contracts.FinancialStatement
	switch kind {
	case contracts.BalanceSheet:
		stmt = bundle.Balance
	case contracts.IncomeStatement:
		stmt = bundle.Income
	case contracts.CashFlow:
		stmt = bundle.Cash
	}
	if stmt == nil || stmt.Empty() {
		return nil, contracts.ErrDataUnavailable
	}
	return stmt, nil
}

// Count returns the number of stored bundles.
func (s *Store) Count() (int, error) {
	n, err := s.db.Count(&storedBundle{}, nil)
	if err != nil {
		return 0, fmt.Errorf("reportstore: count: %w", err)
	}
	return int(n), nil
}
