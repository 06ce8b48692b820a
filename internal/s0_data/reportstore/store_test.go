package reportstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func twoYearStatement(kind contracts.StatementKind) *contracts.FinancialStatement {
	return &contracts.FinancialStatement{
		Kind: kind,
		Rows: []contracts.YearRow{
			{"total assets": 1000},
			{"total assets": 900},
		},
	}
}

func completeBundle() contracts.StatementBundle {
	return contracts.StatementBundle{
		Balance: twoYearStatement(contracts.BalanceSheet),
		Income:  twoYearStatement(contracts.IncomeStatement),
		Cash:    twoYearStatement(contracts.CashFlow),
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Put("FPT", completeBundle(), now))

	bundle, fetchedAt, err := s.Get("FPT")
	require.NoError(t, err)
	assert.True(t, fetchedAt.Equal(now))
	assert.True(t, bundle.Complete())
	assert.InDelta(t, 1000.0, bundle.Balance.Rows[0]["total assets"], 1e-9)
}

func TestGetMissReturnsDataUnavailable(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.Get("XXX")
	assert.ErrorIs(t, err, contracts.ErrDataUnavailable)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	require.NoError(t, s.Put("VNM", completeBundle(), now))
	require.NoError(t, s.Delete("VNM"))
	require.NoError(t, s.Delete("VNM"))

	_, _, err := s.Get("VNM")
	assert.ErrorIs(t, err, contracts.ErrDataUnavailable)
}

func TestCount(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	require.NoError(t, s.Put("FPT", completeBundle(), now))
	require.NoError(t, s.Put("VNM", completeBundle(), now))
	require.NoError(t, s.Put("FPT", completeBundle(), now)) // upsert, not insert

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStale(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name      string
		fetchedAt time.Time
		now       time.Time
		want      bool
	}{
		{
			"fetched after latest deadline",
			time.Date(2026, 5, 2, 0, 0, 0, 0, loc),
			time.Date(2026, 6, 15, 0, 0, 0, 0, loc),
			false,
		},
		{
			"fetched before latest deadline",
			time.Date(2026, 4, 20, 0, 0, 0, 0, loc),
			time.Date(2026, 6, 15, 0, 0, 0, 0, loc),
			true,
		},
		{
			"deadline day itself counts as passed",
			time.Date(2026, 4, 29, 0, 0, 0, 0, loc),
			time.Date(2026, 4, 30, 0, 0, 0, 0, loc),
			true,
		},
		{
			"fetched on the deadline is fresh",
			time.Date(2026, 4, 30, 0, 0, 0, 0, loc),
			time.Date(2026, 5, 1, 0, 0, 0, 0, loc),
			false,
		},
		{
			"prior-year deadline still applies in january",
			time.Date(2025, 9, 1, 0, 0, 0, 0, loc),
			time.Date(2026, 1, 10, 0, 0, 0, 0, loc),
			true,
		},
		{
			"zero fetch time is always stale",
			time.Time{},
			time.Date(2026, 6, 15, 0, 0, 0, 0, loc),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stale(tt.fetchedAt, tt.now))
		})
	}
}

func TestFreshRequiresCompleteBundle(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, s.Fresh(completeBundle(), recent, now))

	partial := completeBundle()
	partial.Cash = nil
	assert.False(t, s.Fresh(partial, recent, now))
}

func TestBaseSnapshotLifecycle(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	assert.False(t, s.BaseValid(now))

	rows := []contracts.FundamentalsRow{
		{Ticker: "FPT", Industry: "Technology", PE: 18, PB: 3.2, ROE: 22, MarketCap: 1e12},
	}
	require.NoError(t, s.PutBase(rows, now))

	got, fetchedAt, err := s.GetBase()
	require.NoError(t, err)
	assert.True(t, fetchedAt.Equal(now))
	require.Len(t, got, 1)
	assert.Equal(t, "FPT", got[0].Ticker)

	// Fresh until the next deadline passes.
	assert.True(t, s.BaseValid(time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.BaseValid(time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)))
}

func TestGetKind(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put("FPT", completeBundle(), time.Now()))

	stmt, err := s.GetKind("FPT", contracts.IncomeStatement)
	require.NoError(t, err)
	assert.Equal(t, contracts.IncomeStatement, stmt.Kind)

	partial := completeBundle()
	partial.Cash = nil
	require.NoError(t, s.Put("VNM", partial, time.Now()))
	_, err = s.GetKind("VNM", contracts.CashFlow)
	assert.ErrorIs(t, err, contracts.ErrDataUnavailable)
}
