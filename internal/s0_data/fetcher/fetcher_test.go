package fetcher

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/internal/s0_data/reportstore"
	"github.com/wonny/vquant/backend/pkg/logger"
)

func testPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   time.Millisecond,
		MaxJitter:   0,
		Classify:    contracts.IsTransient,
		sleep:       func(ctx context.Context, d time.Duration) error { return nil },
		rng:         rand.New(rand.NewSource(1)),
	}
}

type fakeSource struct {
	calls int
	fn    func(call int, kind contracts.StatementKind) (*contracts.FinancialStatement, error)
}

func (f *fakeSource) Statement(_ context.Context, _ string, kind contracts.StatementKind) (*contracts.FinancialStatement, error) {
	f.calls++
	return f.fn(f.calls, kind)
}

func validStatement(kind contracts.StatementKind) *contracts.FinancialStatement {
	return &contracts.FinancialStatement{
		Kind: kind,
		Rows: []contracts.YearRow{
			{"total assets": 100},
			{"total assets": 90},
		},
	}
}

func newFetcher(t *testing.T, src StatementSource) *Fetcher {
	t.Helper()
	store, err := reportstore.Open(t.TempDir(), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(src, store, testPolicy(), logger.Discard())
}

func TestRetryPolicyBackoffDoubles(t *testing.T) {
	p := &RetryPolicy{BaseDelay: time.Second, MaxJitter: 0}
	assert.Equal(t, 1*time.Second, p.Backoff(0))
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 4*time.Second, p.Backoff(2))
}

func TestRetryPolicyRetriesTransient(t *testing.T) {
	p := testPolicy()
	calls := 0
	err := p.Do(context.Background(), logger.Discard(), "op", func() error {
		calls++
		if calls < 3 {
			return errors.New("status 429")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicyFailsFastOnPermanentError(t *testing.T) {
	p := testPolicy()
	calls := 0
	err := p.Do(context.Background(), logger.Discard(), "op", func() error {
		calls++
		return errors.New("ticker does not exist")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicyExhaustsAttempts(t *testing.T) {
	p := testPolicy()
	calls := 0
	err := p.Do(context.Background(), logger.Discard(), "op", func() error {
		calls++
		return errors.New("rate limit")
	})
	require.Error(t, err)
	assert.Equal(t, 4, calls)
}

func TestFetchMapsEmptyToDataUnavailable(t *testing.T) {
	src := &fakeSource{fn: func(int, contracts.StatementKind) (*contracts.FinancialStatement, error) {
		return &contracts.FinancialStatement{}, nil
	}}
	f := newFetcher(t, src)

	_, err := f.Fetch(context.Background(), "FPT", contracts.BalanceSheet)
	assert.ErrorIs(t, err, contracts.ErrDataUnavailable)
}

func TestBundleFetchesAllKindsAndCaches(t *testing.T) {
	src := &fakeSource{fn: func(_ int, kind contracts.StatementKind) (*contracts.FinancialStatement, error) {
		return validStatement(kind), nil
	}}
	f := newFetcher(t, src)

	bundle, err := f.Bundle(context.Background(), "FPT")
	require.NoError(t, err)
	assert.True(t, bundle.Complete())
	assert.Equal(t, 3, src.calls)

	// Second call hits the store, not the provider.
	_, err = f.Bundle(context.Background(), "FPT")
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls)
}

func TestBundlePropagatesProviderFailure(t *testing.T) {
	src := &fakeSource{fn: func(_ int, kind contracts.StatementKind) (*contracts.FinancialStatement, error) {
		if kind == contracts.CashFlow {
			return nil, errors.New("not found")
		}
		return validStatement(kind), nil
	}}
	f := newFetcher(t, src)

	_, err := f.Bundle(context.Background(), "VNM")
	require.Error(t, err)

	// Nothing partial was stored.
	_, _, err = f.store.Get("VNM")
	assert.ErrorIs(t, err, contracts.ErrDataUnavailable)
}
