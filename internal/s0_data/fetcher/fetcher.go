package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/internal/s0_data/reportstore"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// StatementSource is the upstream provider of raw statements.
type StatementSource interface {
	Statement(ctx context.Context, ticker string, kind contracts.StatementKind) (*contracts.FinancialStatement, error)
}

// Fetcher resolves a ticker's statement bundle: report store first,
// provider on miss or staleness, write-through on success.
type Fetcher struct {
	source StatementSource
	store  *reportstore.Store
	policy *RetryPolicy
	log    *logger.Logger
	now    func() time.Time
}

// New wires a fetcher. A nil policy gets the default.
func New(source StatementSource, store *reportstore.Store, policy *RetryPolicy, log *logger.Logger) *Fetcher {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	return &Fetcher{
		source: source,
		store:  store,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// Fetch pulls one statement kind from the provider under the retry
// policy. An empty result maps to ErrDataUnavailable: absence of data
// and provider failure look the same to scoring.
func (f *Fetcher) Fetch(ctx context.Context, ticker string, kind contracts.StatementKind) (*contracts.FinancialStatement, error) {
	var stmt *contracts.FinancialStatement
	op := fmt.Sprintf("fetch %s %s", ticker, kind)

	err := f.policy.Do(ctx, f.log, op, func() error {
		var err error
		stmt, err = f.source.Statement(ctx, ticker, kind)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if stmt == nil || stmt.Empty() {
		return nil, fmt.Errorf("%s: %w", op, contracts.ErrDataUnavailable)
	}
	return stmt, nil
}

// Bundle returns the three statements for a ticker. Fresh stored data
// short-circuits the network; otherwise all three kinds are fetched and
// written back to the store.
func (f *Fetcher) Bundle(ctx context.Context, ticker string) (contracts.StatementBundle, error) {
	now := f.now()

	if stored, fetchedAt, err := f.store.Get(ticker); err == nil {
		if f.store.Fresh(stored, fetchedAt, now) {
			f.log.WithField("ticker", ticker).Debug("statement cache hit")
			return stored, nil
		}
		f.log.WithField("ticker", ticker).Debug("stored statements stale, refetching")
	}

	if err := f.policy.PreCallDelay(ctx); err != nil {
		return contracts.StatementBundle{}, err
	}

	var bundle contracts.StatementBundle
	for _, kind := range contracts.AllStatementKinds {
		stmt, err := f.Fetch(ctx, ticker, kind)
		if err != nil {
			return contracts.StatementBundle{}, err
		}
		switch kind {
		case contracts.BalanceSheet:
			bundle.Balance = stmt
		case contracts.IncomeStatement:
			bundle.Income = stmt
		case contracts.CashFlow:
			bundle.Cash = stmt
		}
	}

	if !bundle.Complete() {
		return contracts.StatementBundle{}, fmt.Errorf("fetch %s: %w", ticker, contracts.ErrDataUnavailable)
	}
	if err := f.store.Put(ticker, bundle, now); err != nil {
		// A store failure is not worth losing the fetched data over.
		f.log.WithField("ticker", ticker).WithError(err).Warn("statement store write failed")
	}
	return bundle, nil
}
