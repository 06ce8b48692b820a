package brain

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/internal/external/cafef"
	"github.com/wonny/vquant/backend/internal/external/f319"
	"github.com/wonny/vquant/backend/internal/external/hsx"
	"github.com/wonny/vquant/backend/internal/s0_data/fetcher"
	"github.com/wonny/vquant/backend/internal/s0_data/reportstore"
	"github.com/wonny/vquant/backend/internal/s1_universe"
	"github.com/wonny/vquant/backend/internal/s2_scores"
	"github.com/wonny/vquant/backend/internal/s3_sentiment"
	"github.com/wonny/vquant/backend/pkg/logger"
)

type fakeMarket struct {
	mu    sync.Mutex
	calls int
	rows  []contracts.FundamentalsRow
}

func (m *fakeMarket) Screener(_ context.Context, _ []string) ([]contracts.FundamentalsRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.rows, nil
}

// fakeStatements serves a healthy two-year bundle for every ticker
// except the ones listed in fail.
type fakeStatements struct {
	mu   sync.Mutex
	fail map[string]bool
}

func (s *fakeStatements) Statement(_ context.Context, ticker string, kind contracts.StatementKind) (*contracts.FinancialStatement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[ticker] {
		return nil, errors.New("statement not published")
	}

	var rows []contracts.YearRow
	switch kind {
	case contracts.BalanceSheet:
		rows = []contracts.YearRow{
			{
				"total assets":              1000,
				"long-term liabilities":     100,
				"current assets":            500,
				"current liabilities":       200,
				"share capital":             100,
				"receivables":               50,
				"fixed assets":              300,
				"cash and cash equivalents": 100,
			},
			{
				"total assets":              800,
				"long-term liabilities":     200,
				"current assets":            300,
				"current liabilities":       200,
				"share capital":             100,
				"receivables":               100,
				"fixed assets":              300,
				"cash and cash equivalents": 80,
			},
		}
	case contracts.IncomeStatement:
		rows = []contracts.YearRow{
			{"net profit": 150, "revenue": 1000, "cost of goods sold": -600, "selling expenses": -50},
			{"net profit": 80, "revenue": 700, "cost of goods sold": -460, "selling expenses": -40},
		}
	case contracts.CashFlow:
		rows = []contracts.YearRow{
			{"net cash flows from operating activities": 200},
			{"net cash flows from operating activities": 100},
		}
	}
	return &contracts.FinancialStatement{Ticker: ticker, Kind: kind, Rows: rows}, nil
}

// fakePrices serves 250 monotonically rising closes: RSI 100, price
// above both moving averages.
type fakePrices struct{}

func (fakePrices) PriceHistory(_ context.Context, _ string, _, to time.Time) ([]contracts.PriceBar, error) {
	bars := make([]contracts.PriceBar, 250)
	for i := range bars {
		bars[i] = contracts.PriceBar{
			Date:  to.AddDate(0, 0, i-250),
			Close: 100 + 0.5*float64(i),
		}
	}
	return bars, nil
}

type fakeNews struct{}

func (fakeNews) News(_ context.Context, targets map[string]bool, _ int) ([]hsx.Article, error) {
	var out []hsx.Article
	for t := range targets {
		out = append(out, hsx.Article{Ticker: t, Title: t + ": record quarterly profit"})
	}
	return out, nil
}

type fakeRelated struct{}

func (fakeRelated) RelatedNews(_ context.Context, _ string) ([]cafef.Article, error) {
	return nil, nil
}

type fakeForum struct{}

func (fakeForum) Threads(_ context.Context, _ []string) ([]f319.Thread, error) {
	return nil, nil
}

type positiveClassifier struct{}

func (positiveClassifier) Classify(_ context.Context, _ string) (contracts.SentimentLabel, float64, error) {
	return contracts.LabelPositive, 0.8, nil
}

func testOrchestrator(t *testing.T, market *fakeMarket) *Orchestrator {
	t.Helper()
	log := logger.Discard()

	store, err := reportstore.Open(t.TempDir(), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	policy := &fetcher.RetryPolicy{
		MaxAttempts: 1,
		Classify:    contracts.IsTransient,
	}
	f := fetcher.New(&fakeStatements{fail: map[string]bool{"DDD": true}}, store, policy, log)
	scoreBuilder := s2_scores.NewBuilder(f, fakePrices{}, 2, log)
	gatherer := s3_sentiment.NewGatherer(fakeNews{}, fakeRelated{}, fakeForum{}, positiveClassifier{}, 30, log)

	return NewOrchestrator(
		store, market,
		s1_universe.NewBuilder(log), scoreBuilder, gatherer,
		nil, nil, nil, nil,
		s1_universe.DefaultScreenConfig(), log,
	)
}

func marketRows() []contracts.FundamentalsRow {
	return []contracts.FundamentalsRow{
		{Ticker: "AAA", Exchange: "HOSE", Industry: "Banks", PE: 8, PB: 1.0, ROE: 15, MarketCap: 100},
		{Ticker: "BBB", Exchange: "HOSE", Industry: "Banks", PE: 10, PB: 1.5, ROE: 16, MarketCap: 200},
		{Ticker: "CCC", Exchange: "HOSE", Industry: "Banks", PE: 12, PB: 2.0, ROE: 17, MarketCap: 300},
		{Ticker: "DDD", Exchange: "HOSE", Industry: "Tech", PE: 30, PB: 2.0, ROE: 10, MarketCap: 400},
	}
}

func TestRunFullPipeline(t *testing.T) {
	market := &fakeMarket{rows: marketRows()}
	o := testOrchestrator(t, market)

	var stages []string
	result, err := o.Run(context.Background(), RunConfig{
		Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Progress: func(stage, _ string) {
			stages = append(stages, stage)
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, []string{
		"S0:Base", "S1:Universe", "S2:Scores", "S3:Sentiment", "S2:Technicals", "S4:Fusion",
	}, result.CompletedStages)
	assert.Contains(t, stages, "S0:Base")
	assert.Contains(t, stages, "S4:Fusion")

	// All four rows survive cleaning; the failing ticker is still a
	// scoring candidate.
	require.NotNil(t, result.Universe)
	assert.Len(t, result.Universe.Rows, 4)

	// DDD has no score so the conviction screen drops it; the banks
	// sector passes every gate and sorts by conviction.
	require.Len(t, result.Targets, 3)
	assert.Equal(t, "AAA", result.Targets[0].Ticker)
	assert.Equal(t, "BBB", result.Targets[1].Ticker)
	assert.Equal(t, "CCC", result.Targets[2].Ticker)

	// Uptrend + high alpha on every target. Cheaper relative to the
	// sector ranks first within the action bucket.
	require.Len(t, result.Report, 3)
	for _, row := range result.Report {
		assert.Equal(t, contracts.ActionBuy, row.FinalAction, row.Ticker)
	}
	assert.Equal(t, "AAA", result.Report[0].Ticker)
	assert.Equal(t, "BBB", result.Report[1].Ticker)
	assert.Equal(t, "CCC", result.Report[2].Ticker)
	assert.InDelta(t, 70.0, result.Report[0].AlphaScore, 1e-9)
	assert.InDelta(t, 64.0, result.Report[1].AlphaScore, 1e-9)
	assert.InDelta(t, 58.0, result.Report[2].AlphaScore, 1e-9)

	assert.Equal(t, 4, result.Integrity.Total)
	assert.Equal(t, 3, result.Integrity.Succeeded)
	assert.Equal(t, 1, result.Integrity.Failed)
	require.Len(t, result.Integrity.Failures, 1)
	assert.Equal(t, "DDD", result.Integrity.Failures[0].Ticker)
}

func TestRunReusesStoredBase(t *testing.T) {
	market := &fakeMarket{rows: marketRows()}
	o := testOrchestrator(t, market)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := o.Run(context.Background(), RunConfig{Date: date})
	require.NoError(t, err)
	assert.Equal(t, 1, market.calls)

	// A second run inside the same reporting window serves the base
	// from the store.
	_, err = o.Run(context.Background(), RunConfig{Date: date.AddDate(0, 0, 3)})
	require.NoError(t, err)
	assert.Equal(t, 1, market.calls)
}

func TestRunEmptyMarket(t *testing.T) {
	market := &fakeMarket{}
	o := testOrchestrator(t, market)

	result, err := o.Run(context.Background(), RunConfig{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Targets)
	assert.Empty(t, result.Report)
	assert.Zero(t, result.Integrity.Total)
}
