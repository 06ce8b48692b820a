package s2_scores

import (
	"context"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/internal/orchestrator"
	"github.com/wonny/vquant/backend/internal/s0_data/fetcher"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// PriceSource provides daily bar history for the technical stage.
type PriceSource interface {
	PriceHistory(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PriceBar, error)
}

// TickerScores bundles both accounting scores for one ticker. Both are
// computed from the same statement fetch, so they travel together.
type TickerScores struct {
	FScore contracts.FScore
	MScore contracts.MScore
}

// Builder runs the scoring stages over a target set.
type Builder struct {
	fetcher *fetcher.Fetcher
	prices  PriceSource
	workers int
	logger  *logger.Logger
}

// NewBuilder wires the stage-2 builder.
func NewBuilder(f *fetcher.Fetcher, prices PriceSource, workers int, log *logger.Logger) *Builder {
	return &Builder{fetcher: f, prices: prices, workers: workers, logger: log}
}

// FundamentalScores fetches statements and computes Piotroski and
// Beneish for each ticker. Failures carry the phase "scores".
func (b *Builder) FundamentalScores(ctx context.Context, tickers []string) (map[string]TickerScores, []contracts.Failure) {
	pool := orchestrator.NewPool[TickerScores](b.workers, "scores", b.logger)
	return pool.Run(ctx, tickers, func(ctx context.Context, ticker string) (TickerScores, error) {
		bundle, err := b.fetcher.Bundle(ctx, ticker)
		if err != nil {
			return TickerScores{}, err
		}
		return TickerScores{
			FScore: PiotroskiScore(ticker, bundle),
			MScore: BeneishMScore(ticker, bundle),
		}, nil
	})
}

// technicalLookback covers 200 trading days with margin for holidays.
const technicalLookback = 540 * 24 * time.Hour

// TechnicalSnapshots fetches price history and classifies each ticker.
// Failures carry the phase "technical".
func (b *Builder) TechnicalSnapshots(ctx context.Context, tickers []string) (map[string]contracts.TechnicalSnapshot, []contracts.Failure) {
	to := time.Now()
	from := to.Add(-technicalLookback)

	pool := orchestrator.NewPool[contracts.TechnicalSnapshot](b.workers, "technical", b.logger)
	return pool.Run(ctx, tickers, func(ctx context.Context, ticker string) (contracts.TechnicalSnapshot, error) {
		bars, err := b.prices.PriceHistory(ctx, ticker, from, to)
		if err != nil {
			return contracts.TechnicalSnapshot{}, err
		}
		return Classify(ticker, bars), nil
	})
}
