// Package orchestrator provides the bounded worker pool used by the
// per-ticker pipeline stages. Workers fan out over a ticker channel and
// fan results back in; a failed ticker is recorded, never fatal.
package orchestrator

import (
	"context"
	"sync"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// Task processes one ticker and returns its result.
type Task[T any] func(ctx context.Context, ticker string) (T, error)

// Result pairs a ticker with its task output or error.
type Result[T any] struct {
	Ticker string
	Value  T
	Err    error
}

// MinWorkers and MaxWorkers bound the pool size. External data sources
// rate-limit aggressively, so more parallelism buys nothing.
const (
	MinWorkers = 2
	MaxWorkers = 4
)

// ClampWorkers bounds a configured worker count to the allowed range.
func ClampWorkers(n int) int {
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// Pool runs a Task over a set of tickers with bounded concurrency.
type Pool[T any] struct {
	workers int
	log     *logger.Logger
	phase   string
}

// NewPool creates a pool. The phase name tags failure records so the
// integrity report can say where a ticker dropped out.
func NewPool[T any](workers int, phase string, log *logger.Logger) *Pool[T] {
	return &Pool[T]{workers: ClampWorkers(workers), log: log, phase: phase}
}

// Run fans tickers out to workers and collects results. Input order is
// not preserved. Per-ticker errors become contracts.Failure records;
// only context cancellation stops the run early.
func (p *Pool[T]) Run(ctx context.Context, tickers []string, task Task[T]) (map[string]T, []contracts.Failure) {
	tickerCh := make(chan string, len(tickers))
	resultCh := make(chan Result[T], len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id, tickerCh, resultCh, task)
		}(i)
	}

	for _, t := range tickers {
		tickerCh <- t
	}
	close(tickerCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make(map[string]T, len(tickers))
	var failures []contracts.Failure
	for r := range resultCh {
		if r.Err != nil {
			p.log.WithFields(map[string]interface{}{
				"ticker": r.Ticker,
				"phase":  p.phase,
			}).WithError(r.Err).Warn("ticker failed")
			failures = append(failures, contracts.Failure{
				Ticker: r.Ticker,
				Phase:  p.phase,
				Cause:  r.Err.Error(),
			})
			continue
		}
		results[r.Ticker] = r.Value
	}
	return results, failures
}

func (p *Pool[T]) worker(ctx context.Context, id int, tickerCh <-chan string, resultCh chan<- Result[T], task Task[T]) {
	for ticker := range tickerCh {
		select {
		case <-ctx.Done():
			resultCh <- Result[T]{Ticker: ticker, Err: ctx.Err()}
			continue
		default:
		}

		value, err := task(ctx, ticker)
		resultCh <- Result[T]{Ticker: ticker, Value: value, Err: err}
	}
}
