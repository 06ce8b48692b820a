// Package fetcher pulls financial statements from the data provider
// with retry discipline and writes them through to the report store.
package fetcher

import (
	"context"
	"math/rand"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// RetryPolicy governs how external calls are retried. Rate-limited
// errors back off and retry; anything else fails fast, since a
// malformed ticker will not fix itself on attempt three.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxJitter   time.Duration
	// PreCall bounds the random stagger before each provider call.
	// Zero disables the stagger.
	PreCall time.Duration
	// Classify decides whether an error is worth retrying.
	Classify func(error) bool
	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) error
	rng   *rand.Rand
}

// DefaultRetryPolicy matches the data providers' observed throttling.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   2 * time.Second,
		MaxJitter:   5 * time.Second,
		PreCall:     time.Second,
		Classify:    contracts.IsTransient,
		sleep:       sleepCtx,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *RetryPolicy) doSleep(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	return sleepCtx(ctx, d)
}

func (p *RetryPolicy) random(n int64) int64 {
	if p.rng != nil {
		return p.rng.Int63n(n)
	}
	return rand.Int63n(n)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Backoff returns the delay before retrying the given zero-based
// attempt: base * 2^attempt plus uniform jitter.
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.BaseDelay * (1 << attempt)
	if p.MaxJitter > 0 {
		d += time.Duration(p.random(int64(p.MaxJitter)))
	}
	return d
}

// Do runs fn with the policy. Transient errors are retried with
// backoff; the rest return immediately.
func (p *RetryPolicy) Do(ctx context.Context, log *logger.Logger, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !p.Classify(err) {
			log.WithField("op", op).WithError(err).Warn("non-retryable error, failing fast")
			return err
		}
		if attempt == p.MaxAttempts-1 {
			break
		}
		delay := p.Backoff(attempt)
		log.WithFields(map[string]interface{}{
			"op":      op,
			"attempt": attempt + 1,
			"delay":   delay.String(),
		}).Warn("rate limited, backing off")
		if serr := p.doSleep(ctx, delay); serr != nil {
			return serr
		}
	}
	return err
}

// PreCallDelay sleeps a uniform duration up to PreCall before a
// provider call. A small random stagger keeps concurrent workers from
// bursting in lockstep.
func (p *RetryPolicy) PreCallDelay(ctx context.Context) error {
	if p.PreCall <= 0 {
		return nil
	}
	return p.doSleep(ctx, time.Duration(p.random(int64(p.PreCall))))
}
