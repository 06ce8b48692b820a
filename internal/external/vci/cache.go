package vci

import (
	"context"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/pkg/logger"
	"github.com/wonny/vquant/backend/pkg/redis"
)

// CachedQuotes decorates PriceHistory with a same-day Redis cache, so
// repeated runs within one session do not refetch identical series.
type CachedQuotes struct {
	client *Client
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCachedQuotes wraps a VCI client with the quote cache.
func NewCachedQuotes(client *Client, cache *redis.Cache, log *logger.Logger) *CachedQuotes {
	return &CachedQuotes{client: client, cache: cache, logger: log}
}

// PriceHistory serves bars from cache when the same ticker was already
// fetched today. Cache failures fall through to the live fetch.
func (q *CachedQuotes) PriceHistory(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PriceBar, error) {
	key := redis.PriceHistoryKey(ticker, to.Format("2006-01-02"))

	var cached []contracts.PriceBar
	found, err := q.cache.Get(ctx, key, &cached)
	if err != nil {
		q.logger.WithError(err).Debug("quote cache read failed")
	} else if found {
		return cached, nil
	}

	bars, err := q.client.PriceHistory(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}

	if err := q.cache.Set(ctx, key, bars, redis.TTLDaily); err != nil {
		q.logger.WithError(err).Debug("quote cache write failed")
	}
	return bars, nil
}
