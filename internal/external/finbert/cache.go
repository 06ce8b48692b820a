package finbert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/pkg/logger"
	"github.com/wonny/vquant/backend/pkg/redis"
)

// Headlines are immutable, so verdicts can live for a while.
const classifierCacheTTL = 7 * 24 * time.Hour

type cachedVerdict struct {
	Label      contracts.SentimentLabel `json:"label"`
	Confidence float64                  `json:"confidence"`
}

// CachedClassifier decorates the classifier with a Redis cache keyed by
// text hash. Sticky forum threads resurface the same titles every day;
// without the cache each run pays for the same inference again.
type CachedClassifier struct {
	client *Client
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCachedClassifier wraps a classifier client with the verdict cache.
func NewCachedClassifier(client *Client, cache *redis.Cache, log *logger.Logger) *CachedClassifier {
	return &CachedClassifier{client: client, cache: cache, logger: log}
}

// Classify returns the cached verdict for a text, calling the service
// on miss. Cache failures fall through to the live call.
func (c *CachedClassifier) Classify(ctx context.Context, text string) (contracts.SentimentLabel, float64, error) {
	sum := sha256.Sum256([]byte(text))
	key := redis.ClassifierKey(hex.EncodeToString(sum[:16]))

	var cached cachedVerdict
	found, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WithError(err).Debug("classifier cache read failed")
	} else if found {
		return cached.Label, cached.Confidence, nil
	}

	label, confidence, err := c.client.Classify(ctx, text)
	if err != nil {
		return label, confidence, err
	}

	if err := c.cache.Set(ctx, key, cachedVerdict{Label: label, Confidence: confidence}, classifierCacheTTL); err != nil {
		c.logger.WithError(err).Debug("classifier cache write failed")
	}
	return label, confidence, nil
}
