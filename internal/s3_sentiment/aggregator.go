// Package s3_sentiment turns raw news headlines and forum chatter into
// one blended sentiment value per ticker.
package s3_sentiment

import "github.com/wonny/vquant/backend/internal/contracts"

// Blend weights: professional coverage dominates retail chatter.
const (
	newsWeight  = 0.7
	forumWeight = 0.3
)

// Aggregate reduces classified items to per-source records and the
// blended per-ticker value. Fallback rule: both sources present →
// weighted blend; one present → that source's mean; neither → 0,
// defined neutral.
func Aggregate(items []contracts.SentimentItem) map[string]contracts.CombinedSentiment {
	type acc struct {
		sum   float64
		count int
	}
	news := make(map[string]*acc)
	forum := make(map[string]*acc)

	for _, item := range items {
		var m map[string]*acc
		switch item.Source {
		case contracts.SourceNews:
			m = news
		case contracts.SourceForum:
			m = forum
		default:
			continue
		}
		a, ok := m[item.Ticker]
		if !ok {
			a = &acc{}
			m[item.Ticker] = a
		}
		a.sum += item.Polarity
		a.count++
	}

	tickers := make(map[string]bool)
	for t := range news {
		tickers[t] = true
	}
	for t := range forum {
		tickers[t] = true
	}

	combined := make(map[string]contracts.CombinedSentiment, len(tickers))
	for t := range tickers {
		c := contracts.CombinedSentiment{Ticker: t}
		if a, ok := news[t]; ok && a.count > 0 {
			c.NewsMean = a.sum / float64(a.count)
			c.NewsCount = a.count
		}
		if a, ok := forum[t]; ok && a.count > 0 {
			c.ForumMean = a.sum / float64(a.count)
			c.ForumCount = a.count
		}
		c.Final = blend(c)
		combined[t] = c
	}
	return combined
}

func blend(c contracts.CombinedSentiment) float64 {
	switch {
	case c.NewsCount > 0 && c.ForumCount > 0:
		return newsWeight*c.NewsMean + forumWeight*c.ForumMean
	case c.NewsCount > 0:
		return c.NewsMean
	case c.ForumCount > 0:
		return c.ForumMean
	default:
		return 0
	}
}

// Records flattens the combined view back into per-source records, for
// persistence and inspection.
func Records(combined map[string]contracts.CombinedSentiment) []contracts.SentimentRecord {
	var records []contracts.SentimentRecord
	for t, c := range combined {
		if c.NewsCount > 0 {
			records = append(records, contracts.SentimentRecord{
				Ticker: t, Source: contracts.SourceNews, Mean: c.NewsMean, Count: c.NewsCount,
			})
		}
		if c.ForumCount > 0 {
			records = append(records, contracts.SentimentRecord{
				Ticker: t, Source: contracts.SourceForum, Mean: c.ForumMean, Count: c.ForumCount,
			})
		}
	}
	return records
}
