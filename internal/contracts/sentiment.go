package contracts

import "time"

// SourceType distinguishes professional news coverage from retail forum
// chatter. The two are blended with different weights.
type SourceType string

const (
	SourceNews  SourceType = "news"
	SourceForum SourceType = "forum"
)

// SentimentLabel is the classifier's categorical output.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "positive"
	LabelNeutral  SentimentLabel = "neutral"
	LabelNegative SentimentLabel = "negative"
)

// Polarity converts a classifier (label, confidence) pair into a signed
// score in [-1, 1].
func Polarity(label SentimentLabel, confidence float64) float64 {
	switch label {
	case LabelPositive:
		return confidence
	case LabelNegative:
		return -confidence
	default:
		return 0
	}
}

// SentimentItem is one classified headline or thread title.
type SentimentItem struct {
	Ticker   string     `json:"ticker"`
	Title    string     `json:"title"`
	Source   SourceType `json:"source"`
	Polarity float64    `json:"polarity"`
	Date     time.Time  `json:"date"`
}

// SentimentRecord is the per (ticker, source) aggregate: mean polarity
// plus item count as a confidence proxy.
type SentimentRecord struct {
	Ticker string     `json:"ticker"`
	Source SourceType `json:"source"`
	Mean   float64    `json:"mean"`
	Count  int        `json:"count"`
}

// CombinedSentiment is the blended per-ticker value. Final is 0 when
// neither source has items: defined neutral, not undefined. That keeps
// "no opinion" distinct from "negative opinion".
type CombinedSentiment struct {
	Ticker     string  `json:"ticker"`
	NewsMean   float64 `json:"news_mean"`
	NewsCount  int     `json:"news_count"`
	ForumMean  float64 `json:"forum_mean"`
	ForumCount int     `json:"forum_count"`
	Final      float64 `json:"final_sentiment"`
}
