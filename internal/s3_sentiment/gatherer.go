package s3_sentiment

import (
	"context"
	"strings"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/internal/external/cafef"
	"github.com/wonny/vquant/backend/internal/external/f319"
	"github.com/wonny/vquant/backend/internal/external/hsx"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// Classifier scores a text. Injected so the aggregation logic never
// knows which model sits behind it.
type Classifier interface {
	Classify(ctx context.Context, text string) (contracts.SentimentLabel, float64, error)
}

// NewsSource provides market-wide news filtered to a target set.
type NewsSource interface {
	News(ctx context.Context, targets map[string]bool, lookbackDays int) ([]hsx.Article, error)
}

// RelatedNewsSource provides per-ticker news, used for tickers the
// market-wide feed does not cover.
type RelatedNewsSource interface {
	RelatedNews(ctx context.Context, ticker string) ([]cafef.Article, error)
}

// ForumSource provides forum threads mentioning target tickers.
type ForumSource interface {
	Threads(ctx context.Context, targets []string) ([]f319.Thread, error)
}

// Gatherer collects raw text from all sources and classifies it.
type Gatherer struct {
	news       NewsSource
	related    RelatedNewsSource
	forum      ForumSource
	classifier Classifier
	lookback   int
	logger     *logger.Logger
}

// NewGatherer wires the sentiment gatherer.
func NewGatherer(news NewsSource, related RelatedNewsSource, forum ForumSource, classifier Classifier, lookbackDays int, log *logger.Logger) *Gatherer {
	if lookbackDays <= 0 {
		lookbackDays = 90
	}
	return &Gatherer{
		news:       news,
		related:    related,
		forum:      forum,
		classifier: classifier,
		lookback:   lookbackDays,
		logger:     log,
	}
}

// TargetInfo is what the gatherer needs to know per ticker: which
// exchange it trades on decides the news source.
type TargetInfo struct {
	Ticker   string
	Exchange string
}

// Gather pulls headlines and threads for the targets and classifies
// each unique text. A classifier failure on one item skips the item,
// never the run.
func (g *Gatherer) Gather(ctx context.Context, targets []TargetInfo) []contracts.SentimentItem {
	tickerSet := make(map[string]bool, len(targets))
	tickerList := make([]string, 0, len(targets))
	for _, t := range targets {
		tickerSet[t.Ticker] = true
		tickerList = append(tickerList, t.Ticker)
	}

	var items []contracts.SentimentItem
	seen := make(map[string]bool)

	add := func(ticker, title string, source contracts.SourceType, date time.Time) {
		key := string(source) + "|" + ticker + "|" + strings.TrimSpace(title)
		if title == "" || seen[key] {
			return
		}
		seen[key] = true

		label, conf, err := g.classifier.Classify(ctx, title)
		if err != nil {
			g.logger.WithField("ticker", ticker).WithError(err).Warn("classifier failed, skipping item")
			return
		}
		items = append(items, contracts.SentimentItem{
			Ticker:   ticker,
			Title:    title,
			Source:   source,
			Polarity: contracts.Polarity(label, conf),
			Date:     date,
		})
	}

	// Market-wide exchange feed, one scan for all targets.
	if articles, err := g.news.News(ctx, tickerSet, g.lookback); err != nil {
		g.logger.WithError(err).Warn("exchange news fetch failed")
	} else {
		for _, a := range articles {
			add(a.Ticker, a.Title, contracts.SourceNews, a.Date)
		}
	}

	// Per-ticker related news for tickers off the main exchange.
	for _, t := range targets {
		ex := strings.ToUpper(t.Exchange)
		if ex != "HNX" && ex != "UPCOM" {
			continue
		}
		articles, err := g.related.RelatedNews(ctx, t.Ticker)
		if err != nil {
			g.logger.WithField("ticker", t.Ticker).WithError(err).Warn("related news fetch failed")
			continue
		}
		for _, a := range articles {
			add(a.Ticker, a.Title, contracts.SourceNews, a.Date)
		}
	}

	// Retail forum chatter.
	if threads, err := g.forum.Threads(ctx, tickerList); err != nil {
		g.logger.WithError(err).Warn("forum fetch failed")
	} else {
		for _, th := range threads {
			add(th.Ticker, th.Title, contracts.SourceForum, time.Time{})
		}
	}

	g.logger.WithField("items", len(items)).Info("Sentiment items gathered")
	return items
}
