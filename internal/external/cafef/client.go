// Package cafef scrapes per-ticker related news from the CafeF ajax
// endpoint. Used for HNX/UPCOM tickers the exchange feed does not
// cover.
package cafef

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/vquant/backend/pkg/httputil"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// Article is one scraped news headline.
type Article struct {
	Ticker string
	Title  string
	Date   time.Time
}

// Client scrapes CafeF related-news pages.
// ⭐ SSOT: all CafeF calls go through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a CafeF scraper client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://cafef.vn"
	}
	return &Client{httpClient: httpClient, logger: log, baseURL: baseURL}
}

// RelatedNews fetches the latest related headlines for one ticker.
func (c *Client) RelatedNews(ctx context.Context, ticker string) ([]Article, error) {
	fullURL := fmt.Sprintf(
		"%s/du-lieu/Ajax/Events_RelatedNews_New.aspx?symbol=%s&floorID=0&configID=0&PageIndex=1&PageSize=10&Type=2",
		c.baseURL, ticker,
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var articles []Article
	doc.Find("ul.News_Title_Link li").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("a.docnhanhTitle").Text())
		dateText := strings.TrimSpace(s.Find("span.timeTitle").Text())
		if title == "" {
			return
		}
		articles = append(articles, Article{
			Ticker: ticker,
			Title:  title,
			Date:   parseDate(dateText),
		})
	})

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"articles": len(articles),
	}).Debug("Fetched related news")
	return articles, nil
}

func parseDate(s string) time.Time {
	for _, layout := range []string{"02/01/2006", "2/1/2006", "02/01/2006 15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
