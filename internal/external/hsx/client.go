// Package hsx fetches the exchange's public news feed. The feed is one
// market-wide stream; titles are prefixed "TICKER: ..." so relevance
// filtering happens client-side against a target set.
package hsx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/vquant/backend/pkg/httputil"
	"github.com/wonny/vquant/backend/pkg/logger"
)

const pageSize = 50

// Article is one relevant news item from the feed.
type Article struct {
	Ticker string
	Title  string
	Date   time.Time
}

// Client handles communication with the HSX news API.
// ⭐ SSOT: all HSX API calls go through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	maxPages   int
}

// NewClient creates an HSX news client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string, maxPages int) *Client {
	if baseURL == "" {
		baseURL = "https://api.hsx.vn"
	}
	if maxPages <= 0 {
		maxPages = 100
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		maxPages:   maxPages,
	}
}

type newsResponse struct {
	Data struct {
		List []struct {
			Title      string          `json:"title"`
			PostedDate json.RawMessage `json:"postedDate"`
		} `json:"list"`
	} `json:"data"`
}

// News scans the market news stream over the lookback window and keeps
// articles whose title prefix names one of the target tickers. An empty
// page ends the scan early.
func (c *Client) News(ctx context.Context, targets map[string]bool, lookbackDays int) ([]Article, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)

	var articles []Article
	for page := 1; page <= c.maxPages; page++ {
		list, err := c.fetchPage(ctx, page, start, end)
		if err != nil {
			return nil, fmt.Errorf("news page %d: %w", page, err)
		}
		if len(list) == 0 {
			break
		}
		for _, item := range list {
			ticker, ok := extractTicker(item.Title)
			if !ok || !targets[ticker] {
				continue
			}
			articles = append(articles, Article{
				Ticker: ticker,
				Title:  item.Title,
				Date:   parseDate(item.PostedDate),
			})
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"articles": len(articles),
		"targets":  len(targets),
	}).Info("Fetched exchange news")
	return articles, nil
}

func (c *Client) fetchPage(ctx context.Context, page int, start, end time.Time) ([]struct {
	Title      string          `json:"title"`
	PostedDate json.RawMessage `json:"postedDate"`
}, error) {
	fullURL := fmt.Sprintf(
		"%s/n/api/v1/1/news/securitiesType/1?pageIndex=%d&pageSize=%d&startDate=%s&endDate=%s",
		c.baseURL, page, pageSize, start.Format("2006-01-02"), end.Format("2006-01-02"),
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed newsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return parsed.Data.List, nil
}

// extractTicker pulls the "TICKER:" prefix from a feed title.
func extractTicker(title string) (string, bool) {
	idx := strings.Index(title, ":")
	if idx <= 0 {
		return "", false
	}
	ticker := strings.ToUpper(strings.TrimSpace(title[:idx]))
	if ticker == "" || len(ticker) > 5 {
		return "", false
	}
	return ticker, true
}

// parseDate handles the feed's mixed date encodings: unix seconds,
// unix milliseconds, or a preformatted string.
func parseDate(raw json.RawMessage) time.Time {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return time.Time{}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		// Over a trillion means milliseconds.
		if ts > 1_000_000_000_000 {
			ts /= 1000
		}
		return time.Unix(ts, 0).UTC()
	}
	for _, layout := range []string{"02/01/2006", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
