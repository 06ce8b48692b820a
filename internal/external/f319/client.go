// Package f319 scrapes thread titles from the F319 retail investor
// forum. Titles mentioning a target ticker (as a standalone word) are
// the raw input to forum sentiment.
package f319

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/vquant/backend/pkg/httputil"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// Thread is one forum thread title matched to a ticker.
type Thread struct {
	Ticker string
	Title  string
	Page   int
}

// Client scrapes the F319 main stock board.
// ⭐ SSOT: all F319 calls go through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	maxPages   int

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewClient creates an F319 scraper client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string, maxPages int) *Client {
	if baseURL == "" {
		baseURL = "https://f319.com"
	}
	if maxPages <= 0 {
		maxPages = 150
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		maxPages:   maxPages,
		patterns:   make(map[string]*regexp.Regexp),
	}
}

// Threads scans board pages and returns threads whose title mentions a
// target ticker as a whole word. Duplicate titles (sticky threads
// reappear on every page) are dropped; a page with no threads ends the
// scan.
func (c *Client) Threads(ctx context.Context, targets []string) ([]Thread, error) {
	seen := make(map[string]bool)
	var threads []Thread

	for page := 1; page <= c.maxPages; page++ {
		titles, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("board page %d: %w", page, err)
		}
		if len(titles) == 0 {
			break
		}
		for _, title := range titles {
			if seen[title] {
				continue
			}
			seen[title] = true
			for _, ticker := range targets {
				if c.mentions(title, ticker) {
					threads = append(threads, Thread{Ticker: ticker, Title: title, Page: page})
				}
			}
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"threads": len(threads),
		"targets": len(targets),
	}).Info("Scraped forum threads")
	return threads, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]string, error) {
	fullURL := fmt.Sprintf("%s/forums/thi-truong-chung-khoan.3/page-%d", c.baseURL, page)

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

	var titles []string
	doc.Find("h3.title a").Each(func(_ int, s *goquery.Selection) {
		if title := strings.TrimSpace(s.Text()); title != "" {
			titles = append(titles, title)
		}
	})
	if len(titles) == 0 {
		doc.Find("a.PreviewTooltip").Each(func(_ int, s *goquery.Selection) {
			if title := strings.TrimSpace(s.Text()); title != "" {
				titles = append(titles, title)
			}
		})
	}
	return titles, nil
}

// mentions reports whether title contains ticker as a standalone word.
// Substring matching would tag "CEO" inside "CEOGROUP" style noise.
func (c *Client) mentions(title, ticker string) bool {
	c.mu.Lock()
	re, ok := c.patterns[ticker]
	if !ok {
		re = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(ticker) + `\b`)
		c.patterns[ticker] = re
	}
	c.mu.Unlock()
	return re.MatchString(title)
}
