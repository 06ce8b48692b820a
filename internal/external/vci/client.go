// Package vci is the client for the VCI market-data API: financial
// statements, screener fundamentals and daily price history.
package vci

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/wonny/vquant/backend/pkg/httputil"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// Client handles communication with the VCI data API.
// ⭐ SSOT: all VCI API calls go through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a VCI client. ratePerSec bounds outbound request
// rate client-side; the API bans IPs that burst.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string, ratePerSec float64) *Client {
	if baseURL == "" {
		baseURL = "https://mt.vietcap.com.vn"
	}
	if ratePerSec <= 0 {
		ratePerSec = 4
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
}

// getJSON fetches a URL and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, fullURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// postJSON posts a JSON payload and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, fullURL string, payload, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.httpClient.PostJSON(ctx, fullURL, payload)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
