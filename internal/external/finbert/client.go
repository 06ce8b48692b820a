// Package finbert calls a sentiment-classification HTTP service that
// wraps a finance-tuned language model. The pipeline only needs the
// (label, confidence) pair.
package finbert

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/pkg/httputil"
	"github.com/wonny/vquant/backend/pkg/logger"
)

// Client calls the classifier service.
// ⭐ SSOT: all classifier calls go through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a classifier client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	return &Client{httpClient: httpClient, logger: log, baseURL: baseURL}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the sentiment label and confidence for a text.
func (c *Client) Classify(ctx context.Context, text string) (contracts.SentimentLabel, float64, error) {
	fullURL := fmt.Sprintf("%s/classify", c.baseURL)

	resp, err := c.httpClient.PostJSON(ctx, fullURL, classifyRequest{Text: text})
	if err != nil {
		return contracts.LabelNeutral, 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.LabelNeutral, 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contracts.LabelNeutral, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed classifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return contracts.LabelNeutral, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	label := normalizeLabel(parsed.Label)
	if parsed.Score < 0 || parsed.Score > 1 {
		return contracts.LabelNeutral, 0, fmt.Errorf("confidence out of range: %v", parsed.Score)
	}
	return label, parsed.Score, nil
}

func normalizeLabel(s string) contracts.SentimentLabel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "pos":
		return contracts.LabelPositive
	case "negative", "neg":
		return contracts.LabelNegative
	default:
		return contracts.LabelNeutral
	}
}
