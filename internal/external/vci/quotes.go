package vci

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
)

type quoteResponse struct {
	Data []struct {
		// Unix seconds.
		Time   int64   `json:"t"`
		Close  float64 `json:"c"`
		Volume int64   `json:"v"`
	} `json:"data"`
}

// PriceHistory fetches daily bars for a ticker, oldest first. Callers
// needing SMA200 should request at least a year and a half of history
// to cover non-trading days.
func (c *Client) PriceHistory(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PriceBar, error) {
	params := url.Values{}
	params.Set("ticker", ticker)
	params.Set("resolution", "1D")
	params.Set("from", fmt.Sprintf("%d", from.Unix()))
	params.Set("to", fmt.Sprintf("%d", to.Unix()))
	fullURL := fmt.Sprintf("%s/api/v2/quotes/history?%s", c.baseURL, params.Encode())

	var resp quoteResponse
	if err := c.getJSON(ctx, fullURL, &resp); err != nil {
		return nil, err
	}

	bars := make([]contracts.PriceBar, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.Close <= 0 {
			continue
		}
		bars = append(bars, contracts.PriceBar{
			Date:   time.Unix(d.Time, 0).UTC(),
			Close:  d.Close,
			Volume: d.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(bars),
	}).Debug("Fetched price history")
	return bars, nil
}
