package vci

import (
	"context"
	"fmt"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// screenerPageSize matches the API's maximum page size.
const screenerPageSize = 500

type screenerRequest struct {
	Exchanges []string `json:"exchanges"`
	PageIndex int      `json:"pageIndex"`
	PageSize  int      `json:"pageSize"`
}

type screenerResponse struct {
	Data struct {
		TotalPages int `json:"totalPages"`
		Rows       []struct {
			Ticker    string  `json:"ticker"`
			Exchange  string  `json:"exchange"`
			Industry  string  `json:"industryName"`
			PE        float64 `json:"pe"`
			PB        float64 `json:"pb"`
			ROE       float64 `json:"roe"`
			MarketCap float64 `json:"marketCap"`
			EPS       float64 `json:"eps"`
			BVPS      float64 `json:"bvps"`
		} `json:"rows"`
	} `json:"data"`
}

// Screener pulls the full-market fundamentals snapshot across all
// exchanges, paging until the API reports the last page.
func (c *Client) Screener(ctx context.Context, exchanges []string) ([]contracts.FundamentalsRow, error) {
	if len(exchanges) == 0 {
		exchanges = []string{"HOSE", "HNX", "UPCOM"}
	}
	fullURL := fmt.Sprintf("%s/api/v2/screener", c.baseURL)

	var rows []contracts.FundamentalsRow
	for page := 1; ; page++ {
		var resp screenerResponse
		req := screenerRequest{Exchanges: exchanges, PageIndex: page, PageSize: screenerPageSize}
		if err := c.postJSON(ctx, fullURL, req, &resp); err != nil {
			return nil, fmt.Errorf("screener page %d: %w", page, err)
		}

		for _, r := range resp.Data.Rows {
			if r.Ticker == "" {
				continue
			}
			rows = append(rows, contracts.FundamentalsRow{
				Ticker:    r.Ticker,
				Exchange:  r.Exchange,
				Industry:  r.Industry,
				PE:        r.PE,
				PB:        r.PB,
				ROE:       r.ROE,
				MarketCap: r.MarketCap,
				EPS:       r.EPS,
				BVPS:      r.BVPS,
			})
		}

		if page >= resp.Data.TotalPages || len(resp.Data.Rows) == 0 {
			break
		}
	}

	c.logger.WithField("count", len(rows)).Info("Fetched screener fundamentals")
	return rows, nil
}
