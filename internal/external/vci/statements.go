package vci

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// statementResponse mirrors the VCI financial-statement payload: one
// line item per entry, values keyed by fiscal year.
type statementResponse struct {
	Data struct {
		Ticker string `json:"ticker"`
		Items  []struct {
			Name   string             `json:"name"`
			Values map[string]float64 `json:"values"`
		} `json:"items"`
	} `json:"data"`
}

var kindPaths = map[contracts.StatementKind]string{
	contracts.BalanceSheet:    "balance-sheet",
	contracts.IncomeStatement: "income-statement",
	contracts.CashFlow:        "cash-flow",
}

// Statement fetches one statement kind for a ticker. The provider
// returns line items keyed by year; this pivots them into yearly rows,
// most recent year first, with line-item labels lowercased so keyword
// lookup never worries about provider casing.
func (c *Client) Statement(ctx context.Context, ticker string, kind contracts.StatementKind) (*contracts.FinancialStatement, error) {
	path, ok := kindPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown statement kind: %q", kind)
	}

	params := url.Values{}
	params.Set("ticker", ticker)
	params.Set("period", "year")
	fullURL := fmt.Sprintf("%s/api/v2/company/%s?%s", c.baseURL, path, params.Encode())

	var resp statementResponse
	if err := c.getJSON(ctx, fullURL, &resp); err != nil {
		return nil, err
	}

	byYear := make(map[string]contracts.YearRow)
	for _, item := range resp.Data.Items {
		name := strings.ToLower(strings.TrimSpace(item.Name))
		if name == "" {
			continue
		}
		for year, v := range item.Values {
			row, ok := byYear[year]
			if !ok {
				row = make(contracts.YearRow)
				byYear[year] = row
			}
			row[name] = v
		}
	}

	years := make([]string, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	// Four-digit years sort correctly as strings; newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(years)))

	stmt := &contracts.FinancialStatement{
		Ticker:    ticker,
		Kind:      kind,
		Rows:      make([]contracts.YearRow, 0, len(years)),
		FetchedAt: time.Now(),
	}
	for _, y := range years {
		stmt.Rows = append(stmt.Rows, byYear[y])
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"kind":   string(kind),
		"years":  len(stmt.Rows),
	}).Debug("Fetched statement")
	return stmt, nil
}
