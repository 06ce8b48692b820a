package vci

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wonny/vquant/backend/internal/contracts"
	"github.com/wonny/vquant/backend/pkg/httputil"
	"github.com/wonny/vquant/backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	hc := httputil.New(logger.Discard()).DisableRetry()
	return NewClient(hc, logger.Discard(), srv.URL, 1000)
}

func TestStatementParsesAndLowercasesRows(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/company/balance-sheet" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ticker"); got != "FPT" {
			t.Errorf("unexpected ticker: %s", got)
		}
		w.Write([]byte(`{
			"data": {
				"ticker": "FPT",
				"items": [
					{"name": "TOTAL ASSETS", "values": {"2025": 1000, "2024": 900}},
					{"name": "  Long-term Debt ", "values": {"2025": 200, "2024": 250}},
					{"name": "", "values": {"2025": 1}},
					{"name": "empty row", "values": {}}
				]
			}
		}`))
	})
	c := newTestClient(t, handler)

	stmt, err := c.Statement(context.Background(), "FPT", contracts.BalanceSheet)
	if err != nil {
		t.Fatalf("Statement() error = %v", err)
	}
	if len(stmt.Rows) != 2 {
		t.Fatalf("got %d yearly rows, want 2", len(stmt.Rows))
	}
	// Index 0 must be the most recent year.
	if got := stmt.Rows[0]["total assets"]; got != 1000 {
		t.Errorf("current total assets = %v, want 1000", got)
	}
	if got := stmt.Rows[1]["long-term debt"]; got != 250 {
		t.Errorf("prior long-term debt = %v, want 250", got)
	}
}

func TestStatementUnknownKind(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	if _, err := c.Statement(context.Background(), "FPT", contracts.StatementKind("xx")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestScreenerPagination(t *testing.T) {
	pages := map[int]string{
		1: `{"data": {"totalPages": 2, "rows": [
			{"ticker": "FPT", "exchange": "HOSE", "industryName": "Technology", "pe": 18, "pb": 3.5, "roe": 22, "marketCap": 1e12},
			{"ticker": "", "pe": 1}
		]}}`,
		2: `{"data": {"totalPages": 2, "rows": [
			{"ticker": "VNM", "exchange": "HOSE", "industryName": "Consumer", "pe": 14, "pb": 2.1, "roe": 25, "marketCap": 2e12}
		]}}`,
	}
	var requests int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(pages[requests]))
	})
	c := newTestClient(t, handler)

	rows, err := c.Screener(context.Background(), nil)
	if err != nil {
		t.Fatalf("Screener() error = %v", err)
	}
	if requests != 2 {
		t.Errorf("made %d requests, want 2", requests)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Ticker != "FPT" || rows[1].Ticker != "VNM" {
		t.Errorf("unexpected tickers: %v, %v", rows[0].Ticker, rows[1].Ticker)
	}
}

func TestPriceHistorySortsAndFilters(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"t": 1767139200, "c": 102.5, "v": 500},
			{"t": 1767052800, "c": 101.0, "v": 400},
			{"t": 1767225600, "c": 0, "v": 100}
		]}`))
	})
	c := newTestClient(t, handler)

	bars, err := c.PriceHistory(context.Background(), "FPT", time.Now().AddDate(-1, 0, 0), time.Now())
	if err != nil {
		t.Fatalf("PriceHistory() error = %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Error("bars not sorted oldest first")
	}
	if bars[0].Close != 101.0 {
		t.Errorf("first close = %v, want 101.0", bars[0].Close)
	}
}
