package cafef

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wonny/vquant/backend/pkg/httputil"
	"github.com/wonny/vquant/backend/pkg/logger"
)

const sampleHTML = `
<div>
  <ul class="News_Title_Link">
    <li>
      <span class="timeTitle">15/01/2026</span>
      <a class="docnhanhTitle" href="/x">CEO mua vào 1 triệu cổ phiếu</a>
    </li>
    <li>
      <span class="timeTitle">14/01/2026</span>
      <a class="docnhanhTitle" href="/y">Lợi nhuận quý 4 tăng mạnh</a>
    </li>
    <li>
      <span class="timeTitle">13/01/2026</span>
      <a class="otherClass" href="/z">Ignored, wrong anchor class</a>
    </li>
  </ul>
</div>`

func TestRelatedNewsParsesList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "PVS" {
			t.Errorf("symbol = %q, want PVS", got)
		}
		fmt.Fprint(w, sampleHTML)
	}))
	defer srv.Close()

	c := NewClient(httputil.New(logger.Discard()).DisableRetry(), logger.Discard(), srv.URL)

	articles, err := c.RelatedNews(context.Background(), "PVS")
	if err != nil {
		t.Fatalf("RelatedNews() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].Ticker != "PVS" {
		t.Errorf("ticker = %q, want PVS", articles[0].Ticker)
	}
	want := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if !articles[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", articles[0].Date, want)
	}
}

func TestRelatedNewsEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<div>no news container</div>")
	}))
	defer srv.Close()

	c := NewClient(httputil.New(logger.Discard()).DisableRetry(), logger.Discard(), srv.URL)
	articles, err := c.RelatedNews(context.Background(), "ABC")
	if err != nil {
		t.Fatalf("RelatedNews() error = %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("got %d articles, want 0", len(articles))
	}
}
