package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockLens/internal/cache"
	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

func newTestServer(t *testing.T, fetcher collector.Fetcher) (*httptest.Server, recorder.Recorder) {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "lookups.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { rec.Close() })

	col := collector.NewCollector(fetcher)
	col.Recorder = rec
	s, err := NewServer(col, rec)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	s.Now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv, rec
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestIndex(t *testing.T) {
	srv, _ := newTestServer(t, &collector.MockFetcher{Price: 100})
	resp, body := get(t, srv.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{`value="2018-01-01"`, `value="2024-07-01"`, "Enter a ticker symbol"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestReport(t *testing.T) {
	srv, rec := newTestServer(t, &collector.MockFetcher{Price: 100})
	resp, body := get(t, srv.URL+"/report?ticker=aapl&start=2019-01-01&end=2024-07-01")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d:\n%s", resp.StatusCode, body)
	}
	for _, want := range []string{
		"AAPL Incorporated",
		"https://logo.clearbit.com/example.com",
		"Sector: Technology",
		"Latest prices",
		"<svg",
		"1 year",
		"5 years",
		"Annualized volatility",
		"Download CSV",
		"/report.csv?end=2024-07-01&amp;start=2019-01-01&amp;ticker=AAPL",
		"Compound annual growth rate",
		"Recent lookups",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Count(body, "<tr><td>2024-") != 10 {
		t.Errorf("expected the last 10 bars in the table")
	}

	lookups, err := rec.RecentLookups(5)
	if err != nil || len(lookups) != 1 || lookups[0].Source != "dashboard" {
		t.Errorf("expected one dashboard lookup recorded, got %+v (%v)", lookups, err)
	}
}

func TestReport_InsufficientData(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	mock := &collector.MockFetcher{Series: &model.PriceSeries{Bars: []model.OHLCV{
		{Time: day, Open: 10, High: 10, Low: 10, Close: 10},
	}}}
	srv, _ := newTestServer(t, mock)
	resp, body := get(t, srv.URL+"/report?ticker=NEW&start=2024-06-01&end=2024-07-01")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := strings.Count(body, "Insufficient data"); got < 4 {
		t.Errorf("expected every horizon and the volatility to show Insufficient data, found %d", got)
	}
	if !strings.Contains(body, "<th>Close</th>") && !strings.Contains(body, "<h2>Close</h2>") {
		t.Errorf("expected the close column to be used without adjusted prices")
	}
}

func TestReport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher collector.Fetcher
		query   string
		status  int
		want    string
	}{
		{"equal dates", &collector.MockFetcher{Price: 1}, "ticker=AAPL&start=2024-01-01&end=2024-01-01",
			http.StatusBadRequest, "The start date must be before the end date."},
		{"bad date", &collector.MockFetcher{Price: 1}, "ticker=AAPL&start=01/01/2024",
			http.StatusBadRequest, "invalid start date"},
		{"unknown ticker", &collector.MockFetcher{ProfileErr: collector.ErrNotFound}, "ticker=ZZZZ",
			http.StatusNotFound, "The ticker does not exist"},
		{"provider down", &collector.MockFetcher{HistoryErr: errors.New("connection reset")}, "ticker=AAPL",
			http.StatusBadGateway, "Could not retrieve the data. Error:"},
		{"no ticker", &collector.MockFetcher{Price: 1}, "ticker=",
			http.StatusOK, "Enter a ticker symbol"},
	}
	for _, tt := range tests {
		srv, _ := newTestServer(t, tt.fetcher)
		resp, body := get(t, srv.URL+"/report?"+tt.query)
		if resp.StatusCode != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.name, tt.status, resp.StatusCode)
		}
		if !strings.Contains(body, tt.want) {
			t.Errorf("%s: expected %q in page", tt.name, tt.want)
		}
	}
}

func TestReportCSV(t *testing.T) {
	srv, _ := newTestServer(t, &collector.MockFetcher{Price: 100})
	resp, body := get(t, srv.URL+"/report.csv?ticker=msft&start=2024-01-01&end=2024-02-01")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename="MSFT_history.csv"` {
		t.Errorf("unexpected Content-Disposition %q", got)
	}
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if lines[0] != "Date,Open,High,Low,Close,Adj Close,Volume" {
		t.Errorf("unexpected header %q", lines[0])
	}
	// 23 weekdays in January 2024
	if len(lines) != 24 {
		t.Errorf("expected 23 rows, got %d", len(lines)-1)
	}

	resp, _ = get(t, srv.URL+"/report.csv?ticker=msft&start=2024-02-01&end=2024-01-01")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for reversed range, got %d", resp.StatusCode)
	}
}

func TestAPIReport(t *testing.T) {
	srv, _ := newTestServer(t, &collector.MockFetcher{Price: 100})
	resp, body := get(t, srv.URL+"/api/report?ticker=aapl&start=2023-06-01&end=2024-07-01")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var out struct {
		Symbol   string `json:"symbol"`
		Horizons []struct {
			Label string   `json:"label"`
			Rate  *float64 `json:"rate"`
		} `json:"horizons"`
		Volatility struct {
			Annualized  *float64 `json:"annualized"`
			TradingDays float64  `json:"trading_days"`
		} `json:"volatility"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Symbol != "AAPL" || len(out.Horizons) != 3 {
		t.Fatalf("unexpected report: %+v", out)
	}
	if out.Horizons[0].Rate == nil {
		t.Error("expected a 1 year rate")
	}
	if out.Volatility.Annualized == nil || out.Volatility.TradingDays != 252 {
		t.Errorf("unexpected volatility: %+v", out.Volatility)
	}

	resp, body = get(t, srv.URL+"/api/report")
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "ticker is required") {
		t.Errorf("expected 400 without ticker, got %d %s", resp.StatusCode, body)
	}

	resp, body = get(t, srv.URL+"/api/lookups")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"source":"api"`) {
		t.Errorf("expected the api lookup in history, got %d %s", resp.StatusCode, body)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, &collector.MockFetcher{})
	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"provider":"mock"`) {
		t.Errorf("unexpected healthz: %d %s", resp.StatusCode, body)
	}
}

func TestLineChart(t *testing.T) {
	series := &model.PriceSeries{Bars: []model.OHLCV{
		{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 10},
		{Time: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 12},
		{Time: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Close: 11},
	}}
	svg, err := lineChart(series)
	if err != nil {
		t.Fatal(err)
	}
	out := string(svg)
	if !strings.Contains(out, `points="40.0,260.0 400.0,40.0 760.0,150.0"`) {
		t.Errorf("unexpected polyline:\n%s", out)
	}
	if !strings.Contains(out, "2024-01-02") || !strings.Contains(out, "2024-01-04") {
		t.Errorf("expected date labels:\n%s", out)
	}
	if strings.Contains(out, `class="ma"`) {
		t.Errorf("short series must not draw a moving average:\n%s", out)
	}

	long := &model.PriceSeries{}
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < chartMAPeriod+10; i++ {
		long.Bars = append(long.Bars, model.OHLCV{Time: day.AddDate(0, 0, i), Close: float64(100 + i%7)})
	}
	svg, err = lineChart(long)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `class="ma"`) {
		t.Error("expected moving average overlay for a long series")
	}

	if _, err := lineChart(&model.PriceSeries{Bars: series.Bars[:1]}); err == nil {
		t.Error("expected error for a single bar")
	}
}

func TestReportDefaultRangeReadsWarmCache(t *testing.T) {
	mock := &collector.MockFetcher{Price: 100}
	cached := collector.NewCachingFetcher(mock, cache.NewMemoryCache(), time.Hour, time.Hour)
	srv, _ := newTestServer(t, cached)

	// warm-up as the scheduler does it, at the server's clock
	start, end := collector.DefaultRange(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
	if _, err := collector.NewCollector(cached).Run(context.Background(), "cron", "AAPL", start, end); err != nil {
		t.Fatal(err)
	}

	resp, body := get(t, srv.URL+"/report?ticker=AAPL")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d:\n%s", resp.StatusCode, body)
	}
	if got := mock.HistoryCalls.Load(); got != 1 {
		t.Errorf("expected the default report to reuse the warmed history, got %d fetches", got)
	}
}

type countingRecorder struct {
	recorder.Recorder
	recentCalls int
}

func (c *countingRecorder) RecentLookups(limit int) ([]recorder.LookupEvent, error) {
	c.recentCalls++
	return c.Recorder.RecentLookups(limit)
}

func TestReportLoadsRecentLookupsOnce(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "lookups.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { rec.Close() })
	counting := &countingRecorder{Recorder: rec}

	col := collector.NewCollector(&collector.MockFetcher{Price: 100})
	col.Recorder = counting
	s, err := NewServer(col, counting)
	if err != nil {
		t.Fatal(err)
	}
	s.Now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }

	for _, tc := range []struct {
		path   string
		status int
	}{
		{"/report?ticker=MSFT&start=2023-01-02&end=2024-01-02", http.StatusOK},
		{"/report?ticker=MSFT&start=2024-01-02&end=2023-01-02", http.StatusBadRequest},
		{"/", http.StatusOK},
	} {
		counting.recentCalls = 0
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, rr.Code)
		}
		if counting.recentCalls != 1 {
			t.Errorf("%s: expected 1 recent lookups query, got %d", tc.path, counting.recentCalls)
		}
		if !strings.Contains(rr.Body.String(), "/report?end=2024-01-02&amp;start=2023-01-02&amp;ticker=MSFT") {
			t.Errorf("%s: expected the recorded MSFT lookup in the recent list", tc.path)
		}
	}
}
