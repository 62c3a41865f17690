package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"StockLens/internal/model"

	"github.com/PaesslerAG/jsonpath"
)

const (
	yahooChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart/"
	yahooSummaryURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary/"
	yahooModules    = "price,assetProfile,summaryDetail,defaultKeyStatistics,financialData"
)

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Client     *http.Client
	ChartURL   string
	SummaryURL string
	SymbolMap  map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		Client:     newHTTPClient(proxyURL),
		ChartURL:   yahooChartURL,
		SummaryURL: yahooSummaryURL,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency  string `json:"currency"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *yahooError) err() error {
	if strings.EqualFold(e.Code, "Not Found") {
		return fmt.Errorf("yahoo: %s: %w", e.Description, ErrNotFound)
	}
	return fmt.Errorf("yahoo api error: %s", e.Description)
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("yahoo read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// FetchHistory queries the chart API for daily bars between start and end.
// Bars are dated at midnight UTC of the exchange-local trading day.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	u := fmt.Sprintf("%s%s?interval=1d&period1=%d&period2=%d&includeAdjustedClose=true&events=div%%7Csplit",
		f.ChartURL, url.PathEscape(f.yahooSymbol(symbol)), start.Unix(), end.Unix())

	body, status, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("yahoo: status %d, body: %s", status, snippet(body))
		}
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, chart.Chart.Error.err()
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", status, snippet(body))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	series := &model.PriceSeries{Symbol: symbol, FetchedAt: time.Now()}
	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		local := time.Unix(ts+result.Meta.GMTOffset, 0).UTC()
		series.Bars = append(series.Bars, model.OHLCV{
			Time:     time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
			Open:     at(quote.Open, i),
			High:     at(quote.High, i),
			Low:      at(quote.Low, i),
			Close:    c,
			AdjClose: at(adj, i),
			Volume:   at(quote.Volume, i),
		})
	}
	if len(series.Bars) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	sort.Slice(series.Bars, func(i, j int) bool { return series.Bars[i].Time.Before(series.Bars[j].Time) })
	return dedupeDays(series), nil
}

// FetchProfile queries the quoteSummary API. A ticker without a short name is
// reported as not found.
func (f *YahooFetcher) FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error) {
	u := fmt.Sprintf("%s%s?modules=%s", f.SummaryURL, url.PathEscape(f.yahooSymbol(symbol)), yahooModules)

	body, status, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("yahoo: status %d, body: %s", status, snippet(body))
		}
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if code := pathString(doc, "$.quoteSummary.error.code"); code != "" {
		e := &yahooError{Code: code, Description: pathString(doc, "$.quoteSummary.error.description")}
		return nil, e.err()
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", status, snippet(body))
	}

	const r = "$.quoteSummary.result[0]"
	p := &model.CompanyProfile{
		Symbol:        symbol,
		ShortName:     pathString(doc, r+".price.shortName"),
		LongName:      pathString(doc, r+".price.longName"),
		Currency:      pathString(doc, r+".price.currency"),
		Sector:        pathString(doc, r+".assetProfile.sector"),
		Industry:      pathString(doc, r+".assetProfile.industry"),
		Summary:       pathString(doc, r+".assetProfile.longBusinessSummary"),
		Website:       pathString(doc, r+".assetProfile.website"),
		CurrentPrice:  pathRaw(doc, r+".financialData.currentPrice.raw"),
		MarketCap:     pathRaw(doc, r+".price.marketCap.raw"),
		TrailingPE:    pathRaw(doc, r+".summaryDetail.trailingPE.raw"),
		Beta:          pathRaw(doc, r+".summaryDetail.beta.raw"),
		DividendYield: pathRaw(doc, r+".summaryDetail.dividendYield.raw"),
		TrailingEPS:   pathRaw(doc, r+".defaultKeyStatistics.trailingEps.raw"),
	}
	if p.ShortName == "" {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNotFound)
	}
	return p, nil
}

// maxErrBody bounds how much of a response body an error message carries.
const maxErrBody = 200

// snippet returns the start of body for error messages, cut on a rune boundary.
func snippet(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= maxErrBody {
		return text
	}
	cut := maxErrBody
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

// pathString evaluates a JSONPath expecting a string; missing keys yield "".
func pathString(doc any, path string) string {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return ""
	}
	// jsonpath may wrap a single answer in a list
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// pathRaw evaluates a JSONPath expecting a number; missing keys yield nil.
func pathRaw(doc any, path string) *float64 {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil
	}
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	n, ok := v.(float64)
	if !ok {
		return nil
	}
	return model.Float(n)
}
