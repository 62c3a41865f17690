package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"StockLens/internal/model"

	"github.com/shopspring/decimal"
)

const eodhdBaseURL = "https://eodhd.com/api"

// EODHDFetcher implements Fetcher using the EOD Historical Data REST API.
// Tickers without an exchange suffix are looked up on the US exchange.
type EODHDFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewEODHDFetcher creates a new fetcher with optional proxy support.
func NewEODHDFetcher(baseURL, apiKey, proxyURL string) *EODHDFetcher {
	if baseURL == "" {
		baseURL = eodhdBaseURL
	}
	return &EODHDFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *EODHDFetcher) Name() string { return "eodhd" }

func (f *EODHDFetcher) ticker(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".US"
}

// eodBar is the JSON shape of one /eod entry. Prices are decoded as decimals
// to keep the provider's exact figures until conversion.
type eodBar struct {
	Date          string          `json:"date"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Close         decimal.Decimal `json:"close"`
	AdjustedClose decimal.Decimal `json:"adjusted_close"`
	Volume        decimal.Decimal `json:"volume"`
}

// FetchHistory returns daily bars in [start, end). The API bounds are inclusive,
// so the request stops the day before end.
func (f *EODHDFetcher) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	to := end.AddDate(0, 0, -1)
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s",
		f.BaseURL, url.PathEscape(f.ticker(symbol)), url.QueryEscape(f.APIKey),
		start.Format("2006-01-02"), to.Format("2006-01-02"))

	content := make([]eodBar, 0)
	if err := jwget(ctx, f.Client, addr, &content); err != nil {
		return nil, fmt.Errorf("eodhd history %s: %w", symbol, err)
	}

	series := &model.PriceSeries{Symbol: symbol, FetchedAt: time.Now()}
	for _, b := range content {
		day, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			return nil, fmt.Errorf("eodhd history %s: invalid date %q: %w", symbol, b.Date, err)
		}
		if !b.Close.IsPositive() {
			continue
		}
		series.Bars = append(series.Bars, model.OHLCV{
			Time:     day,
			Open:     b.Open.InexactFloat64(),
			High:     b.High.InexactFloat64(),
			Low:      b.Low.InexactFloat64(),
			Close:    b.Close.InexactFloat64(),
			AdjClose: b.AdjustedClose.InexactFloat64(),
			Volume:   b.Volume.InexactFloat64(),
		})
	}
	if len(series.Bars) == 0 {
		return nil, fmt.Errorf("eodhd history %s: %w", symbol, ErrNoData)
	}
	sort.Slice(series.Bars, func(i, j int) bool { return series.Bars[i].Time.Before(series.Bars[j].Time) })
	return dedupeDays(series), nil
}

// eodFundamentals is the subset of /fundamentals the dashboard shows.
type eodFundamentals struct {
	General struct {
		Code         string `json:"Code"`
		Name         string `json:"Name"`
		CurrencyCode string `json:"CurrencyCode"`
		Sector       string `json:"Sector"`
		Industry     string `json:"Industry"`
		Description  string `json:"Description"`
		WebURL       string `json:"WebURL"`
		LogoURL      string `json:"LogoURL"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization *decimal.Decimal `json:"MarketCapitalization"`
		PERatio              *decimal.Decimal `json:"PERatio"`
		DividendYield        *decimal.Decimal `json:"DividendYield"`
		EarningsShare        *decimal.Decimal `json:"EarningsShare"`
	} `json:"Highlights"`
	Technicals struct {
		Beta *decimal.Decimal `json:"Beta"`
	} `json:"Technicals"`
}

// FetchProfile reads the General, Highlights and Technicals sections of the
// fundamentals endpoint.
func (f *EODHDFetcher) FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error) {
	addr := fmt.Sprintf("%s/fundamentals/%s?fmt=json&api_token=%s&filter=General,Highlights,Technicals",
		f.BaseURL, url.PathEscape(f.ticker(symbol)), url.QueryEscape(f.APIKey))

	var fund eodFundamentals
	if err := jwget(ctx, f.Client, addr, &fund); err != nil {
		return nil, fmt.Errorf("eodhd profile %s: %w", symbol, err)
	}
	if fund.General.Name == "" {
		return nil, fmt.Errorf("eodhd profile %s: %w", symbol, ErrNotFound)
	}

	p := &model.CompanyProfile{
		Symbol:        symbol,
		ShortName:     fund.General.Name,
		LongName:      fund.General.Name,
		Currency:      fund.General.CurrencyCode,
		Sector:        fund.General.Sector,
		Industry:      fund.General.Industry,
		Summary:       fund.General.Description,
		Website:       fund.General.WebURL,
		MarketCap:     decimalPtr(fund.Highlights.MarketCapitalization),
		TrailingPE:    decimalPtr(fund.Highlights.PERatio),
		DividendYield: decimalPtr(fund.Highlights.DividendYield),
		TrailingEPS:   decimalPtr(fund.Highlights.EarningsShare),
		Beta:          decimalPtr(fund.Technicals.Beta),
	}
	if logo := fund.General.LogoURL; logo != "" {
		if strings.HasPrefix(logo, "/") {
			logo = "https://eodhd.com" + logo
		}
		p.LogoURL = logo
	}
	return p, nil
}

func decimalPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	return model.Float(d.InexactFloat64())
}
