package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"StockLens/internal/model"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
// Alpaca publishes no company profile; FetchProfile only confirms the symbol
// trades and reports its last price.
type AlpacaFetcher struct {
	Client *marketdata.Client
}

// NewAlpacaFetcher creates a market data client for the given key pair.
// An empty baseURL uses the public data endpoint.
func NewAlpacaFetcher(baseURL, apiKey, apiSecret, proxyURL string) *AlpacaFetcher {
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:     apiKey,
			APISecret:  apiSecret,
			BaseURL:    baseURL,
			RetryLimit: 3,
			HTTPClient: newHTTPClient(proxyURL),
		}),
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// FetchHistory returns split and dividend adjusted daily bars.
// The Alpaca client does not take a context; ctx is only checked up front.
func (f *AlpacaFetcher) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := f.Client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.All,
		Start:      start,
		End:        end,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars %s: %w", symbol, err)
	}
	series := &model.PriceSeries{Symbol: symbol, FetchedAt: time.Now()}
	for _, b := range bars {
		if b.Close <= 0 {
			continue
		}
		day := b.Timestamp.UTC()
		series.Bars = append(series.Bars, model.OHLCV{
			Time:     time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			AdjClose: b.Close,
			Volume:   float64(b.Volume),
		})
	}
	if len(series.Bars) == 0 {
		return nil, fmt.Errorf("alpaca bars %s: %w", symbol, ErrNoData)
	}
	return dedupeDays(series), nil
}

func (f *AlpacaFetcher) FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trade, err := f.Client.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		// 422 is the answer for a malformed symbol
		var apiErr *alpaca.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusUnprocessableEntity) {
			return nil, fmt.Errorf("alpaca %s: %v: %w", symbol, err, ErrNotFound)
		}
		return nil, fmt.Errorf("alpaca latest trade %s: %w", symbol, err)
	}
	if trade == nil {
		return nil, fmt.Errorf("alpaca %s: %w", symbol, ErrNotFound)
	}
	return &model.CompanyProfile{
		Symbol:       symbol,
		ShortName:    symbol,
		Currency:     "USD",
		CurrentPrice: model.Float(trade.Price),
	}, nil
}
