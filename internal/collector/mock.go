package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"StockLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price      float64
	Series     *model.PriceSeries    // fixed history; generated when nil
	Profile    *model.CompanyProfile // fixed profile; generated when nil
	HistoryErr error
	ProfileErr error

	HistoryCalls atomic.Int64
	ProfileCalls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	m.HistoryCalls.Add(1)
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	out := &model.PriceSeries{Symbol: symbol, FetchedAt: time.Now()}
	if m.Series != nil {
		for _, b := range m.Series.Bars {
			if !b.Time.Before(start) && b.Time.Before(end) {
				out.Bars = append(out.Bars, b)
			}
		}
	} else {
		out.Bars = generateMockBars(m.Price, start, end)
	}
	if len(out.Bars) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

func (m *MockFetcher) FetchProfile(_ context.Context, symbol string) (*model.CompanyProfile, error) {
	m.ProfileCalls.Add(1)
	if m.ProfileErr != nil {
		return nil, m.ProfileErr
	}
	if m.Profile != nil {
		p := *m.Profile
		return &p, nil
	}
	return &model.CompanyProfile{
		Symbol:       symbol,
		ShortName:    symbol + " Inc.",
		LongName:     symbol + " Incorporated",
		Sector:       "Technology",
		Industry:     "Consumer Electronics",
		Summary:      symbol + " Incorporated designs and sells consumer electronics. It is headquartered in California.",
		Website:      "https://www.example.com",
		Currency:     "USD",
		CurrentPrice: model.Float(m.Price),
	}, nil
}

// generateMockBars produces one bar per weekday in [start, end) with a slow
// upward drift and a small oscillation.
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars []model.OHLCV
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; day.Before(end); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.0004) * (1 + 0.01*math.Sin(float64(i)/5))
		bars = append(bars, model.OHLCV{
			Time:     day,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		})
		i++
	}
	return bars
}
