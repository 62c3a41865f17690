package model

import (
	"fmt"
	"time"
)

// OHLCV represents a single daily bar.
// AdjClose is zero when the provider does not report an adjusted close.
type OHLCV struct {
	Time     time.Time `json:"time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close,omitempty"`
	Volume   float64   `json:"volume"`
}

// PriceSeries holds the daily history of one symbol, oldest bar first.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Bars      []OHLCV   `json:"bars"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// HasAdjusted reports whether every bar carries an adjusted close.
func (s *PriceSeries) HasAdjusted() bool {
	if s.Len() == 0 {
		return false
	}
	for _, b := range s.Bars {
		if b.AdjClose <= 0 {
			return false
		}
	}
	return true
}

// PriceColumn names the column Prices reads from.
func (s *PriceSeries) PriceColumn() string {
	if s.HasAdjusted() {
		return "Adj Close"
	}
	return "Close"
}

// Prices returns the selected price of every bar: the adjusted close when the
// whole series has one, the close otherwise. Mixing both would create
// artificial jumps at the boundary.
func (s *PriceSeries) Prices() []float64 {
	if s.Len() == 0 {
		return nil
	}
	adjusted := s.HasAdjusted()
	prices := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		if adjusted {
			prices[i] = b.AdjClose
		} else {
			prices[i] = b.Close
		}
	}
	return prices
}

// Latest returns the most recent bar.
func (s *PriceSeries) Latest() (OHLCV, bool) {
	if s.Len() == 0 {
		return OHLCV{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// LastPrice returns the date and selected price of the most recent bar, read
// from the same column as Prices.
func (s *PriceSeries) LastPrice() (time.Time, float64, bool) {
	prices := s.Prices()
	if len(prices) == 0 {
		return time.Time{}, 0, false
	}
	return s.Bars[len(s.Bars)-1].Time, prices[len(prices)-1], true
}

// Since returns a new series holding the bars dated at or after t.
// The receiver is left untouched.
func (s *PriceSeries) Since(t time.Time) *PriceSeries {
	out := &PriceSeries{Symbol: s.Symbol, FetchedAt: s.FetchedAt}
	for _, b := range s.Bars {
		if !b.Time.Before(t) {
			out.Bars = append(out.Bars, b)
		}
	}
	return out
}

// Tail returns the last n bars.
func (s *PriceSeries) Tail(n int) []OHLCV {
	if n <= 0 || s.Len() == 0 {
		return nil
	}
	if n > len(s.Bars) {
		n = len(s.Bars)
	}
	return s.Bars[len(s.Bars)-n:]
}

// Validate checks that bar dates strictly increase and that every selected
// price is positive.
func (s *PriceSeries) Validate() error {
	prices := s.Prices()
	for i, b := range s.Bars {
		if prices[i] <= 0 {
			return fmt.Errorf("bar %s: non-positive price %v", b.Time.Format("2006-01-02"), prices[i])
		}
		if i > 0 && !b.Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("bar %s: dates not strictly increasing", b.Time.Format("2006-01-02"))
		}
	}
	return nil
}
