package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockLens/internal/model"
)

func dailySeries(start time.Time, prices ...float64) *model.PriceSeries {
	s := &model.PriceSeries{Symbol: "TEST"}
	for i, p := range prices {
		s.Bars = append(s.Bars, model.OHLCV{Time: start.AddDate(0, 0, i), Close: p})
	}
	return s
}

func TestComputeCAGR_Formula(t *testing.T) {
	tests := []struct {
		prices []float64
		years  int
		want   float64
	}{
		{[]float64{100, 200}, 1, 1.0},
		{[]float64{100, 150, 121}, 2, 0.1},
		{[]float64{100, 50}, 1, -0.5},
		{[]float64{100, 90, 800}, 3, 1.0},
		{[]float64{10, 10, 10, 10}, 5, 0},
	}
	for _, tt := range tests {
		got, err := ComputeCAGR(tt.prices, tt.years)
		if err != nil {
			t.Fatalf("%v over %d years: unexpected error %v", tt.prices, tt.years, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%v over %d years: expected %v, got %v", tt.prices, tt.years, tt.want, got)
		}
	}
}

func TestComputeCAGR_DoublingIsExact(t *testing.T) {
	got, err := ComputeCAGR([]float64{100, 200}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1.0 {
		t.Errorf("expected exactly 1.0, got %v", got)
	}
}

func TestComputeCAGR_ConstantIsExactlyZero(t *testing.T) {
	for _, years := range []int{1, 3, 5, 7} {
		got, err := ComputeCAGR([]float64{42.5, 42.5, 42.5}, years)
		if err != nil {
			t.Fatal(err)
		}
		if got != 0 {
			t.Errorf("%d years: expected exactly 0, got %v", years, got)
		}
	}
}

func TestComputeCAGR_InsufficientData(t *testing.T) {
	for _, prices := range [][]float64{nil, {}, {100}} {
		got, err := ComputeCAGR(prices, 1)
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("%v: expected ErrInsufficientData, got %v", prices, err)
		}
		if math.IsNaN(got) {
			t.Errorf("%v: got NaN", prices)
		}
	}
}

func TestComputeCAGR_MalformedInput(t *testing.T) {
	tests := []struct {
		prices []float64
		years  int
	}{
		{[]float64{0, 100}, 1},
		{[]float64{-5, 100}, 1},
		{[]float64{100, 0}, 1},
		{[]float64{100, -1}, 3},
		{[]float64{math.NaN(), 100}, 1},
		{[]float64{100, 200}, 0},
		{[]float64{100, 200}, -1},
	}
	for _, tt := range tests {
		got, err := ComputeCAGR(tt.prices, tt.years)
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("%v over %d: expected ErrMalformedInput, got %v", tt.prices, tt.years, err)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("%v over %d: got non-finite %v", tt.prices, tt.years, got)
		}
	}
}

func TestComputeHorizons_IndependentFailures(t *testing.T) {
	// 400 daily bars: 1 year fits, 3 and 5 years still compute over what is
	// available, a window with a single bar does not.
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := make([]float64, 400)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	series := dailySeries(start, prices...)

	res := ComputeHorizons(series, []int{1, 3, 5})
	if len(res) != 3 {
		t.Fatalf("expected 3 horizons, got %d", len(res))
	}
	for _, h := range res {
		if !h.OK() {
			t.Errorf("%s: unexpected error %v", h.Label, h.Err)
		}
	}

	one := dailySeries(start, 100)
	res = ComputeHorizons(one, []int{1, 3})
	for _, h := range res {
		if !errors.Is(h.Err, ErrInsufficientData) {
			t.Errorf("%s: expected ErrInsufficientData, got %v", h.Label, h.Err)
		}
	}

	if _, ok := res.Lookup("3 years"); !ok {
		t.Error("expected lookup of \"3 years\" to succeed")
	}
	if _, ok := res.Lookup("10 years"); ok {
		t.Error("expected lookup of \"10 years\" to fail")
	}
}

func TestCAGRForHorizon_UsesSeriesLastDate(t *testing.T) {
	// The series ends long before today: the window must still be anchored on
	// the last bar.
	series := &model.PriceSeries{Bars: []model.OHLCV{
		{Time: time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC), Close: 10},
		{Time: time.Date(2014, 1, 3, 0, 0, 0, 0, time.UTC), Close: 50},
		{Time: time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100},
	}}
	got, err := CAGRForHorizon(series, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1.0 {
		t.Errorf("expected 1.0, got %v", got)
	}
}

func TestComputeAnnualizedVolatility(t *testing.T) {
	prices := []float64{100, 110, 99, 108.9}
	// returns: 0.1, -0.1, 0.1 -> mean 1/30, population variance 2/225
	want := math.Sqrt(2.0/225.0) * math.Sqrt(252)
	got, err := ComputeAnnualizedVolatility(prices, TradingDaysPerYear)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestComputeAnnualizedVolatility_ConstantIsExactlyZero(t *testing.T) {
	got, err := ComputeAnnualizedVolatility([]float64{7, 7, 7, 7, 7}, TradingDaysPerYear)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("expected exactly 0, got %v", got)
	}
}

func TestComputeAnnualizedVolatility_ScaleInvariant(t *testing.T) {
	prices := []float64{100, 103, 101, 97, 104, 108, 102}
	scaled := make([]float64, len(prices))
	for i, p := range prices {
		scaled[i] = p * 2
	}
	a, err := ComputeAnnualizedVolatility(prices, TradingDaysPerYear)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeAnnualizedVolatility(scaled, TradingDaysPerYear)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(a-b) > 1e-12 {
		t.Errorf("expected scale invariance, got %v and %v", a, b)
	}
}

func TestComputeAnnualizedVolatility_InsufficientData(t *testing.T) {
	for _, prices := range [][]float64{nil, {100}} {
		got, err := ComputeAnnualizedVolatility(prices, TradingDaysPerYear)
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("%v: expected ErrInsufficientData, got %v (value %v)", prices, err, got)
		}
	}
}

func TestComputeAnnualizedVolatility_Malformed(t *testing.T) {
	_, err := ComputeAnnualizedVolatility([]float64{100, 0, 100}, TradingDaysPerYear)
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestCalculator_Idempotent(t *testing.T) {
	series := dailySeries(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 100, 101.5, 99.2, 104.7, 103.1)
	c := NewCalculator(0, nil)

	v1, v2 := c.Volatility(series), c.Volatility(series)
	if v1.Annualized != v2.Annualized || v1.Returns != 4 {
		t.Errorf("volatility not idempotent: %v vs %v (returns %d)", v1.Annualized, v2.Annualized, v1.Returns)
	}
	h1, h2 := c.Horizons(series), c.Horizons(series)
	for i := range h1 {
		if h1[i].Rate != h2[i].Rate {
			t.Errorf("%s: not idempotent: %v vs %v", h1[i].Label, h1[i].Rate, h2[i].Rate)
		}
	}
}

func TestCalculator_Settings(t *testing.T) {
	c := NewCalculator(365, []int{2})
	if c.TradingDays != 365 {
		t.Errorf("expected 365 trading days, got %v", c.TradingDays)
	}
	res := c.Horizons(dailySeries(time.Now(), 1, 2))
	if len(res) != 1 || res[0].Label != "2 years" {
		t.Errorf("expected a single \"2 years\" horizon, got %+v", res)
	}

	d := NewCalculator(0, nil)
	if d.TradingDays != TradingDaysPerYear || len(d.HorizonSet) != 3 {
		t.Errorf("expected defaults, got %v days and horizons %v", d.TradingDays, d.HorizonSet)
	}
}

func TestCalculator_VolatilityUsesAdjustedClose(t *testing.T) {
	start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	series := &model.PriceSeries{Bars: []model.OHLCV{
		{Time: start, Close: 50, AdjClose: 100},
		{Time: start.AddDate(0, 0, 1), Close: 50, AdjClose: 100},
	}}
	v := NewCalculator(0, nil).Volatility(series)
	if !v.OK() || v.Annualized != 0 {
		t.Errorf("expected 0 from flat adjusted prices, got %v (%v)", v.Annualized, v.Err)
	}
}
