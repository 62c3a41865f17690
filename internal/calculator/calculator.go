package calculator

import (
	"errors"

	"StockLens/internal/model"
)

// TradingDaysPerYear is the number of trading sessions used to annualize daily volatility.
const TradingDaysPerYear = 252

// DefaultHorizons are the trailing windows, in years, the dashboard reports CAGR for.
var DefaultHorizons = []int{1, 3, 5}

var (
	// ErrInsufficientData means fewer than two prices were available.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrMalformedInput means a non-positive price or horizon was supplied.
	ErrMalformedInput = errors.New("malformed input")
)

// MetricsCalculator is what the presentation layer needs from this package.
type MetricsCalculator interface {
	Horizons(series *model.PriceSeries) model.HorizonResult
	Volatility(series *model.PriceSeries) model.VolatilityResult
	Range(series *model.PriceSeries) (*model.PriceRange, error)
}

// Calculator computes metrics over a price series. It holds no state besides
// its settings and is safe for concurrent use.
type Calculator struct {
	TradingDays float64
	HorizonSet  []int
}

// NewCalculator creates a Calculator. Zero or empty arguments select the defaults.
func NewCalculator(tradingDays int, horizons []int) *Calculator {
	c := &Calculator{TradingDays: TradingDaysPerYear, HorizonSet: DefaultHorizons}
	if tradingDays > 0 {
		c.TradingDays = float64(tradingDays)
	}
	if len(horizons) > 0 {
		c.HorizonSet = append([]int(nil), horizons...)
	}
	return c
}

// Horizons computes the CAGR for every configured horizon.
func (c *Calculator) Horizons(series *model.PriceSeries) model.HorizonResult {
	return ComputeHorizons(series, c.HorizonSet)
}

// Volatility computes the annualized volatility over the whole series.
func (c *Calculator) Volatility(series *model.PriceSeries) model.VolatilityResult {
	res := model.VolatilityResult{TradingDays: c.TradingDays}
	prices := series.Prices()
	if len(prices) > 1 {
		res.Returns = len(prices) - 1
	}
	res.Annualized, res.Err = ComputeAnnualizedVolatility(prices, c.TradingDays)
	return res
}

// Range returns the high and low of the series.
func (c *Calculator) Range(series *model.PriceSeries) (*model.PriceRange, error) {
	return CalculatePriceRange(series)
}
