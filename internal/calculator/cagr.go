package calculator

import (
	"fmt"
	"math"

	"StockLens/internal/model"
)

// ComputeCAGR returns the compound annual growth rate between the first and
// last price of an already windowed series: (p1/p0)^(1/horizonYears) - 1.
// The result may be negative or above 1.
func ComputeCAGR(prices []float64, horizonYears int) (float64, error) {
	if horizonYears <= 0 {
		return 0, fmt.Errorf("horizon %d years: %w", horizonYears, ErrMalformedInput)
	}
	if len(prices) < 2 {
		return 0, ErrInsufficientData
	}
	p0, p1 := prices[0], prices[len(prices)-1]
	if !(p0 > 0) || !(p1 > 0) || math.IsInf(p0, 0) || math.IsInf(p1, 0) {
		return 0, fmt.Errorf("start price %v, end price %v: %w", p0, p1, ErrMalformedInput)
	}
	return math.Pow(p1/p0, 1/float64(horizonYears)) - 1, nil
}

// CAGRForHorizon windows the series to the trailing horizon and computes its CAGR.
// The window ends at the series' own last date, not the calendar date.
func CAGRForHorizon(series *model.PriceSeries, horizonYears int) (float64, error) {
	if horizonYears <= 0 {
		return 0, fmt.Errorf("horizon %d years: %w", horizonYears, ErrMalformedInput)
	}
	window := TrailingWindow(series, horizonYears)
	return ComputeCAGR(window.Prices(), horizonYears)
}

// ComputeHorizons computes the CAGR of every horizon independently: one
// horizon lacking data does not affect the others.
func ComputeHorizons(series *model.PriceSeries, horizons []int) model.HorizonResult {
	result := make(model.HorizonResult, 0, len(horizons))
	for _, years := range horizons {
		rate, err := CAGRForHorizon(series, years)
		result = append(result, model.HorizonRate{
			Label: HorizonLabel(years),
			Years: years,
			Rate:  rate,
			Err:   err,
		})
	}
	return result
}

// HorizonLabel names a horizon, e.g. "1 year" or "5 years".
func HorizonLabel(years int) string {
	if years == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", years)
}
