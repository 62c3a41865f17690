package calculator

import (
	"errors"

	"StockLens/internal/model"
)

// CalculatePriceRange scans the selected price of every bar and returns the
// high and low with the dates they occurred on.
func CalculatePriceRange(series *model.PriceSeries) (*model.PriceRange, error) {
	if series.Len() == 0 {
		return nil, errors.New("no bars provided")
	}
	prices := series.Prices()
	r := &model.PriceRange{
		High: prices[0], HighDate: series.Bars[0].Time,
		Low: prices[0], LowDate: series.Bars[0].Time,
	}
	for i := 1; i < len(prices); i++ {
		if prices[i] > r.High {
			r.High = prices[i]
			r.HighDate = series.Bars[i].Time
		}
		if prices[i] < r.Low {
			r.Low = prices[i]
			r.LowDate = series.Bars[i].Time
		}
	}
	return r, nil
}

// RangePosition returns where current sits within [low, high], clamped to 0..1.
func RangePosition(current float64, r *model.PriceRange) (float64, error) {
	if r.High == r.Low {
		return 0.5, nil
	}
	if r.High < r.Low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - r.Low) / (r.High - r.Low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
