package calculator

import (
	"errors"
	"fmt"
	"math"
)

// MovingAverage returns the simple moving average of prices over period,
// aligned with prices. Indexes before the first full window are NaN.
func MovingAverage(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(prices) < period {
		return nil, fmt.Errorf("moving average needs %d prices, got %d: %w", period, len(prices), ErrInsufficientData)
	}
	out := make([]float64, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out, nil
}
