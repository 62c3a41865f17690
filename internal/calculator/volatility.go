package calculator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DailyReturns computes simple returns r[i] = p[i]/p[i-1] - 1.
// A series of n prices yields n-1 returns.
func DailyReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, ErrInsufficientData
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if !(prev > 0) || !(prices[i] > 0) {
			return nil, fmt.Errorf("price %d: %w", i, ErrMalformedInput)
		}
		returns[i-1] = prices[i]/prev - 1
	}
	return returns, nil
}

// ComputeAnnualizedVolatility returns the population standard deviation of
// daily returns (divided by the count, no Bessel correction) scaled by
// sqrt(tradingDays). A non-positive tradingDays selects TradingDaysPerYear.
func ComputeAnnualizedVolatility(prices []float64, tradingDays float64) (float64, error) {
	if tradingDays <= 0 {
		tradingDays = TradingDaysPerYear
	}
	returns, err := DailyReturns(prices)
	if err != nil {
		return 0, err
	}
	return stat.PopStdDev(returns, nil) * math.Sqrt(tradingDays), nil
}
